package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"almoner/database"
	"almoner/middleware"
	"almoner/models"
	"almoner/segment"
	"almoner/services"
)

var groupRegistry *segment.Registry

// InitGroupRegistry wires the registry the group handlers serve from.
// Called once from main before routes are mounted.
func InitGroupRegistry(r *segment.Registry) {
	groupRegistry = r
}

type GroupInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Criteria    []string `json:"criteria"`
	Color       string   `json:"color"`
}

// fetchDonors loads the full donor list the engine filters in memory.
func fetchDonors() ([]models.Donor, error) {
	var donors []models.Donor
	if result := database.DB.Find(&donors); result.Error != nil {
		return nil, result.Error
	}
	return donors, nil
}

// ListGroups returns the full catalogue with donor counts derived from
// the current donor list. Counts are computed on every read; a stored
// count is never trusted. If the custom-group store cannot be read the
// built-ins still come back, so the UI degrades instead of going blank.
func ListGroups(c *fiber.Ctx) error {
	donors, err := fetchDonors()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch donors",
		})
	}

	groups, err := groupRegistry.List()
	if err != nil {
		logrus.WithError(err).Warn("custom group store unreadable, serving built-ins only")
		groups = segment.BuiltinGroups()
	}

	for i := range groups {
		groups[i].DonorCount = segment.CountDonors(donors, &groups[i])
	}

	return c.JSON(groups)
}

// GetGroup returns one group with its derived donor count
func GetGroup(c *fiber.Ctx) error {
	groupID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid group ID",
		})
	}

	group, err := groupRegistry.Get(groupID)
	if err != nil {
		if errors.Is(err, segment.ErrGroupNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Group not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load group",
		})
	}

	donors, err := fetchDonors()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch donors",
		})
	}
	group.DonorCount = segment.CountDonors(donors, &group)

	return c.JSON(group)
}

// ListGroupDonors returns the donors matching a group
func ListGroupDonors(c *fiber.Ctx) error {
	groupID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid group ID",
		})
	}

	group, err := groupRegistry.Get(groupID)
	if err != nil {
		if errors.Is(err, segment.ErrGroupNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Group not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load group",
		})
	}

	donors, err := fetchDonors()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch donors",
		})
	}

	matched := segment.FilterDonorsByGroup(donors, &group)
	responses := make([]models.DonorResponse, len(matched))
	for i, d := range matched {
		responses[i] = d.ToResponse()
	}

	return c.JSON(responses)
}

// CreateGroup creates a new custom group (admin only)
func CreateGroup(c *fiber.Ctx) error {
	var input GroupInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}
	if input.Color == "" {
		input.Color = "#3b82f6"
	}

	group, err := groupRegistry.Create(segment.Group{
		Name:        input.Name,
		Description: input.Description,
		Criteria:    input.Criteria,
		Color:       input.Color,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create group",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogAudit(userID, username, models.AuditActionGroupCreate, nil, "", "Created group: "+group.Name, c.IP())

	return c.Status(fiber.StatusCreated).JSON(group)
}

// UpdateGroup replaces a custom group (admin only). Built-in groups are
// immutable and the attempt is rejected, never silently ignored.
func UpdateGroup(c *fiber.Ctx) error {
	groupID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid group ID",
		})
	}

	var input GroupInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}

	group, err := groupRegistry.Update(segment.Group{
		ID:          groupID,
		Name:        input.Name,
		Description: input.Description,
		Criteria:    input.Criteria,
		Color:       input.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, segment.ErrBuiltinGroup):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Cannot modify built-in group",
			})
		case errors.Is(err, segment.ErrGroupNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Group not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update group",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogAudit(userID, username, models.AuditActionGroupUpdate, nil, "", "Updated group: "+group.Name, c.IP())

	return c.JSON(group)
}

// DeleteGroup deletes a custom group (admin only)
func DeleteGroup(c *fiber.Ctx) error {
	groupID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid group ID",
		})
	}

	if err := groupRegistry.Delete(groupID); err != nil {
		switch {
		case errors.Is(err, segment.ErrBuiltinGroup):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Cannot modify built-in group",
			})
		case errors.Is(err, segment.ErrGroupNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Group not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete group",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogAudit(userID, username, models.AuditActionGroupDelete, nil, "", "Deleted group "+strconv.Itoa(groupID), c.IP())

	return c.SendStatus(fiber.StatusNoContent)
}
