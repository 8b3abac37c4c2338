package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"almoner/database"
	"almoner/middleware"
	"almoner/models"
	"almoner/services"
)

// ListCampaigns returns all campaigns
func ListCampaigns(c *fiber.Ctx) error {
	var campaigns []models.Campaign
	if result := database.DB.Order("created_at DESC").Find(&campaigns); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch campaigns",
		})
	}

	responses := make([]models.CampaignResponse, len(campaigns))
	for i, camp := range campaigns {
		responses[i] = camp.ToResponse()
	}

	return c.JSON(responses)
}

// GetCampaign returns a single campaign by ID
func GetCampaign(c *fiber.Ctx) error {
	campaignID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid campaign ID",
		})
	}

	var campaign models.Campaign
	if result := database.DB.First(&campaign, campaignID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Campaign not found",
		})
	}

	return c.JSON(campaign.ToResponse())
}

// CreateCampaign creates a new campaign
func CreateCampaign(c *fiber.Ctx) error {
	var input models.CampaignInput
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
	if input.Goal == nil || *input.Goal < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A non-negative goal is required",
		})
	}
	if input.Status == "" {
		input.Status = models.CampaignStatusPlanned
	}
	if !models.ValidCampaignStatus(input.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be 'planned', 'active', 'completed' or 'postponed'",
		})
	}

	// Campaign names are unique
	var existing models.Campaign
	if result := database.DB.Where("name = ?", input.Name).First(&existing); result.Error == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Campaign name already exists",
		})
	}

	campaign := models.Campaign{
		Name:      input.Name,
		Goal:      *input.Goal,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Status:    input.Status,
	}
	if input.Raised != nil {
		if *input.Raised < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Raised cannot be negative",
			})
		}
		campaign.Raised = *input.Raised
	}
	if input.Description != nil {
		campaign.Description = *input.Description
	}

	if result := database.DB.Create(&campaign); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create campaign",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogAudit(userID, username, models.AuditActionCampaignCreate, nil, "", "Created campaign: "+campaign.Name, c.IP())

	return c.Status(fiber.StatusCreated).JSON(campaign.ToResponse())
}

// UpdateCampaign updates an existing campaign
func UpdateCampaign(c *fiber.Ctx) error {
	campaignID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid campaign ID",
		})
	}

	var campaign models.Campaign
	if result := database.DB.First(&campaign, campaignID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Campaign not found",
		})
	}

	var input models.CampaignInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Name != "" && input.Name != campaign.Name {
		var existing models.Campaign
		if result := database.DB.Where("name = ? AND id != ?", input.Name, campaignID).First(&existing); result.Error == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Campaign name already exists",
			})
		}
		campaign.Name = input.Name
	}
	if input.Goal != nil {
		if *input.Goal < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Goal cannot be negative",
			})
		}
		campaign.Goal = *input.Goal
	}
	if input.Raised != nil {
		if *input.Raised < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Raised cannot be negative",
			})
		}
		campaign.Raised = *input.Raised
	}
	if input.StartDate != nil {
		campaign.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		campaign.EndDate = input.EndDate
	}
	if input.Status != "" {
		if !models.ValidCampaignStatus(input.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Status must be 'planned', 'active', 'completed' or 'postponed'",
			})
		}
		campaign.Status = input.Status
	}
	if input.Description != nil {
		campaign.Description = *input.Description
	}

	if result := database.DB.Save(&campaign); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update campaign",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogAudit(userID, username, models.AuditActionCampaignUpdate, nil, "", "Updated campaign: "+campaign.Name, c.IP())

	return c.JSON(campaign.ToResponse())
}

// DeleteCampaign deletes a campaign
func DeleteCampaign(c *fiber.Ctx) error {
	campaignID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid campaign ID",
		})
	}

	var campaign models.Campaign
	if result := database.DB.First(&campaign, campaignID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Campaign not found",
		})
	}

	deletedName := campaign.Name
	if result := database.DB.Delete(&campaign); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete campaign",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogAudit(userID, username, models.AuditActionCampaignDelete, nil, "", "Deleted campaign: "+deletedName, c.IP())

	return c.SendStatus(fiber.StatusNoContent)
}
