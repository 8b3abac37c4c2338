package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"almoner/database"
	"almoner/middleware"
	"almoner/models"
	"almoner/services"
)

// ListDonors returns all donors
func ListDonors(c *fiber.Ctx) error {
	var donors []models.Donor
	if result := database.DB.Order("name").Find(&donors); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch donors",
		})
	}

	responses := make([]models.DonorResponse, len(donors))
	for i, d := range donors {
		responses[i] = d.ToResponse()
	}

	return c.JSON(responses)
}

// GetDonor returns a single donor by ID
func GetDonor(c *fiber.Ctx) error {
	donorID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid donor ID",
		})
	}

	var donor models.Donor
	if result := database.DB.First(&donor, donorID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Donor not found",
		})
	}

	return c.JSON(donor.ToResponse())
}

// CreateDonor creates a new donor
func CreateDonor(c *fiber.Ctx) error {
	var input models.DonorInput
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

	if input.Status == "" {
		input.Status = models.DonorStatusActive
	}
	if !models.ValidDonorStatus(input.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be 'active', 'lapsed' or 'major'",
		})
	}

	donor := models.Donor{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		LastDonation: input.LastDonation,
		Status:       input.Status,
	}
	if input.TotalDonated != nil {
		if *input.TotalDonated < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Total donated cannot be negative",
			})
		}
		donor.TotalDonated = *input.TotalDonated
	}
	if input.Description != nil {
		donor.Description = *input.Description
	}

	if result := database.DB.Create(&donor); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create donor",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogAudit(userID, username, models.AuditActionDonorCreate, &donor.ID, donor.Name, "Created donor: "+donor.Name, c.IP())

	return c.Status(fiber.StatusCreated).JSON(donor.ToResponse())
}

// UpdateDonor updates an existing donor
func UpdateDonor(c *fiber.Ctx) error {
	donorID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid donor ID",
		})
	}

	var donor models.Donor
	if result := database.DB.First(&donor, donorID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Donor not found",
		})
	}

	var input models.DonorInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Name != "" {
		donor.Name = input.Name
	}
	if input.Email != "" {
		donor.Email = input.Email
	}
	if input.Phone != "" {
		donor.Phone = input.Phone
	}
	if input.TotalDonated != nil {
		if *input.TotalDonated < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Total donated cannot be negative",
			})
		}
		donor.TotalDonated = *input.TotalDonated
	}
	if input.LastDonation != nil {
		donor.LastDonation = input.LastDonation
	}
	if input.Status != "" {
		if !models.ValidDonorStatus(input.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Status must be 'active', 'lapsed' or 'major'",
			})
		}
		donor.Status = input.Status
	}
	if input.Description != nil {
		donor.Description = *input.Description
	}

	if result := database.DB.Save(&donor); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update donor",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogAudit(userID, username, models.AuditActionDonorUpdate, &donor.ID, donor.Name, "Updated donor: "+donor.Name, c.IP())

	return c.JSON(donor.ToResponse())
}

// DeleteDonor deletes a donor and their survey responses
func DeleteDonor(c *fiber.Ctx) error {
	donorID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid donor ID",
		})
	}

	var donor models.Donor
	if result := database.DB.First(&donor, donorID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Donor not found",
		})
	}

	// Remove the donor's survey responses; donation rows stay for the books
	database.DB.Where("donor_id = ?", donorID).Delete(&models.SurveyResponse{})

	deletedName := donor.Name
	deletedID := donor.ID
	if result := database.DB.Delete(&donor); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete donor",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogAudit(userID, username, models.AuditActionDonorDelete, &deletedID, deletedName, "Deleted donor: "+deletedName, c.IP())

	return c.SendStatus(fiber.StatusNoContent)
}
