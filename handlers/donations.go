package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"almoner/database"
	"almoner/middleware"
	"almoner/models"
	"almoner/services"
)

// ListDonations returns donations, newest first, optionally filtered by
// donor or campaign.
func ListDonations(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Donation{})

	if donorIDStr := c.Query("donor_id"); donorIDStr != "" {
		if donorID, err := strconv.ParseUint(donorIDStr, 10, 32); err == nil {
			query = query.Where("donor_id = ?", donorID)
		}
	}
	if campaignIDStr := c.Query("campaign_id"); campaignIDStr != "" {
		if campaignID, err := strconv.ParseUint(campaignIDStr, 10, 32); err == nil {
			query = query.Where("campaign_id = ?", campaignID)
		}
	}

	var donations []models.Donation
	if result := query.Order("donated_at DESC").Find(&donations); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch donations",
		})
	}

	return c.JSON(donations)
}

// CreateDonation records a gift and bumps the campaign's running total.
// The nightly maintenance job recomputes totals from these rows, so any
// drift from partial failures here is self-healing.
func CreateDonation(c *fiber.Ctx) error {
	var input models.DonationInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Amount must be positive",
		})
	}

	var donor models.Donor
	if result := database.DB.First(&donor, input.DonorID); result.Error != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Donor not found",
		})
	}
	var campaign models.Campaign
	if result := database.DB.First(&campaign, input.CampaignID); result.Error != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Campaign not found",
		})
	}

	donatedAt := time.Now()
	if input.DonatedAt != nil {
		donatedAt = *input.DonatedAt
	}

	donation := models.Donation{
		DonorID:    input.DonorID,
		CampaignID: input.CampaignID,
		Amount:     input.Amount,
		Receipt:    uuid.NewString(),
		Note:       input.Note,
		DonatedAt:  donatedAt,
	}

	if result := database.DB.Create(&donation); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create donation",
		})
	}

	database.DB.Model(&models.Campaign{}).
		Where("id = ?", campaign.ID).
		Update("raised", campaign.Raised+donation.Amount)

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogAudit(userID, username, models.AuditActionDonationCreate, &donor.ID, donor.Name, "Recorded donation "+donation.Receipt, c.IP())

	return c.Status(fiber.StatusCreated).JSON(donation)
}

// UpdateDonation edits the note or date on a donation. Amount and the
// donor/campaign links are immutable after the fact; record a correction
// by deleting and re-creating.
func UpdateDonation(c *fiber.Ctx) error {
	donationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid donation ID",
		})
	}

	var donation models.Donation
	if result := database.DB.First(&donation, donationID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Donation not found",
		})
	}

	var input models.DonationInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Note != "" {
		donation.Note = input.Note
	}
	if input.DonatedAt != nil {
		donation.DonatedAt = *input.DonatedAt
	}

	if result := database.DB.Save(&donation); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update donation",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogAudit(userID, username, models.AuditActionDonationUpdate, &donation.DonorID, "", "Updated donation "+donation.Receipt, c.IP())

	return c.JSON(donation)
}

// DeleteDonation removes a donation and backs its amount out of the
// campaign total.
func DeleteDonation(c *fiber.Ctx) error {
	donationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid donation ID",
		})
	}

	var donation models.Donation
	if result := database.DB.First(&donation, donationID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Donation not found",
		})
	}

	if result := database.DB.Delete(&donation); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete donation",
		})
	}

	var campaign models.Campaign
	if result := database.DB.First(&campaign, donation.CampaignID); result.Error == nil {
		raised := campaign.Raised - donation.Amount
		if raised < 0 {
			raised = 0
		}
		database.DB.Model(&models.Campaign{}).
			Where("id = ?", campaign.ID).
			Update("raised", raised)
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogAudit(userID, username, models.AuditActionDonationDelete, &donation.DonorID, "", "Deleted donation "+donation.Receipt, c.IP())

	return c.SendStatus(fiber.StatusNoContent)
}
