package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"almoner/config"
	"almoner/database"
	"almoner/middleware"
	"almoner/models"
	"almoner/services"
)

type DraftRequest struct {
	Prompt  string `json:"prompt"`
	DonorID *uint  `json:"donor_id"`
}

// DraftEmail proxies a drafting request to the chat completion API.
// Single attempt; failures come back as a generic error.
func DraftEmail(c *fiber.Ctx) error {
	var req DraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prompt is required",
		})
	}

	cfg := config.GetConfig()
	apiKey, err := services.OpenSecret(cfg.AIAPIKeySealed)
	if err != nil || apiKey == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "AI drafting is not configured",
		})
	}

	// Optional donor context so the draft can reference giving history
	donorContext := ""
	var donorID *uint
	var donorName string
	if req.DonorID != nil {
		var donor models.Donor
		if result := database.DB.First(&donor, *req.DonorID); result.Error != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Donor not found",
			})
		}
		donorContext = fmt.Sprintf("Name: %s\nStatus: %s\nLifetime giving: %.2f", donor.Name, donor.Status, donor.TotalDonated)
		if donor.LastDonation != nil {
			donorContext += "\nLast donation: " + donor.LastDonation.Format("2006-01-02")
		}
		if donor.Description != "" {
			donorContext += "\nNotes: " + donor.Description
		}
		donorID = &donor.ID
		donorName = donor.Name
	}

	writer := services.NewAIWriter(cfg.AIBaseURL, apiKey, cfg.AIModel)
	draft, err := writer.DraftEmail(req.Prompt, donorContext)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to draft email",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogAudit(userID, username, models.AuditActionAIDraft, donorID, donorName, "", c.IP())

	return c.JSON(fiber.Map{
		"draft": draft,
	})
}
