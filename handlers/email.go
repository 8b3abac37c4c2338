package handlers

import (
	"github.com/gofiber/fiber/v2"

	"almoner/config"
	"almoner/database"
	"almoner/middleware"
	"almoner/models"
	"almoner/services"
)

type SendEmailRequest struct {
	To      string `json:"to"`
	DonorID *uint  `json:"donor_id"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// SendEmail proxies one email through the transactional sending API.
// Either an explicit address or a donor id supplies the recipient.
func SendEmail(c *fiber.Ctx) error {
	var req SendEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Subject == "" || req.HTML == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Subject and body are required",
		})
	}

	to := req.To
	var donorID *uint
	var donorName string
	if req.DonorID != nil {
		var donor models.Donor
		if result := database.DB.First(&donor, *req.DonorID); result.Error != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Donor not found",
			})
		}
		if donor.Email == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Donor has no email address",
			})
		}
		to = donor.Email
		donorID = &donor.ID
		donorName = donor.Name
	}
	if to == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A recipient is required",
		})
	}

	cfg := config.GetConfig()
	apiKey, err := services.OpenSecret(cfg.EmailAPIKeySealed)
	if err != nil || apiKey == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Email sending is not configured",
		})
	}

	mailer := services.NewMailer(cfg.EmailAPIURL, apiKey, cfg.EmailFrom)
	messageID, err := mailer.Send(to, req.Subject, req.HTML)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to send email",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogAudit(userID, username, models.AuditActionEmailSend, donorID, donorName, "Sent email: "+req.Subject, c.IP())

	return c.JSON(fiber.Map{
		"message_id": messageID,
	})
}
