package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"almoner/config"
	"almoner/middleware"
	"almoner/models"
	"almoner/services"
)

// AppSettings is the admin-visible settings shape. Provider API keys are
// write-only: the response only says whether one is configured.
type AppSettings struct {
	SessionDurationHours int      `json:"session_duration_hours"`
	AdminEmails          []string `json:"admin_emails"`
	AuditRetentionDays   int      `json:"audit_retention_days"`
	AIBaseURL            string   `json:"ai_base_url"`
	AIModel              string   `json:"ai_model"`
	AIKeyConfigured      bool     `json:"ai_key_configured"`
	EmailAPIURL          string   `json:"email_api_url"`
	EmailFrom            string   `json:"email_from"`
	EmailKeyConfigured   bool     `json:"email_key_configured"`
}

type SettingsInput struct {
	SessionDurationHours *int     `json:"session_duration_hours"`
	AdminEmails          []string `json:"admin_emails"`
	AuditRetentionDays   *int     `json:"audit_retention_days"`
	AIBaseURL            *string  `json:"ai_base_url"`
	AIModel              *string  `json:"ai_model"`
	AIAPIKey             *string  `json:"ai_api_key"`
	EmailAPIURL          *string  `json:"email_api_url"`
	EmailFrom            *string  `json:"email_from"`
	EmailAPIKey          *string  `json:"email_api_key"`
}

func settingsFromConfig(cfg *config.Config) AppSettings {
	return AppSettings{
		SessionDurationHours: cfg.SessionDurationHours,
		AdminEmails:          cfg.AdminEmails,
		AuditRetentionDays:   cfg.AuditRetentionDays,
		AIBaseURL:            cfg.AIBaseURL,
		AIModel:              cfg.AIModel,
		AIKeyConfigured:      len(cfg.AIAPIKeySealed) > 0,
		EmailAPIURL:          cfg.EmailAPIURL,
		EmailFrom:            cfg.EmailFrom,
		EmailKeyConfigured:   len(cfg.EmailAPIKeySealed) > 0,
	}
}

// GetSettings returns non-sensitive application settings (admin only)
func GetSettings(c *fiber.Ctx) error {
	return c.JSON(settingsFromConfig(config.GetConfig()))
}

// UpdateSettings updates application settings (admin only)
func UpdateSettings(c *fiber.Ctx) error {
	var input SettingsInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	cfg := config.GetConfig()

	if input.SessionDurationHours != nil {
		if *input.SessionDurationHours < 1 || *input.SessionDurationHours > 720 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Session duration must be between 1 and 720 hours",
			})
		}
		cfg.SessionDurationHours = *input.SessionDurationHours
	}
	if input.AuditRetentionDays != nil {
		if *input.AuditRetentionDays < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Audit retention must be at least 1 day",
			})
		}
		cfg.AuditRetentionDays = *input.AuditRetentionDays
	}
	if input.AdminEmails != nil {
		emails := make([]string, 0, len(input.AdminEmails))
		for _, raw := range input.AdminEmails {
			email := strings.ToLower(strings.TrimSpace(raw))
			if email == "" {
				continue
			}
			if !strings.Contains(email, "@") {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid admin email: " + raw,
				})
			}
			emails = append(emails, email)
		}
		cfg.AdminEmails = emails
	}
	if input.AIBaseURL != nil {
		cfg.AIBaseURL = *input.AIBaseURL
	}
	if input.AIModel != nil {
		cfg.AIModel = *input.AIModel
	}
	if input.AIAPIKey != nil && *input.AIAPIKey != "" {
		sealed, err := services.SealSecret(*input.AIAPIKey)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to store AI API key",
			})
		}
		cfg.AIAPIKeySealed = sealed
	}
	if input.EmailAPIURL != nil {
		cfg.EmailAPIURL = *input.EmailAPIURL
	}
	if input.EmailFrom != nil {
		cfg.EmailFrom = *input.EmailFrom
	}
	if input.EmailAPIKey != nil && *input.EmailAPIKey != "" {
		sealed, err := services.SealSecret(*input.EmailAPIKey)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to store email API key",
			})
		}
		cfg.EmailAPIKeySealed = sealed
	}

	if err := cfg.Save(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save settings",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogAudit(userID, username, models.AuditActionSettingsUpdate, nil, "", "", c.IP())

	return c.JSON(settingsFromConfig(cfg))
}
