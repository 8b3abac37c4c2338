package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"almoner/database"
	"almoner/models"
)

// ListAuditLogs returns audit logs (admin only)
func ListAuditLogs(c *fiber.Ctx) error {
	// Parse query parameters
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	action := c.Query("action")
	userIDStr := c.Query("user_id")
	donorIDStr := c.Query("donor_id")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	// Build query
	query := database.DB.Model(&models.AuditLog{})

	if action != "" {
		query = query.Where("action = ?", action)
	}
	if userIDStr != "" {
		if userID, err := strconv.ParseUint(userIDStr, 10, 32); err == nil {
			query = query.Where("user_id = ?", userID)
		}
	}
	if donorIDStr != "" {
		if donorID, err := strconv.ParseUint(donorIDStr, 10, 32); err == nil {
			query = query.Where("donor_id = ?", donorID)
		}
	}

	// Get total count
	var total int64
	query.Count(&total)

	// Get logs
	var logs []models.AuditLog
	if result := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch audit logs",
		})
	}

	responses := make([]models.AuditLogResponse, len(logs))
	for i, log := range logs {
		responses[i] = log.ToResponse()
	}

	return c.JSON(fiber.Map{
		"logs":  responses,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetAuditActions returns available audit actions for filtering
func GetAuditActions(c *fiber.Ctx) error {
	actions := make([]string, len(models.AllAuditActions))
	for i, action := range models.AllAuditActions {
		actions[i] = string(action)
	}

	return c.JSON(actions)
}
