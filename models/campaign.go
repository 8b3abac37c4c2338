package models

import (
	"time"

	"gorm.io/gorm"
)

type CampaignStatus string

const (
	CampaignStatusPlanned   CampaignStatus = "planned"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusPostponed CampaignStatus = "postponed"
)

// Campaign is one fundraising effort. Raised may exceed Goal; overshoot
// is valid and shows up as >100% funded.
type Campaign struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`
	Goal        float64        `gorm:"not null" json:"goal"`
	Raised      float64        `gorm:"not null;default:0" json:"raised"`
	StartDate   *time.Time     `json:"start_date,omitempty"`
	EndDate     *time.Time     `json:"end_date,omitempty"`
	Status      CampaignStatus `gorm:"not null;default:planned" json:"status"`
	Description string         `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CampaignInput is used for creating/updating campaigns
type CampaignInput struct {
	Name        string         `json:"name"`
	Goal        *float64       `json:"goal"`
	Raised      *float64       `json:"raised"`
	StartDate   *time.Time     `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	Status      CampaignStatus `json:"status"`
	Description *string        `json:"description"`
}

type CampaignResponse struct {
	ID            uint           `json:"id"`
	Name          string         `json:"name"`
	Goal          float64        `json:"goal"`
	Raised        float64        `json:"raised"`
	PercentFunded float64        `json:"percent_funded"`
	StartDate     *time.Time     `json:"start_date,omitempty"`
	EndDate       *time.Time     `json:"end_date,omitempty"`
	Status        CampaignStatus `json:"status"`
	Description   string         `json:"description,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (c *Campaign) ToResponse() CampaignResponse {
	percent := 0.0
	if c.Goal > 0 {
		percent = c.Raised / c.Goal * 100
	}
	return CampaignResponse{
		ID:            c.ID,
		Name:          c.Name,
		Goal:          c.Goal,
		Raised:        c.Raised,
		PercentFunded: percent,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		Status:        c.Status,
		Description:   c.Description,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func ValidCampaignStatus(s CampaignStatus) bool {
	switch s {
	case CampaignStatusPlanned, CampaignStatusActive, CampaignStatusCompleted, CampaignStatusPostponed:
		return true
	}
	return false
}
