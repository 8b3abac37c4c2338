package models

import (
	"time"

	"gorm.io/gorm"
)

// Donation is one gift from a donor toward a campaign. Plain CRUD record;
// campaign totals are recomputed from these rows by the nightly job.
type Donation struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	DonorID    uint           `gorm:"not null;index" json:"donor_id"`
	CampaignID uint           `gorm:"not null;index" json:"campaign_id"`
	Amount     float64        `gorm:"not null" json:"amount"`
	Receipt    string         `gorm:"uniqueIndex;not null" json:"receipt"`
	Note       string         `json:"note,omitempty"`
	DonatedAt  time.Time      `gorm:"index" json:"donated_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// DonationInput is used for creating/updating donations
type DonationInput struct {
	DonorID    uint       `json:"donor_id"`
	CampaignID uint       `json:"campaign_id"`
	Amount     float64    `json:"amount"`
	Note       string     `json:"note"`
	DonatedAt  *time.Time `json:"donated_at"`
}
