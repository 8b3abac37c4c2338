package models

import (
	"time"

	"gorm.io/gorm"
)

type DonorStatus string

const (
	DonorStatusActive DonorStatus = "active"
	DonorStatusLapsed DonorStatus = "lapsed"
	DonorStatusMajor  DonorStatus = "major"
)

// Donor is one supporter record. Status is set by the user and never
// derived from giving history; a donor with TotalDonated over the major
// threshold is not auto-promoted.
type Donor struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"index" json:"email"`
	Phone        string         `json:"phone"`
	TotalDonated float64        `gorm:"not null;default:0" json:"total_donated"`
	LastDonation *time.Time     `json:"last_donation,omitempty"` // nil means never donated
	Status       DonorStatus    `gorm:"not null;default:active" json:"status"`
	Description  string         `json:"description,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// DonorInput is used for creating/updating donors
type DonorInput struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	TotalDonated *float64    `json:"total_donated"`
	LastDonation *time.Time  `json:"last_donation"`
	Status       DonorStatus `json:"status"`
	Description  *string     `json:"description"`
}

type DonorResponse struct {
	ID           uint        `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	TotalDonated float64     `json:"total_donated"`
	LastDonation *time.Time  `json:"last_donation,omitempty"`
	Status       DonorStatus `json:"status"`
	Description  string      `json:"description,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (d *Donor) ToResponse() DonorResponse {
	return DonorResponse{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		TotalDonated: d.TotalDonated,
		LastDonation: d.LastDonation,
		Status:       d.Status,
		Description:  d.Description,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func ValidDonorStatus(s DonorStatus) bool {
	return s == DonorStatusActive || s == DonorStatusLapsed || s == DonorStatusMajor
}
