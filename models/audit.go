package models

import (
	"time"
)

type AuditAction string

const (
	AuditActionLogin          AuditAction = "login"
	AuditActionDonorCreate    AuditAction = "donor_create"
	AuditActionDonorUpdate    AuditAction = "donor_update"
	AuditActionDonorDelete    AuditAction = "donor_delete"
	AuditActionCampaignCreate AuditAction = "campaign_create"
	AuditActionCampaignUpdate AuditAction = "campaign_update"
	AuditActionCampaignDelete AuditAction = "campaign_delete"
	AuditActionDonationCreate AuditAction = "donation_create"
	AuditActionDonationUpdate AuditAction = "donation_update"
	AuditActionDonationDelete AuditAction = "donation_delete"
	AuditActionGroupCreate    AuditAction = "group_create"
	AuditActionGroupUpdate    AuditAction = "group_update"
	AuditActionGroupDelete    AuditAction = "group_delete"
	AuditActionEmailSend      AuditAction = "email_send"
	AuditActionAIDraft        AuditAction = "ai_draft"
	AuditActionUserCreate     AuditAction = "user_create"
	AuditActionUserUpdate     AuditAction = "user_update"
	AuditActionUserDelete     AuditAction = "user_delete"
	AuditActionSettingsUpdate AuditAction = "settings_update"
)

// AllAuditActions lists every action in a fixed order for filter dropdowns.
var AllAuditActions = []AuditAction{
	AuditActionLogin,
	AuditActionDonorCreate,
	AuditActionDonorUpdate,
	AuditActionDonorDelete,
	AuditActionCampaignCreate,
	AuditActionCampaignUpdate,
	AuditActionCampaignDelete,
	AuditActionDonationCreate,
	AuditActionDonationUpdate,
	AuditActionDonationDelete,
	AuditActionGroupCreate,
	AuditActionGroupUpdate,
	AuditActionGroupDelete,
	AuditActionEmailSend,
	AuditActionAIDraft,
	AuditActionUserCreate,
	AuditActionUserUpdate,
	AuditActionUserDelete,
	AuditActionSettingsUpdate,
}

type AuditLog struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"index" json:"user_id"`
	Username  string      `json:"username"`
	Action    AuditAction `gorm:"index" json:"action"`
	DonorID   *uint       `gorm:"index" json:"donor_id,omitempty"`
	DonorName string      `json:"donor_name,omitempty"`
	Details   string      `json:"details,omitempty"`
	IPAddress string      `json:"ip_address"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
}

// AuditLogResponse is the response format for audit logs
type AuditLogResponse struct {
	ID        uint        `json:"id"`
	UserID    uint        `json:"user_id"`
	Username  string      `json:"username"`
	Action    AuditAction `json:"action"`
	DonorID   *uint       `json:"donor_id,omitempty"`
	DonorName string      `json:"donor_name,omitempty"`
	Details   string      `json:"details,omitempty"`
	IPAddress string      `json:"ip_address"`
	CreatedAt time.Time   `json:"created_at"`
}

func (a *AuditLog) ToResponse() AuditLogResponse {
	return AuditLogResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Username:  a.Username,
		Action:    a.Action,
		DonorID:   a.DonorID,
		DonorName: a.DonorName,
		Details:   a.Details,
		IPAddress: a.IPAddress,
		CreatedAt: a.CreatedAt,
	}
}
