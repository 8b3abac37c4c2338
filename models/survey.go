package models

import (
	"time"

	"gorm.io/gorm"
)

type QuestionKind string

const (
	QuestionKindText   QuestionKind = "text"
	QuestionKindChoice QuestionKind = "choice"
	QuestionKindScale  QuestionKind = "scale"
)

// SurveyQuestion is one onboarding/survey prompt. Position drives display
// order; choices are only meaningful for the choice kind and are stored as
// a JSON-encoded string array.
type SurveyQuestion struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Prompt    string         `gorm:"not null" json:"prompt"`
	Kind      QuestionKind   `gorm:"not null;default:text" json:"kind"`
	Choices   string         `json:"choices,omitempty"`
	Position  int            `gorm:"not null;index" json:"position"`
	Active    bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type SurveyQuestionInput struct {
	Prompt   string       `json:"prompt"`
	Kind     QuestionKind `json:"kind"`
	Choices  []string     `json:"choices"`
	Position *int         `json:"position"`
	Active   *bool        `json:"active"`
}

// SurveyResponse is one donor's answer to one question.
type SurveyResponse struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	DonorID    uint      `gorm:"not null;index" json:"donor_id"`
	Answer     string    `gorm:"not null" json:"answer"`
	CreatedAt  time.Time `json:"created_at"`
}

type SurveyResponseInput struct {
	QuestionID uint   `json:"question_id"`
	DonorID    uint   `json:"donor_id"`
	Answer     string `json:"answer"`
}

func ValidQuestionKind(k QuestionKind) bool {
	return k == QuestionKindText || k == QuestionKindChoice || k == QuestionKindScale
}
