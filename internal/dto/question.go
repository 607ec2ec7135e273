package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuestionCreateRequestDTO struct {
	Title string `json:"title" validate:"required,max=300"`
	Body  string `json:"body" validate:"required"`
}

type QuestionUpdateRequestDTO struct {
	Body string `json:"body" validate:"required"`
}

type QuestionResponseDTO struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Body           string          `json:"body"`
	Status         string          `json:"status" example:"priced"`
	CreditsCharged decimal.Decimal `json:"credits_charged" example:"1"`
	AnswerDraft    string          `json:"answer,omitempty"`
	SLADueAt       time.Time       `json:"sla_due_at"`
	CreatedAt      time.Time       `json:"created_at"`
}

type QuestionRevisionDTO struct {
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
