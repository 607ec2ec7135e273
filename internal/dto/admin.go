package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerAdjustRequestDTO struct {
	ScopeType string          `json:"scope_type" example:"user"`
	ScopeID   string          `json:"scope_id"`
	Change    decimal.Decimal `json:"change" example:"-2"`
	Note      string          `json:"note" validate:"required"`
}

type PriceTierRequestDTO struct {
	ScopeType string          `json:"scope_type" example:"user"`
	Range     string          `json:"range" example:"[1,50)"`
	UnitPrice decimal.Decimal `json:"unit_price" example:"250"`
	Active    bool            `json:"active"`
}

type PriceTierResponseDTO struct {
	ID        string          `json:"id"`
	ScopeType string          `json:"scope_type"`
	Range     string          `json:"range"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Active    bool            `json:"active"`
}

type SLARuleRequestDTO struct {
	MinutesBeforeSLA int      `json:"minutes_before_sla" example:"120"`
	QuestionStatuses []string `json:"question_statuses" example:"priced,assigned"`
	NotifyUser       bool     `json:"notify_user"`
	NotifyAssignee   bool     `json:"notify_assignee"`
	NotifyAdmin      bool     `json:"notify_admin"`
	Active           bool     `json:"active"`
}

type SLARuleResponseDTO struct {
	ID               string   `json:"id"`
	MinutesBeforeSLA int      `json:"minutes_before_sla"`
	QuestionStatuses []string `json:"question_statuses"`
	NotifyUser       bool     `json:"notify_user"`
	NotifyAssignee   bool     `json:"notify_assignee"`
	NotifyAdmin      bool     `json:"notify_admin"`
	Active           bool     `json:"active"`
}

type AnswerProfileRequestDTO struct {
	Name         string          `json:"name" validate:"required"`
	Model        string          `json:"model" example:"gpt-4o"`
	SystemPrompt string          `json:"system_prompt"`
	Temperature  decimal.Decimal `json:"temperature" example:"0.2"`
	MaxTokens    int             `json:"max_tokens" example:"1024"`
	Active       bool            `json:"active"`
}

type AnswerProfileResponseDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Model        string          `json:"model"`
	SystemPrompt string          `json:"system_prompt"`
	Temperature  decimal.Decimal `json:"temperature"`
	MaxTokens    int             `json:"max_tokens"`
	Active       bool            `json:"active"`
}

type NewsPostRequestDTO struct {
	Locale    string `json:"locale" example:"tr"`
	Slug      string `json:"slug" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Body      string `json:"body" validate:"required"`
	Published bool   `json:"published"`
}

type RagIngestRequestDTO struct {
	Title  string `json:"title" validate:"required"`
	Source string `json:"source"`
	Text   string `json:"text" validate:"required"`
}

type RagDocumentResponseDTO struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Source     string    `json:"source"`
	Status     string    `json:"status" example:"pending"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type RagBulkDeleteRequestDTO struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

type RagBulkDeleteResponseDTO struct {
	Deleted int64 `json:"deleted"`
}

type AssignRequestDTO struct {
	WorkerID string `json:"worker_id" validate:"required"`
}

type AnswerRequestDTO struct {
	Answer string `json:"answer" validate:"required"`
}

type TicketStatusRequestDTO struct {
	Status string `json:"status" example:"closed"`
}

type TicketResponseDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type AuditLogResponseDTO struct {
	ID         string    `json:"id"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	ObjectType string    `json:"object_type"`
	ObjectID   string    `json:"object_id"`
	CreatedAt  time.Time `json:"created_at"`
}
