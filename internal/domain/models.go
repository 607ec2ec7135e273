package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           uuid.UUID `db:"id"`
	Login        string    `db:"login"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	OrgID        *uuid.UUID `db:"org_id"`
	CreatedAt    time.Time `db:"created_at"`
}

type Tenant struct {
	ID     uuid.UUID `db:"id"`
	Code   string    `db:"code"`
	Host   string    `db:"host"`
	Locale string    `db:"locale"`
	Name   string    `db:"name"`
	Active bool      `db:"active"`
}

// Scope identifies a ledger/pricing partition: an individual user or an organization.
type Scope struct {
	Type string
	ID   uuid.UUID
}

const (
	ScopeUser = "user"
	ScopeOrg  = "org"
)

func UserScope(id uuid.UUID) Scope { return Scope{Type: ScopeUser, ID: id} }
func OrgScope(id uuid.UUID) Scope  { return Scope{Type: ScopeOrg, ID: id} }

// LedgerEntry is append-only. A scope's balance is the sum of Change over its rows.
type LedgerEntry struct {
	ID         uuid.UUID       `db:"id"`
	ScopeType  string          `db:"scope_type"`
	ScopeID    uuid.UUID       `db:"scope_id"`
	Change     decimal.Decimal `db:"change"`
	Reason     string          `db:"reason"`
	QuestionID *uuid.UUID      `db:"question_id"`
	OrderID    *uuid.UUID      `db:"order_id"`
	Meta       json.RawMessage `db:"meta"`
	CreatedAt  time.Time       `db:"created_at"`
}

type PriceTier struct {
	ID        uuid.UUID       `db:"id"`
	ScopeType string          `db:"scope_type"`
	Range     NumRange        `db:"credit_range"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	Active    bool            `db:"active"`
}

type Order struct {
	ID          uuid.UUID       `db:"id"`
	UserID      uuid.UUID       `db:"user_id"`
	TenantID    uuid.UUID       `db:"tenant_id"`
	AmountMinor int64           `db:"amount_minor"`
	Currency    string          `db:"currency"`
	Status      string          `db:"status"`
	Provider    string          `db:"provider"`
	ProviderRef string          `db:"provider_ref"`
	Credits     decimal.Decimal `db:"credits"`
	QuestionID  *uuid.UUID      `db:"question_id"`
	Meta        json.RawMessage `db:"meta"`
	CreatedAt   time.Time       `db:"created_at"`
	PaidAt      *time.Time      `db:"paid_at"`
}

type Question struct {
	ID               uuid.UUID       `db:"id"`
	TenantID         uuid.UUID       `db:"tenant_id"`
	UserID           uuid.UUID       `db:"user_id"`
	Title            string          `db:"title"`
	Body             string          `db:"body"`
	Status           string          `db:"status"`
	CreditsCharged   decimal.Decimal `db:"credits_charged"`
	AssignedWorkerID *uuid.UUID      `db:"assigned_worker_id"`
	AnswerDraft      string          `db:"answer_draft"`
	SLADueAt         time.Time       `db:"sla_due_at"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

type QuestionRevision struct {
	ID         uuid.UUID `db:"id"`
	QuestionID uuid.UUID `db:"question_id"`
	Body       string    `db:"body"`
	CreatedAt  time.Time `db:"created_at"`
}

type SLARule struct {
	ID               uuid.UUID `db:"id"`
	MinutesBeforeSLA int       `db:"minutes_before_sla"`
	QuestionStatuses []string  `db:"question_statuses"`
	NotifyUser       bool      `db:"notify_user"`
	NotifyAssignee   bool      `db:"notify_assignee"`
	NotifyAdmin      bool      `db:"notify_admin"`
	Active           bool      `db:"active"`
}

type RagDocument struct {
	ID         uuid.UUID `db:"id"`
	TenantID   uuid.UUID `db:"tenant_id"`
	Title      string    `db:"title"`
	Source     string    `db:"source"`
	Status     string    `db:"status"`
	ChunkCount int       `db:"chunk_count"`
	CreatedAt  time.Time `db:"created_at"`
}

type RagChunk struct {
	ID         uuid.UUID `db:"id"`
	DocumentID uuid.UUID `db:"document_id"`
	Idx        int       `db:"idx"`
	Content    string    `db:"content"`
	Embedding  []float32 `db:"embedding"`
	CreatedAt  time.Time `db:"created_at"`
}

type AnswerProfile struct {
	ID           uuid.UUID       `db:"id"`
	Name         string          `db:"name"`
	Model        string          `db:"model"`
	SystemPrompt string          `db:"system_prompt"`
	Temperature  decimal.Decimal `db:"temperature"`
	MaxTokens    int             `db:"max_tokens"`
	Active       bool            `db:"active"`
}

type NewsPost struct {
	ID          uuid.UUID  `db:"id"`
	TenantID    uuid.UUID  `db:"tenant_id"`
	Locale      string     `db:"locale"`
	Slug        string     `db:"slug"`
	Title       string     `db:"title"`
	Body        string     `db:"body"`
	Published   bool       `db:"published"`
	PublishedAt *time.Time `db:"published_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

type ContactTicket struct {
	ID        uuid.UUID `db:"id"`
	TenantID  uuid.UUID `db:"tenant_id"`
	Email     string    `db:"email"`
	Subject   string    `db:"subject"`
	Body      string    `db:"body"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

type WorkerProfile struct {
	ID          uuid.UUID `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	DisplayName string    `db:"display_name"`
	Headline    string    `db:"headline"`
	Bio         string    `db:"bio"`
	PhotoKey    string    `db:"photo_key"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
}

type WorkerBlock struct {
	ID        uuid.UUID `db:"id"`
	ProfileID uuid.UUID `db:"profile_id"`
	Idx       int       `db:"idx"`
	Kind      string    `db:"kind"`
	Content   string    `db:"content"`
}

type AuditLog struct {
	ID         uuid.UUID       `db:"id"`
	Actor      string          `db:"actor"`
	Action     string          `db:"action"`
	ObjectType string          `db:"object_type"`
	ObjectID   string          `db:"object_id"`
	Detail     json.RawMessage `db:"detail"`
	CreatedAt  time.Time       `db:"created_at"`
}

type SLAReminder struct {
	ID         uuid.UUID `db:"id"`
	RuleID     uuid.UUID `db:"rule_id"`
	QuestionID uuid.UUID `db:"question_id"`
	SentAt     time.Time `db:"sent_at"`
}
