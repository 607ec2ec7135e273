package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type BalanceResponseDTO struct {
	Balance decimal.Decimal `json:"balance" example:"12.5"`
}

type LedgerEntryDTO struct {
	ID        string          `json:"id"`
	Change    decimal.Decimal `json:"change" example:"-1"`
	Reason    string          `json:"reason" example:"question_debit"`
	CreatedAt time.Time       `json:"created_at"`
}

type QuoteRequestDTO struct {
	Credits  decimal.Decimal `json:"credits" example:"10"`
	Currency string          `json:"currency" example:"TRY"`
}

type QuoteResponseDTO struct {
	Credits   decimal.Decimal `json:"credits" example:"10"`
	UnitPrice decimal.Decimal `json:"unit_price" example:"250"`
	Total     decimal.Decimal `json:"total" example:"2500"`
	Currency  string          `json:"currency" example:"TRY"`
}

type CheckoutRequestDTO struct {
	Credits  decimal.Decimal `json:"credits" example:"10"`
	Currency string          `json:"currency" example:"TRY"`
	Provider string          `json:"provider" example:"paytr"`
}

type CheckoutResponseDTO struct {
	OrderID     string `json:"order_id"`
	Provider    string `json:"provider"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

type OrderDTO struct {
	ID          string          `json:"id"`
	AmountMinor int64           `json:"amount_minor" example:"250000"`
	Currency    string          `json:"currency" example:"TRY"`
	Credits     decimal.Decimal `json:"credits" example:"10"`
	Status      string          `json:"status" example:"paid"`
	Provider    string          `json:"provider" example:"paytr"`
	CreatedAt   time.Time       `json:"created_at"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
}

type WebhookAckDTO struct {
	Noop bool `json:"noop"`
}
