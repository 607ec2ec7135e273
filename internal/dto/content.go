package dto

import "time"

type NewsPostResponseDTO struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Body        string     `json:"body,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type ContactRequestDTO struct {
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=300"`
	Body    string `json:"body" validate:"required"`
}

type ContactResponseDTO struct {
	TicketID string `json:"ticket_id"`
}
