package ticketrepo

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, t *domain.ContactTicket) (*domain.ContactTicket, error) {
	query := `
        INSERT INTO contact_tickets (tenant_id, email, subject, body, status)
        VALUES ($1, $2, $3, $4, 'open')
        RETURNING id, created_at
    `
	row := r.db.QueryRow(ctx, query, t.TenantID, t.Email, t.Subject, t.Body)
	if err := row.Scan(&t.ID, &t.CreatedAt); err != nil {
		zap.L().Error("failed to create contact ticket", zap.Error(err))
		return nil, err
	}
	t.Status = "open"
	return t, nil
}

func (r *Repository) List(ctx context.Context, status string, limit, offset int) ([]domain.ContactTicket, error) {
	query := `
        SELECT id, tenant_id, email, subject, body, status, created_at
        FROM contact_tickets
        WHERE ($1 = '' OR status = $1)
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		zap.L().Error("failed to list contact tickets", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tickets []domain.ContactTicket
	for rows.Next() {
		var t domain.ContactTicket
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Email, &t.Subject, &t.Body, &t.Status, &t.CreatedAt); err != nil {
			zap.L().Error("failed to scan contact ticket", zap.Error(err))
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE contact_tickets SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		zap.L().Error("failed to update contact ticket status", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
