package orderrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/pg"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

const orderColumns = `id, user_id, tenant_id, amount_minor, currency, status, provider, provider_ref, credits, question_id, meta, created_at, paid_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.UserID, &o.TenantID, &o.AmountMinor, &o.Currency, &o.Status, &o.Provider,
		&o.ProviderRef, &o.Credits, &o.QuestionID, &o.Meta, &o.CreatedAt, &o.PaidAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	query := `
        INSERT INTO orders (user_id, tenant_id, amount_minor, currency, status, provider, provider_ref, credits, question_id, meta)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, '{}'::jsonb))
        RETURNING ` + orderColumns
	row := r.db.QueryRow(ctx, query, order.UserID, order.TenantID, order.AmountMinor, order.Currency,
		order.Status, order.Provider, order.ProviderRef, order.Credits, order.QuestionID, order.Meta)
	created, err := scanOrder(row)
	if err != nil {
		zap.L().Error("failed to create order", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to find order", zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (r *Repository) FindByProviderRef(ctx context.Context, provider, ref string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE provider = $1 AND provider_ref = $2`
	order, err := scanOrder(r.db.QueryRow(ctx, query, provider, ref))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to find order by provider ref", zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *Repository) ListByStatus(ctx context.Context, status string, limit int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status = $1 ORDER BY created_at ASC LIMIT $2`
	return r.list(ctx, query, status, limit)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(&o.ID, &o.UserID, &o.TenantID, &o.AmountMinor, &o.Currency, &o.Status, &o.Provider,
			&o.ProviderRef, &o.Credits, &o.QuestionID, &o.Meta, &o.CreatedAt, &o.PaidAt)
		if err != nil {
			zap.L().Error("failed to scan order", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// MarkPaid flips pending -> paid at most once. It reports whether this call
// performed the transition; a repeated delivery finds zero affected rows.
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID, providerRef string, paidAt time.Time) (bool, error) {
	query := `
        UPDATE orders
        SET status = 'paid', provider_ref = $1, paid_at = $2
        WHERE id = $3 AND status = 'pending'
    `
	tag, err := r.db.Exec(ctx, query, providerRef, paidAt, id)
	if err != nil {
		zap.L().Error("failed to mark order paid", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	query := `
        UPDATE orders
        SET status = 'failed', meta = meta || jsonb_build_object('failure_reason', $1::text)
        WHERE id = $2 AND status = 'pending'
    `
	tag, err := r.db.Exec(ctx, query, reason, id)
	if err != nil {
		zap.L().Error("failed to mark order failed", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
