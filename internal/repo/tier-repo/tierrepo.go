package tierrepo

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

func (r *Repository) ListActive(ctx context.Context, scopeType string) ([]domain.PriceTier, error) {
	query := `
        SELECT id, scope_type, credit_range, unit_price, active
        FROM price_tiers
        WHERE scope_type = $1 AND active = TRUE
        ORDER BY credit_range
    `
	return r.list(ctx, query, scopeType)
}

func (r *Repository) ListAll(ctx context.Context) ([]domain.PriceTier, error) {
	query := `
        SELECT id, scope_type, credit_range, unit_price, active
        FROM price_tiers
        ORDER BY scope_type, credit_range
    `
	return r.list(ctx, query)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.PriceTier, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("failed to list price tiers", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tiers []domain.PriceTier
	for rows.Next() {
		var t domain.PriceTier
		var rangeText string
		if err := rows.Scan(&t.ID, &t.ScopeType, &rangeText, &t.UnitPrice, &t.Active); err != nil {
			zap.L().Error("failed to scan price tier", zap.Error(err))
			return nil, err
		}
		t.Range, err = domain.ParseNumRange(rangeText)
		if err != nil {
			zap.L().Error("stored price tier has malformed range", zap.String("range", rangeText), zap.Error(err))
			return nil, err
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}

func (r *Repository) Create(ctx context.Context, tier *domain.PriceTier) (*domain.PriceTier, error) {
	query := `
        INSERT INTO price_tiers (scope_type, credit_range, unit_price, active)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	row := r.db.QueryRow(ctx, query, tier.ScopeType, tier.Range.String(), tier.UnitPrice, tier.Active)
	if err := row.Scan(&tier.ID); err != nil {
		zap.L().Error("failed to create price tier", zap.Error(err))
		return nil, err
	}
	return tier, nil
}

func (r *Repository) Update(ctx context.Context, tier *domain.PriceTier) error {
	query := `
        UPDATE price_tiers
        SET scope_type = $1, credit_range = $2, unit_price = $3, active = $4
        WHERE id = $5
    `
	_, err := r.db.Exec(ctx, query, tier.ScopeType, tier.Range.String(), tier.UnitPrice, tier.Active, tier.ID)
	if err != nil {
		zap.L().Error("failed to update price tier", zap.Error(err))
	}
	return err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM price_tiers WHERE id = $1`, id)
	if err != nil {
		zap.L().Error("failed to delete price tier", zap.Error(err))
	}
	return err
}
