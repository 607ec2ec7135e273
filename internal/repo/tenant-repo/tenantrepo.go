package tenantrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
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

func (r *Repository) FindByHost(ctx context.Context, host string) (*domain.Tenant, error) {
	query := `
        SELECT id, code, host, locale, name, active
        FROM tenants
        WHERE host = $1 AND active = TRUE
    `
	return r.scanOne(r.db.QueryRow(ctx, query, host))
}

func (r *Repository) FindByCode(ctx context.Context, code string) (*domain.Tenant, error) {
	query := `
        SELECT id, code, host, locale, name, active
        FROM tenants
        WHERE code = $1 AND active = TRUE
    `
	return r.scanOne(r.db.QueryRow(ctx, query, code))
}

func (r *Repository) scanOne(row pgx.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	err := row.Scan(&t.ID, &t.Code, &t.Host, &t.Locale, &t.Name, &t.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to find tenant", zap.Error(err))
		return nil, err
	}
	return &t, nil
}
