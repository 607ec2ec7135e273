package newsrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
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

const newsColumns = `id, tenant_id, locale, slug, title, body, published, published_at, created_at`

func (r *Repository) ListPublished(ctx context.Context, tenantID uuid.UUID, locale string) ([]domain.NewsPost, error) {
	query := `
        SELECT ` + newsColumns + `
        FROM news_posts
        WHERE tenant_id = $1 AND locale = $2 AND published = TRUE
        ORDER BY published_at DESC
    `
	return r.list(ctx, query, tenantID, locale)
}

func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.NewsPost, error) {
	query := `
        SELECT ` + newsColumns + `
        FROM news_posts
        WHERE tenant_id = $1
        ORDER BY created_at DESC
    `
	return r.list(ctx, query, tenantID)
}

func (r *Repository) FindBySlug(ctx context.Context, tenantID uuid.UUID, locale, slug string) (*domain.NewsPost, error) {
	query := `
        SELECT ` + newsColumns + `
        FROM news_posts
        WHERE tenant_id = $1 AND locale = $2 AND slug = $3 AND published = TRUE
    `
	row := r.db.QueryRow(ctx, query, tenantID, locale, slug)
	var p domain.NewsPost
	err := row.Scan(&p.ID, &p.TenantID, &p.Locale, &p.Slug, &p.Title, &p.Body, &p.Published, &p.PublishedAt, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to find news post", zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.NewsPost, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("failed to list news posts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var posts []domain.NewsPost
	for rows.Next() {
		var p domain.NewsPost
		err := rows.Scan(&p.ID, &p.TenantID, &p.Locale, &p.Slug, &p.Title, &p.Body, &p.Published, &p.PublishedAt, &p.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan news post", zap.Error(err))
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *Repository) Create(ctx context.Context, p *domain.NewsPost) (*domain.NewsPost, error) {
	query := `
        INSERT INTO news_posts (tenant_id, locale, slug, title, body, published, published_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + newsColumns
	row := r.db.QueryRow(ctx, query, p.TenantID, p.Locale, p.Slug, p.Title, p.Body, p.Published, p.PublishedAt)
	var created domain.NewsPost
	err := row.Scan(&created.ID, &created.TenantID, &created.Locale, &created.Slug, &created.Title,
		&created.Body, &created.Published, &created.PublishedAt, &created.CreatedAt)
	if err != nil {
		zap.L().Error("failed to create news post", zap.Error(err))
		return nil, err
	}
	return &created, nil
}

func (r *Repository) Update(ctx context.Context, p *domain.NewsPost) error {
	query := `
        UPDATE news_posts
        SET locale = $1, slug = $2, title = $3, body = $4, published = $5, published_at = $6
        WHERE id = $7
    `
	_, err := r.db.Exec(ctx, query, p.Locale, p.Slug, p.Title, p.Body, p.Published, p.PublishedAt, p.ID)
	if err != nil {
		zap.L().Error("failed to update news post", zap.Error(err))
	}
	return err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM news_posts WHERE id = $1`, id)
	if err != nil {
		zap.L().Error("failed to delete news post", zap.Error(err))
	}
	return err
}
