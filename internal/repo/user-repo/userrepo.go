package userrepo

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

func (r *Repository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `
        SELECT id, login, email, password_hash, org_id, created_at
        FROM users
        WHERE login = $1
    `
	row := r.db.QueryRow(ctx, query, login)
	var user domain.User
	err := row.Scan(&user.ID, &user.Login, &user.Email, &user.PasswordHash, &user.OrgID, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to find user by login", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
        SELECT id, login, email, password_hash, org_id, created_at
        FROM users
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, id)
	var user domain.User
	err := row.Scan(&user.ID, &user.Login, &user.Email, &user.PasswordHash, &user.OrgID, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to find user by id", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
        INSERT INTO users (login, email, password_hash, org_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, login, email, password_hash, org_id, created_at
    `
	row := r.db.QueryRow(ctx, query, user.Login, user.Email, user.PasswordHash, user.OrgID)
	var created domain.User
	err := row.Scan(&created.ID, &created.Login, &created.Email, &created.PasswordHash, &created.OrgID, &created.CreatedAt)
	if err != nil {
		zap.L().Error("failed to create user", zap.Error(err))
		return nil, err
	}
	return &created, nil
}
