package workerrepo

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
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

const profileColumns = `id, user_id, display_name, headline, bio, photo_key, active, created_at`

func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.WorkerProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM worker_profiles WHERE user_id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, userID))
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*domain.WorkerProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM worker_profiles WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) scanOne(row pgx.Row) (*domain.WorkerProfile, error) {
	var p domain.WorkerProfile
	err := row.Scan(&p.ID, &p.UserID, &p.DisplayName, &p.Headline, &p.Bio, &p.PhotoKey, &p.Active, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to find worker profile", zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]domain.WorkerProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM worker_profiles WHERE active = TRUE ORDER BY display_name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("failed to list worker profiles", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.WorkerProfile
	for rows.Next() {
		var p domain.WorkerProfile
		err := rows.Scan(&p.ID, &p.UserID, &p.DisplayName, &p.Headline, &p.Bio, &p.PhotoKey, &p.Active, &p.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan worker profile", zap.Error(err))
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *Repository) Upsert(ctx context.Context, p *domain.WorkerProfile) (*domain.WorkerProfile, error) {
	query := `
        INSERT INTO worker_profiles (user_id, display_name, headline, bio, photo_key, active)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (user_id) DO UPDATE
        SET display_name = EXCLUDED.display_name, headline = EXCLUDED.headline,
            bio = EXCLUDED.bio, photo_key = EXCLUDED.photo_key, active = EXCLUDED.active
        RETURNING ` + profileColumns
	row := r.db.QueryRow(ctx, query, p.UserID, p.DisplayName, p.Headline, p.Bio, p.PhotoKey, p.Active)
	var saved domain.WorkerProfile
	err := row.Scan(&saved.ID, &saved.UserID, &saved.DisplayName, &saved.Headline, &saved.Bio,
		&saved.PhotoKey, &saved.Active, &saved.CreatedAt)
	if err != nil {
		zap.L().Error("failed to upsert worker profile", zap.Error(err))
		return nil, err
	}
	return &saved, nil
}

func (r *Repository) ListBlocks(ctx context.Context, profileID uuid.UUID) ([]domain.WorkerBlock, error) {
	query := `
        SELECT id, profile_id, idx, kind, content
        FROM worker_blocks
        WHERE profile_id = $1
        ORDER BY idx ASC
    `
	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		zap.L().Error("failed to list worker blocks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var blocks []domain.WorkerBlock
	for rows.Next() {
		var b domain.WorkerBlock
		if err := rows.Scan(&b.ID, &b.ProfileID, &b.Idx, &b.Kind, &b.Content); err != nil {
			zap.L().Error("failed to scan worker block", zap.Error(err))
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// ReplaceBlocks swaps the full ordered block list in one transaction.
func (r *Repository) ReplaceBlocks(ctx context.Context, profileID uuid.UUID, blocks []domain.WorkerBlock) error {
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		if _, err := r.db.Exec(ctx, `DELETE FROM worker_blocks WHERE profile_id = $1`, profileID); err != nil {
			zap.L().Error("failed to clear worker blocks", zap.Error(err))
			return err
		}
		for i, b := range blocks {
			_, err := r.db.Exec(ctx,
				`INSERT INTO worker_blocks (profile_id, idx, kind, content) VALUES ($1, $2, $3, $4)`,
				profileID, i, b.Kind, b.Content)
			if err != nil {
				zap.L().Error("failed to insert worker block", zap.Error(err))
				return err
			}
		}
		return nil
	})
}
