package ragrepo

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/easycustoms360/backend/internal/domain"
)

// Answer profiles configure the GPT-assisted drafting that consumes the
// ingested chunks, so they live with the rag storage.

const profileColumns = `id, name, model, system_prompt, temperature, max_tokens, active`

func (r *Repository) ListProfiles(ctx context.Context) ([]domain.AnswerProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM answer_profiles ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("failed to list answer profiles", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.AnswerProfile
	for rows.Next() {
		var p domain.AnswerProfile
		err := rows.Scan(&p.ID, &p.Name, &p.Model, &p.SystemPrompt, &p.Temperature, &p.MaxTokens, &p.Active)
		if err != nil {
			zap.L().Error("failed to scan answer profile", zap.Error(err))
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *Repository) CreateProfile(ctx context.Context, p *domain.AnswerProfile) (*domain.AnswerProfile, error) {
	query := `
        INSERT INTO answer_profiles (name, model, system_prompt, temperature, max_tokens, active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	row := r.db.QueryRow(ctx, query, p.Name, p.Model, p.SystemPrompt, p.Temperature, p.MaxTokens, p.Active)
	if err := row.Scan(&p.ID); err != nil {
		zap.L().Error("failed to create answer profile", zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, p *domain.AnswerProfile) error {
	query := `
        UPDATE answer_profiles
        SET name = $1, model = $2, system_prompt = $3, temperature = $4, max_tokens = $5, active = $6
        WHERE id = $7
    `
	_, err := r.db.Exec(ctx, query, p.Name, p.Model, p.SystemPrompt, p.Temperature, p.MaxTokens, p.Active, p.ID)
	if err != nil {
		zap.L().Error("failed to update answer profile", zap.Error(err))
	}
	return err
}

func (r *Repository) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM answer_profiles WHERE id = $1`, id)
	if err != nil {
		zap.L().Error("failed to delete answer profile", zap.Error(err))
	}
	return err
}
