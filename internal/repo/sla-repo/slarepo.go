package slarepo

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

const ruleColumns = `id, minutes_before_sla, question_statuses, notify_user, notify_assignee, notify_admin, active`

func (r *Repository) ListActive(ctx context.Context) ([]domain.SLARule, error) {
	query := `SELECT ` + ruleColumns + ` FROM sla_rules WHERE active = TRUE ORDER BY minutes_before_sla`
	return r.list(ctx, query)
}

func (r *Repository) ListAll(ctx context.Context) ([]domain.SLARule, error) {
	query := `SELECT ` + ruleColumns + ` FROM sla_rules ORDER BY minutes_before_sla`
	return r.list(ctx, query)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.SLARule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("failed to list sla rules", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var rules []domain.SLARule
	for rows.Next() {
		var rule domain.SLARule
		err := rows.Scan(&rule.ID, &rule.MinutesBeforeSLA, &rule.QuestionStatuses,
			&rule.NotifyUser, &rule.NotifyAssignee, &rule.NotifyAdmin, &rule.Active)
		if err != nil {
			zap.L().Error("failed to scan sla rule", zap.Error(err))
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *Repository) Create(ctx context.Context, rule *domain.SLARule) (*domain.SLARule, error) {
	query := `
        INSERT INTO sla_rules (minutes_before_sla, question_statuses, notify_user, notify_assignee, notify_admin, active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	row := r.db.QueryRow(ctx, query, rule.MinutesBeforeSLA, rule.QuestionStatuses,
		rule.NotifyUser, rule.NotifyAssignee, rule.NotifyAdmin, rule.Active)
	if err := row.Scan(&rule.ID); err != nil {
		zap.L().Error("failed to create sla rule", zap.Error(err))
		return nil, err
	}
	return rule, nil
}

func (r *Repository) Update(ctx context.Context, rule *domain.SLARule) error {
	query := `
        UPDATE sla_rules
        SET minutes_before_sla = $1, question_statuses = $2, notify_user = $3,
            notify_assignee = $4, notify_admin = $5, active = $6
        WHERE id = $7
    `
	_, err := r.db.Exec(ctx, query, rule.MinutesBeforeSLA, rule.QuestionStatuses,
		rule.NotifyUser, rule.NotifyAssignee, rule.NotifyAdmin, rule.Active, rule.ID)
	if err != nil {
		zap.L().Error("failed to update sla rule", zap.Error(err))
	}
	return err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sla_rules WHERE id = $1`, id)
	if err != nil {
		zap.L().Error("failed to delete sla rule", zap.Error(err))
	}
	return err
}

// InsertReminder records that a rule fired for a question. The unique
// constraint makes the insert the dedupe guard: a second scanner pass reports
// inserted=false.
func (r *Repository) InsertReminder(ctx context.Context, ruleID, questionID uuid.UUID) (bool, error) {
	query := `
        INSERT INTO sla_reminders (rule_id, question_id)
        VALUES ($1, $2)
        ON CONFLICT (rule_id, question_id) DO NOTHING
    `
	tag, err := r.db.Exec(ctx, query, ruleID, questionID)
	if err != nil {
		zap.L().Error("failed to insert sla reminder", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
