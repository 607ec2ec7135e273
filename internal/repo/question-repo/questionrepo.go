package questionrepo

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

const questionColumns = `id, tenant_id, user_id, title, body, status, credits_charged, assigned_worker_id, answer_draft, sla_due_at, created_at, updated_at`

func scanQuestion(row pgx.Row) (*domain.Question, error) {
	var q domain.Question
	err := row.Scan(&q.ID, &q.TenantID, &q.UserID, &q.Title, &q.Body, &q.Status, &q.CreditsCharged,
		&q.AssignedWorkerID, &q.AnswerDraft, &q.SLADueAt, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *Repository) Create(ctx context.Context, q *domain.Question) (*domain.Question, error) {
	query := `
        INSERT INTO questions (tenant_id, user_id, title, body, status, credits_charged, sla_due_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + questionColumns
	row := r.db.QueryRow(ctx, query, q.TenantID, q.UserID, q.Title, q.Body, q.Status, q.CreditsCharged, q.SLADueAt)
	created, err := scanQuestion(row)
	if err != nil {
		zap.L().Error("failed to create question", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	q, err := scanQuestion(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to find question", zap.Error(err))
		return nil, err
	}
	return q, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *Repository) ListByStatus(ctx context.Context, status string, limit int) ([]domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE status = $1 ORDER BY created_at ASC LIMIT $2`
	return r.list(ctx, query, status, limit)
}

// FindDueForReminder returns questions in one of the given statuses whose SLA
// deadline falls inside (now, now+window] and that have no reminder row for
// the rule yet.
func (r *Repository) FindDueForReminder(ctx context.Context, ruleID uuid.UUID, statuses []string, now time.Time, window time.Duration) ([]domain.Question, error) {
	query := `
        SELECT ` + questionColumns + `
        FROM questions q
        WHERE q.status = ANY($1)
          AND q.sla_due_at > $2
          AND q.sla_due_at <= $3
          AND NOT EXISTS (
              SELECT 1 FROM sla_reminders sr
              WHERE sr.rule_id = $4 AND sr.question_id = q.id
          )
        ORDER BY q.sla_due_at ASC
    `
	return r.list(ctx, query, statuses, now, now.Add(window), ruleID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Question, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("failed to list questions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		err := rows.Scan(&q.ID, &q.TenantID, &q.UserID, &q.Title, &q.Body, &q.Status, &q.CreditsCharged,
			&q.AssignedWorkerID, &q.AnswerDraft, &q.SLADueAt, &q.CreatedAt, &q.UpdatedAt)
		if err != nil {
			zap.L().Error("failed to scan question", zap.Error(err))
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *Repository) Update(ctx context.Context, q *domain.Question) error {
	query := `
        UPDATE questions
        SET title = $1, body = $2, status = $3, credits_charged = $4,
            assigned_worker_id = $5, answer_draft = $6, updated_at = now()
        WHERE id = $7
    `
	_, err := r.db.Exec(ctx, query, q.Title, q.Body, q.Status, q.CreditsCharged, q.AssignedWorkerID, q.AnswerDraft, q.ID)
	if err != nil {
		zap.L().Error("failed to update question", zap.Error(err))
	}
	return err
}

func (r *Repository) InsertRevision(ctx context.Context, questionID uuid.UUID, body string) error {
	query := `INSERT INTO question_revisions (question_id, body) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, questionID, body)
	if err != nil {
		zap.L().Error("failed to insert question revision", zap.Error(err))
	}
	return err
}

func (r *Repository) ListRevisions(ctx context.Context, questionID uuid.UUID) ([]domain.QuestionRevision, error) {
	query := `
        SELECT id, question_id, body, created_at
        FROM question_revisions
        WHERE question_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, questionID)
	if err != nil {
		zap.L().Error("failed to list question revisions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var revisions []domain.QuestionRevision
	for rows.Next() {
		var rev domain.QuestionRevision
		if err := rows.Scan(&rev.ID, &rev.QuestionID, &rev.Body, &rev.CreatedAt); err != nil {
			zap.L().Error("failed to scan question revision", zap.Error(err))
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}
