package auditrepo

import (
	"context"

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

func (r *Repository) Insert(ctx context.Context, log *domain.AuditLog) error {
	query := `
        INSERT INTO audit_logs (actor, action, object_type, object_id, detail)
        VALUES ($1, $2, $3, $4, COALESCE($5, '{}'::jsonb))
    `
	_, err := r.db.Exec(ctx, query, log.Actor, log.Action, log.ObjectType, log.ObjectID, log.Detail)
	if err != nil {
		zap.L().Error("failed to insert audit log", zap.Error(err))
	}
	return err
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]domain.AuditLog, error) {
	query := `
        SELECT id, actor, action, object_type, object_id, detail, created_at
        FROM audit_logs
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		zap.L().Error("failed to list audit logs", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(&l.ID, &l.Actor, &l.Action, &l.ObjectType, &l.ObjectID, &l.Detail, &l.CreatedAt); err != nil {
			zap.L().Error("failed to scan audit log", zap.Error(err))
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
