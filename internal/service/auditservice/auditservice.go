package auditservice

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/easycustoms360/backend/internal/domain"
)

type Repo interface {
	Insert(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, limit, offset int) ([]domain.AuditLog, error)
}

type Service struct {
	auditRepo Repo
}

func New(auditRepo Repo) *Service {
	return &Service{auditRepo: auditRepo}
}

// Record writes an audit row for a back-office mutation. Audit failures are
// logged and swallowed so they never fail the operation they describe.
func (s *Service) Record(ctx context.Context, actor, action, objectType, objectID string, detail any) {
	var raw json.RawMessage
	if detail != nil {
		b, err := json.Marshal(detail)
		if err != nil {
			zap.L().Error("failed to marshal audit detail", zap.Error(err))
		} else {
			raw = b
		}
	}
	err := s.auditRepo.Insert(ctx, &domain.AuditLog{
		Actor:      actor,
		Action:     action,
		ObjectType: objectType,
		ObjectID:   objectID,
		Detail:     raw,
	})
	if err != nil {
		zap.L().Error("failed to record audit log",
			zap.String("action", action), zap.Error(err))
	}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.auditRepo.List(ctx, limit, offset)
}
