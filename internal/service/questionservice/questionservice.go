package questionservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/pg"
)

type Repo interface {
	Create(ctx context.Context, q *domain.Question) (*domain.Question, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Question, error)
	ListByStatus(ctx context.Context, status string, limit int) ([]domain.Question, error)
	Update(ctx context.Context, q *domain.Question) error
	InsertRevision(ctx context.Context, questionID uuid.UUID, body string) error
	ListRevisions(ctx context.Context, questionID uuid.UUID) ([]domain.QuestionRevision, error)
}

type Ledger interface {
	Debit(ctx context.Context, scope domain.Scope, amount decimal.Decimal, reason string, questionID *uuid.UUID) (*domain.LedgerEntry, error)
}

type Users interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type Service struct {
	questionRepo Repo
	ledger       Ledger
	users        Users
	txManager    pg.TXManager
	creditCost   decimal.Decimal
	slaMinutes   int
}

func New(questionRepo Repo, ledger Ledger, users Users, txManager pg.TXManager, creditCost decimal.Decimal, slaMinutes int) *Service {
	if !creditCost.IsPositive() {
		creditCost = decimal.NewFromInt(1)
	}
	return &Service{
		questionRepo: questionRepo,
		ledger:       ledger,
		users:        users,
		txManager:    txManager,
		creditCost:   creditCost,
		slaMinutes:   slaMinutes,
	}
}

const (
	StatusNew      = "new"
	StatusPriced   = "priced"
	StatusAssigned = "assigned"
	StatusAnswered = "answered"
	StatusClosed   = "closed"
	StatusRejected = "rejected"
)

// validTransitions guards every status change in one place instead of ad hoc
// checks per call site.
var validTransitions = map[string][]string{
	StatusNew:      {StatusPriced, StatusRejected},
	StatusPriced:   {StatusAssigned, StatusRejected},
	StatusAssigned: {StatusAnswered, StatusRejected},
	StatusAnswered: {StatusClosed},
}

var (
	ErrQuestionNotFound   = errors.New("question not found")
	ErrNotOwner           = errors.New("question belongs to another user")
	ErrInvalidTransition  = errors.New("invalid question status transition")
	ErrEmptyQuestion      = errors.New("question title and body are required")
)

func canTransition(from, to string) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func scopeFor(user *domain.User) domain.Scope {
	if user.OrgID != nil {
		return domain.OrgScope(*user.OrgID)
	}
	return domain.UserScope(user.ID)
}

// Intake creates the question and charges its credit cost atomically: the
// question row, the ledger debit and the priced status land in one
// transaction, so an insufficient balance leaves nothing behind.
func (s *Service) Intake(ctx context.Context, tenantID, userID uuid.UUID, title, body string) (*domain.Question, error) {
	if title == "" || body == "" {
		return nil, ErrEmptyQuestion
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	var question *domain.Question
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		q := &domain.Question{
			TenantID:       tenantID,
			UserID:         userID,
			Title:          title,
			Body:           body,
			Status:         StatusNew,
			CreditsCharged: s.creditCost,
			SLADueAt:       time.Now().Add(time.Duration(s.slaMinutes) * time.Minute),
		}
		question, err = s.questionRepo.Create(ctx, q)
		if err != nil {
			return err
		}

		if _, err := s.ledger.Debit(ctx, scopeFor(user), s.creditCost, "question_debit", &question.ID); err != nil {
			return err
		}

		question.Status = StatusPriced
		return s.questionRepo.Update(ctx, question)
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("question intake completed",
		zap.String("question_id", question.ID.String()),
		zap.String("credits", s.creditCost.String()))
	return question, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	q, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

func (s *Service) GetOwned(ctx context.Context, id, userID uuid.UUID) (*domain.Question, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.UserID != userID {
		return nil, ErrNotOwner
	}
	return q, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Question, error) {
	return s.questionRepo.ListByUser(ctx, userID)
}

func (s *Service) ListByStatus(ctx context.Context, status string, limit int) ([]domain.Question, error) {
	return s.questionRepo.ListByStatus(ctx, status, limit)
}

// UpdateBody edits the question text and appends the previous body to the
// revision history.
func (s *Service) UpdateBody(ctx context.Context, id, userID uuid.UUID, body string) (*domain.Question, error) {
	q, err := s.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, ErrEmptyQuestion
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.questionRepo.InsertRevision(ctx, q.ID, q.Body); err != nil {
			return err
		}
		q.Body = body
		return s.questionRepo.Update(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) ListRevisions(ctx context.Context, questionID uuid.UUID) ([]domain.QuestionRevision, error) {
	return s.questionRepo.ListRevisions(ctx, questionID)
}

func (s *Service) Assign(ctx context.Context, questionID, workerID uuid.UUID) (*domain.Question, error) {
	return s.transition(ctx, questionID, StatusAssigned, func(q *domain.Question) {
		q.AssignedWorkerID = &workerID
	})
}

func (s *Service) Answer(ctx context.Context, questionID uuid.UUID, draft string) (*domain.Question, error) {
	return s.transition(ctx, questionID, StatusAnswered, func(q *domain.Question) {
		q.AnswerDraft = draft
	})
}

func (s *Service) Close(ctx context.Context, questionID uuid.UUID) (*domain.Question, error) {
	return s.transition(ctx, questionID, StatusClosed, nil)
}

func (s *Service) Reject(ctx context.Context, questionID uuid.UUID) (*domain.Question, error) {
	return s.transition(ctx, questionID, StatusRejected, nil)
}

func (s *Service) transition(ctx context.Context, questionID uuid.UUID, to string, mutate func(*domain.Question)) (*domain.Question, error) {
	q, err := s.Get(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !canTransition(q.Status, to) {
		zap.L().Info("rejected question transition",
			zap.String("question_id", questionID.String()),
			zap.String("from", q.Status),
			zap.String("to", to))
		return nil, ErrInvalidTransition
	}
	if mutate != nil {
		mutate(q)
	}
	q.Status = to
	if err := s.questionRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}
