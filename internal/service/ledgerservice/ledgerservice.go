package ledgerservice

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/pg"
)

type Repo interface {
	LockScope(ctx context.Context, scope domain.Scope) error
	GetBalance(ctx context.Context, scope domain.Scope) (decimal.Decimal, error)
	Insert(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error)
	ListByScope(ctx context.Context, scope domain.Scope, limit, offset int) ([]domain.LedgerEntry, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	ledgerRepo Repo
	txManager  pg.TXManager
}

func New(ledgerRepo Repo, txManager pg.TXManager) *Service {
	return &Service{
		ledgerRepo: ledgerRepo,
		txManager:  txManager,
	}
}

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
)

func (s *Service) GetBalance(ctx context.Context, scope domain.Scope) (decimal.Decimal, error) {
	balance, err := s.ledgerRepo.GetBalance(ctx, scope)
	if err != nil {
		zap.L().Error("failed to get balance", zap.Error(err))
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *Service) ListEntries(ctx context.Context, scope domain.Scope, limit, offset int) ([]domain.LedgerEntry, error) {
	return s.ledgerRepo.ListByScope(ctx, scope, limit, offset)
}

func (s *Service) ListAllEntries(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, error) {
	return s.ledgerRepo.ListAll(ctx, limit, offset)
}

// Credit appends a positive entry (credit purchase, admin top-up).
func (s *Service) Credit(ctx context.Context, scope domain.Scope, amount decimal.Decimal, reason string, orderID *uuid.UUID) (*domain.LedgerEntry, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	entry := &domain.LedgerEntry{
		ScopeType: scope.Type,
		ScopeID:   scope.ID,
		Change:    amount,
		Reason:    reason,
		OrderID:   orderID,
	}
	return s.ledgerRepo.Insert(ctx, entry)
}

// Debit appends a negative entry after re-checking the balance inside a
// transaction. The scope's advisory lock is taken first, so two concurrent
// debits cannot both pass the check against the same committed rows.
func (s *Service) Debit(ctx context.Context, scope domain.Scope, amount decimal.Decimal, reason string, questionID *uuid.UUID) (*domain.LedgerEntry, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	entry := &domain.LedgerEntry{
		ScopeType:  scope.Type,
		ScopeID:    scope.ID,
		Change:     amount.Neg(),
		Reason:     reason,
		QuestionID: questionID,
	}

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.ledgerRepo.LockScope(ctx, scope); err != nil {
			return err
		}
		balance, err := s.ledgerRepo.GetBalance(ctx, scope)
		if err != nil {
			return err
		}
		if balance.LessThan(amount) {
			return ErrInsufficientBalance
		}
		_, err = s.ledgerRepo.Insert(ctx, entry)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrInsufficientBalance) {
			zap.L().Error("failed to debit ledger", zap.Error(err))
		}
		return nil, err
	}
	return entry, nil
}

// Adjust appends a signed manual correction from the back-office.
func (s *Service) Adjust(ctx context.Context, scope domain.Scope, change decimal.Decimal, note string) (*domain.LedgerEntry, error) {
	if change.IsZero() {
		return nil, ErrNonPositiveAmount
	}
	meta, _ := json.Marshal(map[string]string{"note": note})
	entry := &domain.LedgerEntry{
		ScopeType: scope.Type,
		ScopeID:   scope.ID,
		Change:    change,
		Reason:    "admin_adjustment",
		Meta:      meta,
	}
	return s.ledgerRepo.Insert(ctx, entry)
}

// DeleteEntry backs the admin correction tooling; normal flows never call it.
func (s *Service) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return s.ledgerRepo.Delete(ctx, id)
}
