package ledgerservice

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/pg"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	ledgerRepo := NewMockRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	service := New(ledgerRepo, txManager)
	defer ctrl.Finish()
	return service, ledgerRepo, txManager
}

func inTx(txManager *pg.MockTXManager) {
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		})
}

func TestGetBalance(t *testing.T) {
	service, ledgerRepo, _ := NewMock(t)
	scope := domain.UserScope(uuid.New())

	tests := []struct {
		name            string
		prepareMock     func()
		expectedBalance string
		expectedError   error
	}{
		{
			name: "Retrieve balance successfully",
			prepareMock: func() {
				ledgerRepo.EXPECT().GetBalance(gomock.Any(), scope).Return(decimal.NewFromInt(42), nil)
			},
			expectedBalance: "42",
		},
		{
			name: "Error retrieving balance",
			prepareMock: func() {
				ledgerRepo.EXPECT().GetBalance(gomock.Any(), scope).Return(decimal.Zero, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			balance, err := service.GetBalance(context.Background(), scope)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedBalance, balance.String())
			}
		})
	}
}

func TestCredit(t *testing.T) {
	service, ledgerRepo, _ := NewMock(t)
	scope := domain.OrgScope(uuid.New())
	orderID := uuid.New()

	tests := []struct {
		name          string
		amount        decimal.Decimal
		prepareMock   func()
		expectedError error
	}{
		{
			name:   "Successful credit",
			amount: decimal.NewFromInt(50),
			prepareMock: func() {
				ledgerRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
						assert.Equal(t, scope.Type, entry.ScopeType)
						assert.Equal(t, scope.ID, entry.ScopeID)
						assert.Equal(t, "50", entry.Change.String())
						assert.Equal(t, "credit_purchase", entry.Reason)
						assert.Equal(t, &orderID, entry.OrderID)
						return entry, nil
					})
			},
		},
		{
			name:          "Zero amount rejected",
			amount:        decimal.Zero,
			prepareMock:   func() {},
			expectedError: ErrNonPositiveAmount,
		},
		{
			name:          "Negative amount rejected",
			amount:        decimal.NewFromInt(-5),
			prepareMock:   func() {},
			expectedError: ErrNonPositiveAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			entry, err := service.Credit(context.Background(), scope, tt.amount, "credit_purchase", &orderID)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, entry)
			}
		})
	}
}

func TestDebit(t *testing.T) {
	scope := domain.UserScope(uuid.New())
	questionID := uuid.New()

	tests := []struct {
		name          string
		amount        decimal.Decimal
		prepareMock   func(ledgerRepo *MockRepo, txManager *pg.MockTXManager)
		expectedError error
	}{
		{
			name:   "Successful debit locks the scope before re-reading the balance",
			amount: decimal.NewFromInt(1),
			prepareMock: func(ledgerRepo *MockRepo, txManager *pg.MockTXManager) {
				inTx(txManager)
				lock := ledgerRepo.EXPECT().LockScope(gomock.Any(), scope).Return(nil)
				ledgerRepo.EXPECT().GetBalance(gomock.Any(), scope).Return(decimal.NewFromInt(10), nil).After(lock)
				ledgerRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
						assert.Equal(t, "-1", entry.Change.String())
						assert.Equal(t, "question_debit", entry.Reason)
						assert.Equal(t, &questionID, entry.QuestionID)
						return entry, nil
					})
			},
		},
		{
			name:   "Insufficient balance",
			amount: decimal.NewFromInt(5),
			prepareMock: func(ledgerRepo *MockRepo, txManager *pg.MockTXManager) {
				inTx(txManager)
				ledgerRepo.EXPECT().LockScope(gomock.Any(), scope).Return(nil)
				ledgerRepo.EXPECT().GetBalance(gomock.Any(), scope).Return(decimal.NewFromInt(4), nil)
			},
			expectedError: ErrInsufficientBalance,
		},
		{
			name:   "Exact balance passes",
			amount: decimal.NewFromInt(4),
			prepareMock: func(ledgerRepo *MockRepo, txManager *pg.MockTXManager) {
				inTx(txManager)
				ledgerRepo.EXPECT().LockScope(gomock.Any(), scope).Return(nil)
				ledgerRepo.EXPECT().GetBalance(gomock.Any(), scope).Return(decimal.NewFromInt(4), nil)
				ledgerRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
						return entry, nil
					})
			},
		},
		{
			name:          "Non-positive amount rejected before the transaction",
			amount:        decimal.Zero,
			prepareMock:   func(ledgerRepo *MockRepo, txManager *pg.MockTXManager) {},
			expectedError: ErrNonPositiveAmount,
		},
		{
			name:   "Lock failure aborts before the balance read",
			amount: decimal.NewFromInt(1),
			prepareMock: func(ledgerRepo *MockRepo, txManager *pg.MockTXManager) {
				inTx(txManager)
				ledgerRepo.EXPECT().LockScope(gomock.Any(), scope).Return(errors.New("lock error"))
			},
			expectedError: errors.New("lock error"),
		},
		{
			name:   "Balance lookup error",
			amount: decimal.NewFromInt(1),
			prepareMock: func(ledgerRepo *MockRepo, txManager *pg.MockTXManager) {
				inTx(txManager)
				ledgerRepo.EXPECT().LockScope(gomock.Any(), scope).Return(nil)
				ledgerRepo.EXPECT().GetBalance(gomock.Any(), scope).Return(decimal.Zero, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, ledgerRepo, txManager := NewMock(t)
			tt.prepareMock(ledgerRepo, txManager)

			entry, err := service.Debit(context.Background(), scope, tt.amount, "question_debit", &questionID)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, entry)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, entry)
			}
		})
	}
}

func TestAdjust(t *testing.T) {
	service, ledgerRepo, _ := NewMock(t)
	scope := domain.UserScope(uuid.New())

	t.Run("Negative adjustment allowed", func(t *testing.T) {
		ledgerRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
				assert.Equal(t, "-3", entry.Change.String())
				assert.Equal(t, "admin_adjustment", entry.Reason)
				assert.JSONEq(t, `{"note":"chargeback"}`, string(entry.Meta))
				return entry, nil
			})

		entry, err := service.Adjust(context.Background(), scope, decimal.NewFromInt(-3), "chargeback")
		assert.NoError(t, err)
		assert.NotNil(t, entry)
	})

	t.Run("Zero adjustment rejected", func(t *testing.T) {
		_, err := service.Adjust(context.Background(), scope, decimal.Zero, "noop")
		assert.ErrorIs(t, err, ErrNonPositiveAmount)
	})
}

func TestDeleteEntry(t *testing.T) {
	service, ledgerRepo, _ := NewMock(t)
	id := uuid.New()

	ledgerRepo.EXPECT().Delete(gomock.Any(), id).Return(nil)
	assert.NoError(t, service.DeleteEntry(context.Background(), id))
}
