package orderservice

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/payments"
	"github.com/easycustoms360/backend/internal/pg"
	"github.com/easycustoms360/backend/internal/service/pricingservice"
)

type mocks struct {
	orderRepo *MockRepo
	ledger    *MockLedger
	users     *MockUsers
	pricing   *MockPricing
	notifier  *MockNotifier
	paytr     *MockPayTRGateway
	paddle    *MockPaddleGateway
	txManager *pg.MockTXManager
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		orderRepo: NewMockRepo(ctrl),
		ledger:    NewMockLedger(ctrl),
		users:     NewMockUsers(ctrl),
		pricing:   NewMockPricing(ctrl),
		notifier:  NewMockNotifier(ctrl),
		paytr:     NewMockPayTRGateway(ctrl),
		paddle:    NewMockPaddleGateway(ctrl),
		txManager: pg.NewMockTXManager(ctrl),
	}
	service := New(m.orderRepo, m.ledger, m.users, m.pricing, m.notifier, m.paytr, m.paddle, m.txManager)
	defer ctrl.Finish()
	return service, m
}

func inTx(txManager *pg.MockTXManager) {
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		})
}

func TestCheckout(t *testing.T) {
	userID := uuid.New()
	tenantID := uuid.New()
	orgID := uuid.New()
	credits := decimal.NewFromInt(10)

	quote := &pricingservice.Quote{
		Credits:   credits,
		UnitPrice: decimal.NewFromInt(25),
		Total:     decimal.NewFromInt(250),
		Currency:  "TRY",
	}

	tests := []struct {
		name          string
		provider      string
		prepareMock   func(m *mocks)
		expectedError error
	}{
		{
			name:     "PayTR checkout",
			provider: ProviderPayTR,
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID, Email: "u@example.com"}, nil)
				m.pricing.EXPECT().QuoteFor(gomock.Any(), domain.ScopeUser, credits, "TRY").Return(quote, nil)
				m.orderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
						assert.Equal(t, StatusPending, order.Status)
						assert.Equal(t, int64(25000), order.AmountMinor)
						assert.NotContains(t, order.ProviderRef, "-")
						order.ID = uuid.New()
						return order, nil
					})
				m.paytr.EXPECT().CreateToken(gomock.Any(), "u@example.com", "10.0.0.1", int64(25000), "TRY").
					Return(&payments.CheckoutSession{Provider: "paytr", RedirectURL: "https://paytr/x"}, nil)
			},
		},
		{
			name:     "Org member is priced with the org scope",
			provider: ProviderPaddle,
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID, OrgID: &orgID}, nil)
				m.pricing.EXPECT().QuoteFor(gomock.Any(), domain.ScopeOrg, credits, "TRY").Return(quote, nil)
				m.orderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
						order.ID = uuid.New()
						return order, nil
					})
				m.paddle.EXPECT().CreateTransaction(gomock.Any(), int64(25000), "TRY").
					Return(&payments.CheckoutSession{Provider: "paddle"}, nil)
			},
		},
		{
			name:     "Unknown provider",
			provider: "stripe",
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
				m.pricing.EXPECT().QuoteFor(gomock.Any(), domain.ScopeUser, credits, "TRY").Return(quote, nil)
			},
			expectedError: ErrUnknownProvider,
		},
		{
			name:     "Provider rejection marks the order failed",
			provider: ProviderPaddle,
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
				m.pricing.EXPECT().QuoteFor(gomock.Any(), domain.ScopeUser, credits, "TRY").Return(quote, nil)
				m.orderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
						order.ID = uuid.New()
						return order, nil
					})
				m.paddle.EXPECT().CreateTransaction(gomock.Any(), int64(25000), "TRY").
					Return(nil, payments.ErrProviderRejected)
				m.orderRepo.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
			},
			expectedError: payments.ErrProviderRejected,
		},
		{
			name:     "No matching tier",
			provider: ProviderPayTR,
			prepareMock: func(m *mocks) {
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
				m.pricing.EXPECT().QuoteFor(gomock.Any(), domain.ScopeUser, credits, "TRY").
					Return(nil, pricingservice.ErrNoTier)
			},
			expectedError: pricingservice.ErrNoTier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			order, session, err := service.Checkout(context.Background(), userID, tenantID, credits, "TRY", tt.provider, "10.0.0.1")
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, order)
				assert.Nil(t, session)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, order)
				assert.NotNil(t, session)
			}
		})
	}
}

func TestSettleExactlyOnce(t *testing.T) {
	userID := uuid.New()
	order := &domain.Order{
		ID:          uuid.New(),
		UserID:      userID,
		Status:      StatusPending,
		Credits:     decimal.NewFromInt(10),
		Provider:    ProviderPaddle,
		AmountMinor: 25000,
	}
	user := &domain.User{ID: userID, Email: "u@example.com"}

	t.Run("First delivery settles and credits", func(t *testing.T) {
		service, m := NewMock(t)
		m.users.EXPECT().FindByID(gomock.Any(), userID).Return(user, nil)
		inTx(m.txManager)
		m.orderRepo.EXPECT().MarkPaid(gomock.Any(), order.ID, "manual", gomock.Any()).Return(true, nil)
		m.ledger.EXPECT().Credit(gomock.Any(), domain.UserScope(userID), order.Credits, "credit_purchase", &order.ID).
			Return(&domain.LedgerEntry{}, nil)
		m.notifier.EXPECT().EnqueueEmail(gomock.Any(), "u@example.com", gomock.Any(), gomock.Any()).Return(nil)

		noop, err := service.settle(context.Background(), order, "manual")
		assert.NoError(t, err)
		assert.False(t, noop)
	})

	t.Run("Duplicate delivery is a noop without a second credit", func(t *testing.T) {
		service, m := NewMock(t)
		m.users.EXPECT().FindByID(gomock.Any(), userID).Return(user, nil)
		inTx(m.txManager)
		m.orderRepo.EXPECT().MarkPaid(gomock.Any(), order.ID, "manual", gomock.Any()).Return(false, nil)

		noop, err := service.settle(context.Background(), order, "manual")
		assert.NoError(t, err)
		assert.True(t, noop)
	})

	t.Run("Missing order owner fails without touching the order", func(t *testing.T) {
		service, m := NewMock(t)
		m.users.EXPECT().FindByID(gomock.Any(), userID).Return(nil, nil)

		_, err := service.settle(context.Background(), order, "manual")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Credit failure rolls the settlement back", func(t *testing.T) {
		service, m := NewMock(t)
		m.users.EXPECT().FindByID(gomock.Any(), userID).Return(user, nil)
		inTx(m.txManager)
		m.orderRepo.EXPECT().MarkPaid(gomock.Any(), order.ID, "manual", gomock.Any()).Return(true, nil)
		m.ledger.EXPECT().Credit(gomock.Any(), domain.UserScope(userID), order.Credits, "credit_purchase", &order.ID).
			Return(nil, errors.New("db error"))

		_, err := service.settle(context.Background(), order, "manual")
		assert.Error(t, err)
	})
}

func TestHandlePayTRCallback(t *testing.T) {
	userID := uuid.New()
	order := &domain.Order{ID: uuid.New(), UserID: userID, Credits: decimal.NewFromInt(5), ProviderRef: "abc123"}
	user := &domain.User{ID: userID}

	tests := []struct {
		name          string
		status        string
		prepareMock   func(m *mocks)
		expectedNoop  bool
		expectedError error
	}{
		{
			name:   "Successful payment settles the order",
			status: "success",
			prepareMock: func(m *mocks) {
				m.paytr.EXPECT().VerifyCallback("abc123", "success", "25000", "hash").Return(nil)
				m.orderRepo.EXPECT().FindByProviderRef(gomock.Any(), ProviderPayTR, "abc123").Return(order, nil)
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(user, nil)
				inTx(m.txManager)
				m.orderRepo.EXPECT().MarkPaid(gomock.Any(), order.ID, "abc123", gomock.Any()).Return(true, nil)
				m.ledger.EXPECT().Credit(gomock.Any(), domain.UserScope(userID), order.Credits, "credit_purchase", &order.ID).
					Return(&domain.LedgerEntry{}, nil)
			},
		},
		{
			name:   "Failed payment marks the order failed",
			status: "failed",
			prepareMock: func(m *mocks) {
				m.paytr.EXPECT().VerifyCallback("abc123", "failed", "25000", "hash").Return(nil)
				m.orderRepo.EXPECT().FindByProviderRef(gomock.Any(), ProviderPayTR, "abc123").Return(order, nil)
				m.orderRepo.EXPECT().MarkFailed(gomock.Any(), order.ID, "paytr status failed").Return(true, nil)
			},
		},
		{
			name:   "Bad signature is rejected before any lookup",
			status: "success",
			prepareMock: func(m *mocks) {
				m.paytr.EXPECT().VerifyCallback("abc123", "success", "25000", "hash").Return(payments.ErrBadSignature)
			},
			expectedError: payments.ErrBadSignature,
		},
		{
			name:   "Unknown merchant oid",
			status: "success",
			prepareMock: func(m *mocks) {
				m.paytr.EXPECT().VerifyCallback("abc123", "success", "25000", "hash").Return(nil)
				m.orderRepo.EXPECT().FindByProviderRef(gomock.Any(), ProviderPayTR, "abc123").Return(nil, nil)
			},
			expectedError: ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			noop, err := service.HandlePayTRCallback(context.Background(), "abc123", tt.status, "25000", "hash")
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedNoop, noop)
		})
	}
}

func TestHandlePaddleWebhook(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()
	order := &domain.Order{ID: orderID, UserID: userID, Credits: decimal.NewFromInt(5)}
	user := &domain.User{ID: userID}

	completed := []byte(fmt.Sprintf(
		`{"event_type":"transaction.completed","data":{"id":"txn_1","custom_data":{"order_id":"%s"}}}`, orderID))

	tests := []struct {
		name          string
		body          []byte
		prepareMock   func(m *mocks)
		expectedNoop  bool
		expectedError bool
	}{
		{
			name: "Completed transaction settles",
			body: completed,
			prepareMock: func(m *mocks) {
				m.paddle.EXPECT().VerifyWebhook("sig", completed).Return(nil)
				m.orderRepo.EXPECT().FindByID(gomock.Any(), orderID).Return(order, nil)
				m.users.EXPECT().FindByID(gomock.Any(), userID).Return(user, nil)
				inTx(m.txManager)
				m.orderRepo.EXPECT().MarkPaid(gomock.Any(), orderID, "txn_1", gomock.Any()).Return(true, nil)
				m.ledger.EXPECT().Credit(gomock.Any(), domain.UserScope(userID), order.Credits, "credit_purchase", &orderID).
					Return(&domain.LedgerEntry{}, nil)
			},
		},
		{
			name: "Other events are acknowledged without effect",
			body: []byte(`{"event_type":"subscription.updated","data":{}}`),
			prepareMock: func(m *mocks) {
				m.paddle.EXPECT().VerifyWebhook("sig", gomock.Any()).Return(nil)
			},
			expectedNoop: true,
		},
		{
			name: "Bad signature",
			body: completed,
			prepareMock: func(m *mocks) {
				m.paddle.EXPECT().VerifyWebhook("sig", completed).Return(payments.ErrBadSignature)
			},
			expectedError: true,
		},
		{
			name: "Malformed event body",
			body: []byte(`{not json`),
			prepareMock: func(m *mocks) {
				m.paddle.EXPECT().VerifyWebhook("sig", gomock.Any()).Return(nil)
			},
			expectedError: true,
		},
		{
			name: "Completed event without an order id",
			body: []byte(`{"event_type":"transaction.completed","data":{"id":"txn_1","custom_data":{}}}`),
			prepareMock: func(m *mocks) {
				m.paddle.EXPECT().VerifyWebhook("sig", gomock.Any()).Return(nil)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			noop, err := service.HandlePaddleWebhook(context.Background(), "sig", tt.body)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedNoop, noop)
		})
	}
}

func TestMarkPaidManually(t *testing.T) {
	service, m := NewMock(t)
	orderID := uuid.New()

	m.orderRepo.EXPECT().FindByID(gomock.Any(), orderID).Return(nil, nil)
	_, err := service.MarkPaidManually(context.Background(), orderID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
