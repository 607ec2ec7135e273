package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/payments"
	"github.com/easycustoms360/backend/internal/service/orderservice"
	"github.com/easycustoms360/backend/internal/service/pricingservice"
	"github.com/easycustoms360/backend/internal/tenant"
	"github.com/easycustoms360/backend/pkg/auth"
	"github.com/easycustoms360/backend/pkg/utils"
)

type mocks struct {
	ledgerService  *MockLedgerService
	pricingService *MockPricingService
	orderService   *MockOrderService
	userService    *MockUserService
}

func NewMock(t *testing.T) (*BillingHandler, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		ledgerService:  NewMockLedgerService(ctrl),
		pricingService: NewMockPricingService(ctrl),
		orderService:   NewMockOrderService(ctrl),
		userService:    NewMockUserService(ctrl),
	}
	handler := New(m.ledgerService, m.pricingService, m.orderService, m.userService)
	defer ctrl.Finish()
	return handler, m
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestGetBalanceHandler(t *testing.T) {
	userID := uuid.New()
	orgID := uuid.New()

	tests := []struct {
		name          string
		authorized    bool
		prepareMock   func(m *mocks)
		expectedCode  int
		expectedError string
	}{
		{
			name:       "Personal balance",
			authorized: true,
			prepareMock: func(m *mocks) {
				m.userService.EXPECT().GetUser(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
				m.ledgerService.EXPECT().GetBalance(gomock.Any(), domain.UserScope(userID)).
					Return(decimal.RequireFromString("12.5"), nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:       "Organization member reads the shared balance",
			authorized: true,
			prepareMock: func(m *mocks) {
				m.userService.EXPECT().GetUser(gomock.Any(), userID).Return(&domain.User{ID: userID, OrgID: &orgID}, nil)
				m.ledgerService.EXPECT().GetBalance(gomock.Any(), domain.OrgScope(orgID)).
					Return(decimal.NewFromInt(100), nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "No user in context",
			authorized:    false,
			prepareMock:   func(*mocks) {},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "Unauthorized",
		},
		{
			name:       "Ledger error",
			authorized: true,
			prepareMock: func(m *mocks) {
				m.userService.EXPECT().GetUser(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
				m.ledgerService.EXPECT().GetBalance(gomock.Any(), domain.UserScope(userID)).
					Return(decimal.Zero, errors.New("db error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, m := NewMock(t)
			tt.prepareMock(m)

			req := httptest.NewRequest("GET", "/api/user/balance", nil)
			if tt.authorized {
				req = authedRequest("GET", "/api/user/balance", "", userID)
			}
			rr := httptest.NewRecorder()

			handler.GetBalance(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}

func TestGetLedgerHandler(t *testing.T) {
	handler, m := NewMock(t)
	userID := uuid.New()

	t.Run("Pagination defaults applied", func(t *testing.T) {
		m.userService.EXPECT().GetUser(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
		m.ledgerService.EXPECT().ListEntries(gomock.Any(), domain.UserScope(userID), 50, 0).
			Return([]domain.LedgerEntry{
				{ID: uuid.New(), Change: decimal.NewFromInt(-1), Reason: "question_debit"},
			}, nil)

		req := authedRequest("GET", "/api/user/ledger?limit=0&offset=-5", "", userID)
		rr := httptest.NewRecorder()

		handler.GetLedger(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var entries []map[string]any
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&entries))
		assert.Len(t, entries, 1)
		assert.Equal(t, "question_debit", entries[0]["reason"])
	})

	t.Run("Oversized limit clamped", func(t *testing.T) {
		m.userService.EXPECT().GetUser(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
		m.ledgerService.EXPECT().ListEntries(gomock.Any(), domain.UserScope(userID), 50, 10).Return(nil, nil)

		req := authedRequest("GET", "/api/user/ledger?limit=1000&offset=10", "", userID)
		rr := httptest.NewRecorder()

		handler.GetLedger(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestQuoteHandler(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name          string
		body          string
		prepareMock   func(m *mocks)
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful quote",
			body: `{"credits":"10","currency":"TRY"}`,
			prepareMock: func(m *mocks) {
				m.userService.EXPECT().GetUser(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
				m.pricingService.EXPECT().QuoteFor(gomock.Any(), domain.ScopeUser, decimal.NewFromInt(10), "TRY").
					Return(&pricingservice.Quote{
						Credits:   decimal.NewFromInt(10),
						UnitPrice: decimal.NewFromInt(250),
						Total:     decimal.NewFromInt(2500),
						Currency:  "TRY",
					}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "No matching tier",
			body: `{"credits":"100000","currency":"TRY"}`,
			prepareMock: func(m *mocks) {
				m.userService.EXPECT().GetUser(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
				m.pricingService.EXPECT().QuoteFor(gomock.Any(), domain.ScopeUser, decimal.NewFromInt(100000), "TRY").
					Return(nil, pricingservice.ErrNoTier)
			},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: pricingservice.ErrNoTier.Error(),
		},
		{
			name: "Invalid request body",
			body: `{invalid json`,
			prepareMock: func(m *mocks) {
				m.userService.EXPECT().GetUser(gomock.Any(), userID).Return(&domain.User{ID: userID}, nil)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, m := NewMock(t)
			tt.prepareMock(m)

			req := authedRequest("POST", "/api/user/billing/quote", tt.body, userID)
			rr := httptest.NewRecorder()

			handler.Quote(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}

func TestCheckoutHandler(t *testing.T) {
	userID := uuid.New()
	testTenant := &domain.Tenant{ID: uuid.New(), Code: "gumruk360", Host: "gumruk360.com"}
	orderID := uuid.New()

	tests := []struct {
		name          string
		body          string
		prepareMock   func(m *mocks)
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful checkout",
			body: `{"credits":"10","currency":"TRY","provider":"paytr"}`,
			prepareMock: func(m *mocks) {
				m.orderService.EXPECT().
					Checkout(gomock.Any(), userID, testTenant.ID, decimal.NewFromInt(10), "TRY", "paytr", gomock.Any()).
					Return(
						&domain.Order{ID: orderID, Provider: "paytr", Status: orderservice.StatusPending},
						&payments.CheckoutSession{RedirectURL: "https://www.paytr.com/odeme/guvenli/token123"},
						nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Unknown provider",
			body: `{"credits":"10","currency":"TRY","provider":"stripe"}`,
			prepareMock: func(m *mocks) {
				m.orderService.EXPECT().
					Checkout(gomock.Any(), userID, testTenant.ID, decimal.NewFromInt(10), "TRY", "stripe", gomock.Any()).
					Return(nil, nil, orderservice.ErrUnknownProvider)
			},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: orderservice.ErrUnknownProvider.Error(),
		},
		{
			name: "Provider rejected the session",
			body: `{"credits":"10","currency":"TRY","provider":"paytr"}`,
			prepareMock: func(m *mocks) {
				m.orderService.EXPECT().
					Checkout(gomock.Any(), userID, testTenant.ID, decimal.NewFromInt(10), "TRY", "paytr", gomock.Any()).
					Return(nil, nil, payments.ErrProviderRejected)
			},
			expectedCode:  http.StatusBadGateway,
			expectedError: "Payment provider error",
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func(*mocks) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, m := NewMock(t)
			tt.prepareMock(m)

			req := authedRequest("POST", "/api/user/billing/checkout", tt.body, userID)
			req = req.WithContext(tenant.NewContext(req.Context(), testTenant))
			rr := httptest.NewRecorder()

			handler.Checkout(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedError, resp.Message)
			} else {
				var resp map[string]any
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, orderID.String(), resp["order_id"])
				assert.Equal(t, "https://www.paytr.com/odeme/guvenli/token123", resp["redirect_url"])
			}
		})
	}
}

func TestPayTRCallbackHandler(t *testing.T) {
	t.Run("Successful notification answers OK", func(t *testing.T) {
		handler, m := NewMock(t)
		m.orderService.EXPECT().
			HandlePayTRCallback(gomock.Any(), "ORDER1", "success", "25000", "aGFzaA==").
			Return(false, nil)

		form := "merchant_oid=ORDER1&status=success&total_amount=25000&hash=aGFzaA%3D%3D"
		req := httptest.NewRequest("POST", "/api/webhooks/paytr", bytes.NewReader([]byte(form)))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()

		handler.PayTRCallback(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		// PayTR retries delivery unless the body is exactly OK.
		assert.Equal(t, "OK", rr.Body.String())
	})

	t.Run("Bad signature", func(t *testing.T) {
		handler, m := NewMock(t)
		m.orderService.EXPECT().
			HandlePayTRCallback(gomock.Any(), "ORDER1", "success", "25000", "bogus").
			Return(false, payments.ErrBadSignature)

		form := "merchant_oid=ORDER1&status=success&total_amount=25000&hash=bogus"
		req := httptest.NewRequest("POST", "/api/webhooks/paytr", bytes.NewReader([]byte(form)))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()

		handler.PayTRCallback(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.NotEqual(t, "OK", rr.Body.String())
	})
}

func TestPaddleWebhookHandler(t *testing.T) {
	t.Run("Completed transaction acknowledged", func(t *testing.T) {
		handler, m := NewMock(t)
		body := `{"event_type":"transaction.completed"}`
		m.orderService.EXPECT().
			HandlePaddleWebhook(gomock.Any(), "ts=1;h1=abc", []byte(body)).
			Return(false, nil)

		req := httptest.NewRequest("POST", "/api/webhooks/paddle", bytes.NewReader([]byte(body)))
		req.Header.Set("Paddle-Signature", "ts=1;h1=abc")
		rr := httptest.NewRecorder()

		handler.PaddleWebhook(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]any
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, false, resp["noop"])
	})

	t.Run("Bad signature", func(t *testing.T) {
		handler, m := NewMock(t)
		m.orderService.EXPECT().
			HandlePaddleWebhook(gomock.Any(), "garbage", gomock.Any()).
			Return(false, payments.ErrBadSignature)

		req := httptest.NewRequest("POST", "/api/webhooks/paddle", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Paddle-Signature", "garbage")
		rr := httptest.NewRecorder()

		handler.PaddleWebhook(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetOrdersHandler(t *testing.T) {
	handler, m := NewMock(t)
	userID := uuid.New()

	m.orderService.EXPECT().ListByUser(gomock.Any(), userID).Return([]domain.Order{
		{ID: uuid.New(), AmountMinor: 250000, Currency: "TRY", Credits: decimal.NewFromInt(10), Status: orderservice.StatusPaid, Provider: "paytr"},
	}, nil)

	req := authedRequest("GET", "/api/user/orders", "", userID)
	rr := httptest.NewRecorder()

	handler.GetOrders(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var orders []map[string]any
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&orders))
	assert.Len(t, orders, 1)
	assert.Equal(t, "paid", orders[0]["status"])
}
