package orderservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/payments"
	"github.com/easycustoms360/backend/internal/pg"
	"github.com/easycustoms360/backend/internal/service/pricingservice"
)

type Repo interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindByProviderRef(ctx context.Context, provider, ref string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	ListByStatus(ctx context.Context, status string, limit int) ([]domain.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID, providerRef string, paidAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error)
}

type Ledger interface {
	Credit(ctx context.Context, scope domain.Scope, amount decimal.Decimal, reason string, orderID *uuid.UUID) (*domain.LedgerEntry, error)
}

type Users interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type Pricing interface {
	QuoteFor(ctx context.Context, scopeType string, credits decimal.Decimal, currency string) (*pricingservice.Quote, error)
}

// Notifier enqueues an outbound email; delivery happens asynchronously.
type Notifier interface {
	EnqueueEmail(ctx context.Context, to, subject, body string) error
}

type PayTRGateway interface {
	CreateToken(merchantOID, email, userIP string, amountMinor int64, currency string) (*payments.CheckoutSession, error)
	VerifyCallback(merchantOID, status, totalAmount, hash string) error
}

type PaddleGateway interface {
	CreateTransaction(orderID string, amountMinor int64, currency string) (*payments.CheckoutSession, error)
	VerifyWebhook(signatureHeader string, rawBody []byte) error
}

type Service struct {
	orderRepo Repo
	ledger    Ledger
	users     Users
	pricing   Pricing
	notifier  Notifier
	paytr     PayTRGateway
	paddle    PaddleGateway
	txManager pg.TXManager
}

func New(orderRepo Repo, ledger Ledger, users Users, pricing Pricing, notifier Notifier,
	paytr PayTRGateway, paddle PaddleGateway, txManager pg.TXManager) *Service {
	return &Service{
		orderRepo: orderRepo,
		ledger:    ledger,
		users:     users,
		pricing:   pricing,
		notifier:  notifier,
		paytr:     paytr,
		paddle:    paddle,
		txManager: txManager,
	}
}

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusFailed  = "failed"

	ProviderPayTR  = "paytr"
	ProviderPaddle = "paddle"
	ProviderManual = "manual"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrUnknownProvider = errors.New("unknown payment provider")
)

// scopeFor routes purchased credits to the user's organization when they
// belong to one, otherwise to the user themselves.
func scopeFor(user *domain.User) domain.Scope {
	if user.OrgID != nil {
		return domain.OrgScope(*user.OrgID)
	}
	return domain.UserScope(user.ID)
}

// Checkout quotes the credit purchase, opens a pending order and creates a
// provider payment session.
func (s *Service) Checkout(ctx context.Context, userID, tenantID uuid.UUID, credits decimal.Decimal, currency, provider, userIP string) (*domain.Order, *payments.CheckoutSession, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}
	scope := scopeFor(user)

	quote, err := s.pricing.QuoteFor(ctx, scope.Type, credits, currency)
	if err != nil {
		return nil, nil, err
	}
	amountMinor := quote.Total.Mul(decimal.NewFromInt(100)).IntPart()

	order := &domain.Order{
		UserID:      userID,
		TenantID:    tenantID,
		AmountMinor: amountMinor,
		Currency:    quote.Currency,
		Status:      StatusPending,
		Provider:    provider,
		Credits:     credits,
	}

	switch provider {
	case ProviderPayTR:
		// PayTR's merchant_oid alphabet excludes dashes.
		order.ProviderRef = strings.ReplaceAll(uuid.New().String(), "-", "")
	case ProviderPaddle, ProviderManual:
	default:
		return nil, nil, ErrUnknownProvider
	}

	order, err = s.orderRepo.Create(ctx, order)
	if err != nil {
		return nil, nil, err
	}

	var session *payments.CheckoutSession
	switch provider {
	case ProviderPayTR:
		session, err = s.paytr.CreateToken(order.ProviderRef, user.Email, userIP, amountMinor, quote.Currency)
	case ProviderPaddle:
		session, err = s.paddle.CreateTransaction(order.ID.String(), amountMinor, quote.Currency)
	case ProviderManual:
		session = &payments.CheckoutSession{Provider: ProviderManual}
	}
	if err != nil {
		if _, markErr := s.orderRepo.MarkFailed(ctx, order.ID, err.Error()); markErr != nil {
			zap.L().Error("failed to mark order failed after provider error", zap.Error(markErr))
		}
		return nil, nil, err
	}

	zap.L().Info("checkout started",
		zap.String("order_id", order.ID.String()),
		zap.String("provider", provider),
		zap.Int64("amount_minor", amountMinor))
	return order, session, nil
}

// HandlePayTRCallback processes the form-encoded payment result. It reports
// noop=true when the order was already settled.
func (s *Service) HandlePayTRCallback(ctx context.Context, merchantOID, status, totalAmount, hash string) (bool, error) {
	if err := s.paytr.VerifyCallback(merchantOID, status, totalAmount, hash); err != nil {
		return false, err
	}

	order, err := s.orderRepo.FindByProviderRef(ctx, ProviderPayTR, merchantOID)
	if err != nil {
		return false, err
	}
	if order == nil {
		return false, ErrOrderNotFound
	}

	if status != "success" {
		_, err := s.orderRepo.MarkFailed(ctx, order.ID, "paytr status "+status)
		return false, err
	}
	return s.settle(ctx, order, merchantOID)
}

type paddleEvent struct {
	EventType string `json:"event_type"`
	Data      struct {
		ID         string `json:"id"`
		CustomData struct {
			OrderID string `json:"order_id"`
		} `json:"custom_data"`
	} `json:"data"`
}

// HandlePaddleWebhook verifies and applies a Paddle event. Events other than
// transaction.completed are acknowledged without effect.
func (s *Service) HandlePaddleWebhook(ctx context.Context, signatureHeader string, rawBody []byte) (bool, error) {
	if err := s.paddle.VerifyWebhook(signatureHeader, rawBody); err != nil {
		return false, err
	}

	var event paddleEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return false, fmt.Errorf("malformed paddle event: %w", err)
	}
	if event.EventType != "transaction.completed" {
		return true, nil
	}

	orderID, err := uuid.Parse(event.Data.CustomData.OrderID)
	if err != nil {
		return false, fmt.Errorf("paddle event without order id: %w", err)
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return false, err
	}
	if order == nil {
		return false, ErrOrderNotFound
	}
	return s.settle(ctx, order, event.Data.ID)
}

// MarkPaidManually is the admin mock endpoint driving the same settle path.
func (s *Service) MarkPaidManually(ctx context.Context, orderID uuid.UUID) (bool, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return false, err
	}
	if order == nil {
		return false, ErrOrderNotFound
	}
	return s.settle(ctx, order, "manual")
}

// settle transitions pending -> paid exactly once and credits the ledger in
// the same transaction. A repeated delivery reports noop=true.
func (s *Service) settle(ctx context.Context, order *domain.Order, providerRef string) (bool, error) {
	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}

	var transitioned bool
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		transitioned, err = s.orderRepo.MarkPaid(ctx, order.ID, providerRef, time.Now())
		if err != nil {
			return err
		}
		if !transitioned {
			return nil
		}
		_, err = s.ledger.Credit(ctx, scopeFor(user), order.Credits, "credit_purchase", &order.ID)
		return err
	})
	if err != nil {
		zap.L().Error("failed to settle order", zap.String("order_id", order.ID.String()), zap.Error(err))
		return false, err
	}
	if !transitioned {
		zap.L().Info("duplicate payment notification ignored", zap.String("order_id", order.ID.String()))
		return true, nil
	}

	if user.Email != "" {
		subject := "Your credit purchase is complete"
		body := fmt.Sprintf("Order %s: %s credits were added to your balance.", order.ID, order.Credits)
		if err := s.notifier.EnqueueEmail(ctx, user.Email, subject, body); err != nil {
			zap.L().Error("failed to enqueue receipt email", zap.Error(err))
		}
	}

	zap.L().Info("order settled", zap.String("order_id", order.ID.String()))
	return false, nil
}

func (s *Service) MarkFailed(ctx context.Context, orderID uuid.UUID, reason string) (bool, error) {
	return s.orderRepo.MarkFailed(ctx, orderID, reason)
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *Service) ListByStatus(ctx context.Context, status string, limit int) ([]domain.Order, error) {
	return s.orderRepo.ListByStatus(ctx, status, limit)
}
