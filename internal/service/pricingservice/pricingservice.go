package pricingservice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/easycustoms360/backend/internal/domain"
)

type Repo interface {
	ListActive(ctx context.Context, scopeType string) ([]domain.PriceTier, error)
	ListAll(ctx context.Context) ([]domain.PriceTier, error)
	Create(ctx context.Context, tier *domain.PriceTier) (*domain.PriceTier, error)
	Update(ctx context.Context, tier *domain.PriceTier) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RateProvider supplies how many units of the base currency one unit of the
// foreign currency costs.
type RateProvider interface {
	Rate(currency string) (decimal.Decimal, error)
}

type Service struct {
	tierRepo Repo
	rates    RateProvider
}

func New(tierRepo Repo, rates RateProvider) *Service {
	return &Service{
		tierRepo: tierRepo,
		rates:    rates,
	}
}

// BaseCurrency is the currency tier unit prices are stored in.
const BaseCurrency = "TRY"

var (
	ErrNoTier         = errors.New("no price tier matches the credit count")
	ErrInvalidCredits = errors.New("credits must be positive")
)

type Quote struct {
	Credits   decimal.Decimal
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	Currency  string
	TierID    uuid.UUID
}

// ResolveTier picks the unique active tier whose half-open range contains the
// credit count. Tiers are expected to partition the axis; when they overlap
// the first match by range order wins.
func (s *Service) ResolveTier(ctx context.Context, scopeType string, credits decimal.Decimal) (*domain.PriceTier, error) {
	tiers, err := s.tierRepo.ListActive(ctx, scopeType)
	if err != nil {
		zap.L().Error("failed to load price tiers", zap.Error(err))
		return nil, err
	}
	for i := range tiers {
		if tiers[i].Range.Contains(credits) {
			return &tiers[i], nil
		}
	}
	return nil, ErrNoTier
}

// QuoteFor prices a credit purchase: unit price of the matching tier times the
// credit count, optionally converted out of the base currency.
func (s *Service) QuoteFor(ctx context.Context, scopeType string, credits decimal.Decimal, currency string) (*Quote, error) {
	if !credits.IsPositive() {
		return nil, ErrInvalidCredits
	}
	tier, err := s.ResolveTier(ctx, scopeType, credits)
	if err != nil {
		return nil, err
	}

	total := tier.UnitPrice.Mul(credits)
	if currency == "" {
		currency = BaseCurrency
	}
	if currency != BaseCurrency {
		rate, err := s.rates.Rate(currency)
		if err != nil {
			return nil, err
		}
		total = total.DivRound(rate, 2)
	}

	return &Quote{
		Credits:   credits,
		UnitPrice: tier.UnitPrice,
		Total:     total,
		Currency:  currency,
		TierID:    tier.ID,
	}, nil
}

func (s *Service) ListTiers(ctx context.Context) ([]domain.PriceTier, error) {
	return s.tierRepo.ListAll(ctx)
}

func (s *Service) CreateTier(ctx context.Context, tier *domain.PriceTier) (*domain.PriceTier, error) {
	if tier.ScopeType != domain.ScopeUser && tier.ScopeType != domain.ScopeOrg {
		return nil, errors.New("unknown scope type")
	}
	return s.tierRepo.Create(ctx, tier)
}

func (s *Service) UpdateTier(ctx context.Context, tier *domain.PriceTier) error {
	return s.tierRepo.Update(ctx, tier)
}

func (s *Service) DeleteTier(ctx context.Context, id uuid.UUID) error {
	return s.tierRepo.Delete(ctx, id)
}
