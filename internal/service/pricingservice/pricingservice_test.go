package pricingservice

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/fx"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockRateProvider) {
	ctrl := gomock.NewController(t)
	tierRepo := NewMockRepo(ctrl)
	rates := NewMockRateProvider(ctrl)
	service := New(tierRepo, rates)
	defer ctrl.Finish()
	return service, tierRepo, rates
}

func mustRange(t *testing.T, s string) domain.NumRange {
	r, err := domain.ParseNumRange(s)
	assert.NoError(t, err)
	return r
}

func userTiers(t *testing.T) []domain.PriceTier {
	return []domain.PriceTier{
		{ID: uuid.New(), ScopeType: domain.ScopeUser, Range: mustRange(t, "[1,50)"), UnitPrice: decimal.NewFromInt(30), Active: true},
		{ID: uuid.New(), ScopeType: domain.ScopeUser, Range: mustRange(t, "[50,200)"), UnitPrice: decimal.NewFromInt(25), Active: true},
		{ID: uuid.New(), ScopeType: domain.ScopeUser, Range: mustRange(t, "[200,)"), UnitPrice: decimal.NewFromInt(20), Active: true},
	}
}

func TestResolveTier(t *testing.T) {
	tests := []struct {
		name          string
		credits       int64
		expectedPrice string
		expectedError error
	}{
		{name: "First tier", credits: 1, expectedPrice: "30"},
		{name: "Boundary falls into the next tier", credits: 50, expectedPrice: "25"},
		{name: "Unbounded tail tier", credits: 100000, expectedPrice: "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, tierRepo, _ := NewMock(t)
			tierRepo.EXPECT().ListActive(gomock.Any(), domain.ScopeUser).Return(userTiers(t), nil)

			tier, err := service.ResolveTier(context.Background(), domain.ScopeUser, decimal.NewFromInt(tt.credits))
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedPrice, tier.UnitPrice.String())
		})
	}

	t.Run("No tier matches", func(t *testing.T) {
		service, tierRepo, _ := NewMock(t)
		tierRepo.EXPECT().ListActive(gomock.Any(), domain.ScopeUser).Return([]domain.PriceTier{
			{ID: uuid.New(), ScopeType: domain.ScopeUser, Range: mustRange(t, "[10,50)"), UnitPrice: decimal.NewFromInt(30), Active: true},
		}, nil)

		_, err := service.ResolveTier(context.Background(), domain.ScopeUser, decimal.NewFromInt(5))
		assert.ErrorIs(t, err, ErrNoTier)
	})

	t.Run("Repository error", func(t *testing.T) {
		service, tierRepo, _ := NewMock(t)
		tierRepo.EXPECT().ListActive(gomock.Any(), domain.ScopeUser).Return(nil, errors.New("db error"))

		_, err := service.ResolveTier(context.Background(), domain.ScopeUser, decimal.NewFromInt(5))
		assert.Error(t, err)
	})
}

func TestQuoteFor(t *testing.T) {
	tests := []struct {
		name          string
		credits       int64
		currency      string
		prepareMock   func(tierRepo *MockRepo, rates *MockRateProvider)
		expectedTotal string
		expectedCurr  string
		expectedError error
	}{
		{
			name:     "Base currency quote",
			credits:  10,
			currency: "",
			prepareMock: func(tierRepo *MockRepo, rates *MockRateProvider) {
				tierRepo.EXPECT().ListActive(gomock.Any(), domain.ScopeUser).Return(userTiers(t), nil)
			},
			expectedTotal: "300",
			expectedCurr:  "TRY",
		},
		{
			name:     "Foreign currency converts through the rate",
			credits:  10,
			currency: "USD",
			prepareMock: func(tierRepo *MockRepo, rates *MockRateProvider) {
				tierRepo.EXPECT().ListActive(gomock.Any(), domain.ScopeUser).Return(userTiers(t), nil)
				rates.EXPECT().Rate("USD").Return(decimal.NewFromInt(40), nil)
			},
			expectedTotal: "7.5",
			expectedCurr:  "USD",
		},
		{
			name:          "Non-positive credits",
			credits:       0,
			currency:      "",
			prepareMock:   func(*MockRepo, *MockRateProvider) {},
			expectedError: ErrInvalidCredits,
		},
		{
			name:     "Rate unavailable",
			credits:  10,
			currency: "USD",
			prepareMock: func(tierRepo *MockRepo, rates *MockRateProvider) {
				tierRepo.EXPECT().ListActive(gomock.Any(), domain.ScopeUser).Return(userTiers(t), nil)
				rates.EXPECT().Rate("USD").Return(decimal.Zero, fx.ErrRateUnavailable)
			},
			expectedError: fx.ErrRateUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, tierRepo, rates := NewMock(t)
			tt.prepareMock(tierRepo, rates)

			quote, err := service.QuoteFor(context.Background(), domain.ScopeUser, decimal.NewFromInt(tt.credits), tt.currency)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedTotal, quote.Total.String())
			assert.Equal(t, tt.expectedCurr, quote.Currency)
		})
	}
}

func TestCreateTier(t *testing.T) {
	service, tierRepo, _ := NewMock(t)

	t.Run("Unknown scope type rejected", func(t *testing.T) {
		_, err := service.CreateTier(context.Background(), &domain.PriceTier{ScopeType: "team"})
		assert.Error(t, err)
	})

	t.Run("Valid tier created", func(t *testing.T) {
		tier := &domain.PriceTier{ScopeType: domain.ScopeOrg, Range: mustRange(t, "[1,)"), UnitPrice: decimal.NewFromInt(22)}
		tierRepo.EXPECT().Create(gomock.Any(), tier).Return(tier, nil)

		created, err := service.CreateTier(context.Background(), tier)
		assert.NoError(t, err)
		assert.Equal(t, tier, created)
	})
}
