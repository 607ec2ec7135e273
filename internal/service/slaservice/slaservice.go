package slaservice

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/easycustoms360/backend/internal/domain"
)

type Repo interface {
	ListActive(ctx context.Context) ([]domain.SLARule, error)
	ListAll(ctx context.Context) ([]domain.SLARule, error)
	Create(ctx context.Context, rule *domain.SLARule) (*domain.SLARule, error)
	Update(ctx context.Context, rule *domain.SLARule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	slaRepo Repo
}

func New(slaRepo Repo) *Service {
	return &Service{slaRepo: slaRepo}
}

var ErrInvalidRule = errors.New("minutes_before_sla must be positive")

func (s *Service) ListRules(ctx context.Context) ([]domain.SLARule, error) {
	return s.slaRepo.ListAll(ctx)
}

func (s *Service) CreateRule(ctx context.Context, rule *domain.SLARule) (*domain.SLARule, error) {
	if rule.MinutesBeforeSLA <= 0 {
		return nil, ErrInvalidRule
	}
	return s.slaRepo.Create(ctx, rule)
}

func (s *Service) UpdateRule(ctx context.Context, rule *domain.SLARule) error {
	if rule.MinutesBeforeSLA <= 0 {
		return ErrInvalidRule
	}
	return s.slaRepo.Update(ctx, rule)
}

func (s *Service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	return s.slaRepo.Delete(ctx, id)
}
