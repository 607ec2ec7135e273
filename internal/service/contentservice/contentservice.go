package contentservice

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/easycustoms360/backend/internal/domain"
)

type NewsRepo interface {
	ListPublished(ctx context.Context, tenantID uuid.UUID, locale string) ([]domain.NewsPost, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.NewsPost, error)
	FindBySlug(ctx context.Context, tenantID uuid.UUID, locale, slug string) (*domain.NewsPost, error)
	Create(ctx context.Context, p *domain.NewsPost) (*domain.NewsPost, error)
	Update(ctx context.Context, p *domain.NewsPost) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TicketRepo interface {
	Create(ctx context.Context, t *domain.ContactTicket) (*domain.ContactTicket, error)
	List(ctx context.Context, status string, limit, offset int) ([]domain.ContactTicket, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error)
}

// Notifier delivers the new-ticket notification to the back office inbox.
type Notifier interface {
	EnqueueEmail(ctx context.Context, to, subject, body string) error
}

type Service struct {
	newsRepo   NewsRepo
	ticketRepo TicketRepo
	notifier   Notifier
	adminEmail string
}

func New(newsRepo NewsRepo, ticketRepo TicketRepo, notifier Notifier, adminEmail string) *Service {
	return &Service{
		newsRepo:   newsRepo,
		ticketRepo: ticketRepo,
		notifier:   notifier,
		adminEmail: adminEmail,
	}
}

var (
	ErrPostNotFound   = errors.New("news post not found")
	ErrInvalidSlug    = errors.New("slug must be lowercase letters, digits and dashes")
	ErrEmptyPost      = errors.New("news post title and body are required")
	ErrEmptyTicket    = errors.New("contact ticket email and body are required")
	ErrTicketNotFound = errors.New("contact ticket not found")
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

const (
	TicketOpen   = "open"
	TicketClosed = "closed"
	TicketSpam   = "spam"
)

func (s *Service) ListPublished(ctx context.Context, tenantID uuid.UUID, locale string) ([]domain.NewsPost, error) {
	return s.newsRepo.ListPublished(ctx, tenantID, locale)
}

func (s *Service) GetBySlug(ctx context.Context, tenantID uuid.UUID, locale, slug string) (*domain.NewsPost, error) {
	p, err := s.newsRepo.FindBySlug(ctx, tenantID, locale, slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	return p, nil
}

func (s *Service) ListAll(ctx context.Context, tenantID uuid.UUID) ([]domain.NewsPost, error) {
	return s.newsRepo.ListByTenant(ctx, tenantID)
}

func (s *Service) CreatePost(ctx context.Context, p *domain.NewsPost) (*domain.NewsPost, error) {
	if err := validatePost(p); err != nil {
		return nil, err
	}
	if p.Published && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	return s.newsRepo.Create(ctx, p)
}

func (s *Service) UpdatePost(ctx context.Context, p *domain.NewsPost) error {
	if err := validatePost(p); err != nil {
		return err
	}
	if p.Published && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	return s.newsRepo.Update(ctx, p)
}

func (s *Service) DeletePost(ctx context.Context, id uuid.UUID) error {
	return s.newsRepo.Delete(ctx, id)
}

func validatePost(p *domain.NewsPost) error {
	if p.Title == "" || p.Body == "" {
		return ErrEmptyPost
	}
	if !slugRe.MatchString(p.Slug) {
		return ErrInvalidSlug
	}
	return nil
}

// SubmitTicket stores the contact form entry and notifies the back office.
// The notification is best effort; the ticket row is the source of truth.
func (s *Service) SubmitTicket(ctx context.Context, t *domain.ContactTicket) (*domain.ContactTicket, error) {
	if t.Email == "" || t.Body == "" {
		return nil, ErrEmptyTicket
	}
	created, err := s.ticketRepo.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	if s.adminEmail != "" {
		if err := s.notifier.EnqueueEmail(ctx, s.adminEmail, "New contact ticket: "+created.Subject, created.Body); err != nil {
			zap.L().Error("failed to enqueue ticket notification",
				zap.String("ticket_id", created.ID.String()), zap.Error(err))
		}
	}
	return created, nil
}

func (s *Service) ListTickets(ctx context.Context, status string, limit, offset int) ([]domain.ContactTicket, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.ticketRepo.List(ctx, status, limit, offset)
}

func (s *Service) SetTicketStatus(ctx context.Context, id uuid.UUID, status string) error {
	if status != TicketOpen && status != TicketClosed && status != TicketSpam {
		return errors.New("unknown ticket status")
	}
	ok, err := s.ticketRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTicketNotFound
	}
	return nil
}
