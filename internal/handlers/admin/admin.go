package admin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/easycustoms360/backend/internal/domain"
)

type OrderService interface {
	ListByStatus(ctx context.Context, status string, limit int) ([]domain.Order, error)
	MarkPaidManually(ctx context.Context, orderID uuid.UUID) (bool, error)
	MarkFailed(ctx context.Context, orderID uuid.UUID, reason string) (bool, error)
}

type LedgerService interface {
	ListAllEntries(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, error)
	Adjust(ctx context.Context, scope domain.Scope, change decimal.Decimal, note string) (*domain.LedgerEntry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
}

type PricingService interface {
	ListTiers(ctx context.Context) ([]domain.PriceTier, error)
	CreateTier(ctx context.Context, tier *domain.PriceTier) (*domain.PriceTier, error)
	UpdateTier(ctx context.Context, tier *domain.PriceTier) error
	DeleteTier(ctx context.Context, id uuid.UUID) error
}

type SLAService interface {
	ListRules(ctx context.Context) ([]domain.SLARule, error)
	CreateRule(ctx context.Context, rule *domain.SLARule) (*domain.SLARule, error)
	UpdateRule(ctx context.Context, rule *domain.SLARule) error
	DeleteRule(ctx context.Context, id uuid.UUID) error
}

type QuestionService interface {
	ListByStatus(ctx context.Context, status string, limit int) ([]domain.Question, error)
	Assign(ctx context.Context, questionID, workerID uuid.UUID) (*domain.Question, error)
	Answer(ctx context.Context, questionID uuid.UUID, draft string) (*domain.Question, error)
	Close(ctx context.Context, questionID uuid.UUID) (*domain.Question, error)
	Reject(ctx context.Context, questionID uuid.UUID) (*domain.Question, error)
}

type RagService interface {
	Ingest(ctx context.Context, tenantID uuid.UUID, title, source, text string) (*domain.RagDocument, error)
	ListDocuments(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]domain.RagDocument, error)
	DeleteDocuments(ctx context.Context, ids []uuid.UUID) (int64, error)
	ListProfiles(ctx context.Context) ([]domain.AnswerProfile, error)
	CreateProfile(ctx context.Context, p *domain.AnswerProfile) (*domain.AnswerProfile, error)
	UpdateProfile(ctx context.Context, p *domain.AnswerProfile) error
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}

type ContentService interface {
	ListAll(ctx context.Context, tenantID uuid.UUID) ([]domain.NewsPost, error)
	CreatePost(ctx context.Context, p *domain.NewsPost) (*domain.NewsPost, error)
	UpdatePost(ctx context.Context, p *domain.NewsPost) error
	DeletePost(ctx context.Context, id uuid.UUID) error
	ListTickets(ctx context.Context, status string, limit, offset int) ([]domain.ContactTicket, error)
	SetTicketStatus(ctx context.Context, id uuid.UUID, status string) error
}

type AuditService interface {
	Record(ctx context.Context, actor, action, objectType, objectID string, detail any)
	List(ctx context.Context, limit, offset int) ([]domain.AuditLog, error)
}

type AdminHandler struct {
	orderService    OrderService
	ledgerService   LedgerService
	pricingService  PricingService
	slaService      SLAService
	questionService QuestionService
	ragService      RagService
	contentService  ContentService
	auditService    AuditService
}

func New(
	orderService OrderService,
	ledgerService LedgerService,
	pricingService PricingService,
	slaService SLAService,
	questionService QuestionService,
	ragService RagService,
	contentService ContentService,
	auditService AuditService,
) *AdminHandler {
	return &AdminHandler{
		orderService:    orderService,
		ledgerService:   ledgerService,
		pricingService:  pricingService,
		slaService:      slaService,
		questionService: questionService,
		ragService:      ragService,
		contentService:  contentService,
		auditService:    auditService,
	}
}

const actorHeader = "X-Admin-Actor"

func actor(r *http.Request) string {
	if a := r.Header.Get(actorHeader); a != "" {
		return a
	}
	return "admin"
}

func pagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
