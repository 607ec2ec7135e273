package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/easycustoms360/backend/internal/pg"
	"github.com/easycustoms360/backend/internal/repo"
	"github.com/easycustoms360/backend/internal/service/auditservice"
	"github.com/easycustoms360/backend/internal/service/authservice"
	"github.com/easycustoms360/backend/internal/service/contentservice"
	"github.com/easycustoms360/backend/internal/service/ledgerservice"
	"github.com/easycustoms360/backend/internal/service/orderservice"
	"github.com/easycustoms360/backend/internal/service/pricingservice"
	"github.com/easycustoms360/backend/internal/service/questionservice"
	"github.com/easycustoms360/backend/internal/service/ragservice"
	"github.com/easycustoms360/backend/internal/service/slaservice"
	"github.com/easycustoms360/backend/internal/service/workerservice"
	pkgauth "github.com/easycustoms360/backend/pkg/auth"
)

// Notifier enqueues outbound email through the job queue.
type Notifier interface {
	EnqueueEmail(ctx context.Context, to, subject, body string) error
}

// Enqueuer schedules asynchronous chunk embedding.
type Enqueuer interface {
	EnqueueEmbedChunk(ctx context.Context, chunkID, documentID uuid.UUID) error
}

// Deps carries everything the services need beyond the repositories.
type Deps struct {
	TXManager  pg.TXManager
	JWTService pkgauth.JWTServiceInterface
	Rates      pricingservice.RateProvider
	PayTR      orderservice.PayTRGateway
	Paddle     orderservice.PaddleGateway
	Notifier   Notifier
	Enqueuer   Enqueuer
	Embedder   ragservice.Embedder
	Signer     workerservice.URLSigner

	AdminEmail   string
	SLAMinutes   int
	CreditCost   decimal.Decimal
	ChunkTarget  int
	ChunkOverlap int
}

type Services struct {
	AuthService     *authservice.Service
	LedgerService   *ledgerservice.Service
	PricingService  *pricingservice.Service
	OrderService    *orderservice.Service
	QuestionService *questionservice.Service
	SLAService      *slaservice.Service
	RagService      *ragservice.Service
	WorkerService   *workerservice.Service
	ContentService  *contentservice.Service
	AuditService    *auditservice.Service
}

func New(repos *repo.Repositories, d *Deps) *Services {
	authService := authservice.New(repos.UserRepo, &pkgauth.HashService{}, d.JWTService)
	ledgerService := ledgerservice.New(repos.LedgerRepo, d.TXManager)
	pricingService := pricingservice.New(repos.TierRepo, d.Rates)
	orderService := orderservice.New(repos.OrderRepo, ledgerService, repos.UserRepo, pricingService,
		d.Notifier, d.PayTR, d.Paddle, d.TXManager)
	questionService := questionservice.New(repos.QuestionRepo, ledgerService, repos.UserRepo,
		d.TXManager, d.CreditCost, d.SLAMinutes)
	slaService := slaservice.New(repos.SLARepo)
	ragService := ragservice.New(repos.RagRepo, d.Embedder, d.Enqueuer, d.TXManager,
		d.ChunkTarget, d.ChunkOverlap)
	workerService := workerservice.New(repos.WorkerRepo, d.Signer)
	contentService := contentservice.New(repos.NewsRepo, repos.TicketRepo, d.Notifier, d.AdminEmail)
	auditService := auditservice.New(repos.AuditRepo)

	return &Services{
		AuthService:     authService,
		LedgerService:   ledgerService,
		PricingService:  pricingService,
		OrderService:    orderService,
		QuestionService: questionService,
		SLAService:      slaService,
		RagService:      ragService,
		WorkerService:   workerService,
		ContentService:  contentService,
		AuditService:    auditService,
	}
}
