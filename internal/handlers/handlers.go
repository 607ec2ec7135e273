package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/easycustoms360/backend/docs"
	adminhandlers "github.com/easycustoms360/backend/internal/handlers/admin"
	authhandlers "github.com/easycustoms360/backend/internal/handlers/auth"
	billinghandlers "github.com/easycustoms360/backend/internal/handlers/billing"
	contenthandlers "github.com/easycustoms360/backend/internal/handlers/content"
	questionhandlers "github.com/easycustoms360/backend/internal/handlers/questions"
	workerhandlers "github.com/easycustoms360/backend/internal/handlers/workers"
	"github.com/easycustoms360/backend/internal/service"
	pkgauth "github.com/easycustoms360/backend/pkg/auth"
	"github.com/easycustoms360/backend/pkg/ratelimit"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type BillingHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetLedger(w http.ResponseWriter, r *http.Request)
	Quote(w http.ResponseWriter, r *http.Request)
	Checkout(w http.ResponseWriter, r *http.Request)
	GetOrders(w http.ResponseWriter, r *http.Request)
	PayTRCallback(w http.ResponseWriter, r *http.Request)
	PaddleWebhook(w http.ResponseWriter, r *http.Request)
}

type QuestionHandler interface {
	AddQuestion(w http.ResponseWriter, r *http.Request)
	GetQuestions(w http.ResponseWriter, r *http.Request)
	GetQuestion(w http.ResponseWriter, r *http.Request)
	UpdateQuestion(w http.ResponseWriter, r *http.Request)
	GetRevisions(w http.ResponseWriter, r *http.Request)
}

type WorkerHandler interface {
	ListWorkers(w http.ResponseWriter, r *http.Request)
	GetMyProfile(w http.ResponseWriter, r *http.Request)
	SaveMyProfile(w http.ResponseWriter, r *http.Request)
	ReplaceMyBlocks(w http.ResponseWriter, r *http.Request)
}

type ContentHandler interface {
	GetNews(w http.ResponseWriter, r *http.Request)
	GetNewsPost(w http.ResponseWriter, r *http.Request)
	Contact(w http.ResponseWriter, r *http.Request)
	RSS(w http.ResponseWriter, r *http.Request)
	Sitemap(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler     AuthHandler
	BillingHandler  BillingHandler
	QuestionHandler QuestionHandler
	WorkerHandler   WorkerHandler
	ContentHandler  ContentHandler
	AdminHandler    *adminhandlers.AdminHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler: authhandlers.New(s.AuthService),
		BillingHandler: billinghandlers.New(s.LedgerService, s.PricingService,
			s.OrderService, s.AuthService),
		QuestionHandler: questionhandlers.New(s.QuestionService),
		WorkerHandler:   workerhandlers.New(s.WorkerService),
		ContentHandler:  contenthandlers.New(s.ContentService),
		AdminHandler: adminhandlers.New(s.OrderService, s.LedgerService, s.PricingService,
			s.SLAService, s.QuestionService, s.RagService, s.ContentService, s.AuditService),
	}
}

type RouteDeps struct {
	JWTService     pkgauth.JWTServiceInterface
	AdminSecret    string
	TenantResolver func(http.Handler) http.Handler
	Limiter        *ratelimit.Limiter
	Storage        http.HandlerFunc
}

func (h *Handlers) InitRoutes(r chi.Router, d RouteDeps) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		d.TenantResolver,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))

	r.Get("/rss.xml", h.ContentHandler.RSS)
	r.Get("/sitemap.xml", h.ContentHandler.Sitemap)
	r.Get("/storage/*", d.Storage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/news", h.ContentHandler.GetNews)
		r.Get("/news/{slug}", h.ContentHandler.GetNewsPost)
		r.Get("/workers", h.WorkerHandler.ListWorkers)
		r.With(d.Limiter.Middleware).Post("/contact", h.ContentHandler.Contact)

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/paytr", h.BillingHandler.PayTRCallback)
			r.Post("/paddle", h.BillingHandler.PaddleWebhook)
		})

		r.Route("/user", func(r chi.Router) {
			r.With(d.Limiter.Middleware).Post("/register", h.AuthHandler.Register)
			r.With(d.Limiter.Middleware).Post("/login", h.AuthHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(pkgauth.AuthMiddleware(d.JWTService))
				r.Get("/balance", h.BillingHandler.GetBalance)
				r.Get("/ledger", h.BillingHandler.GetLedger)
				r.Route("/billing", func(r chi.Router) {
					r.Post("/quote", h.BillingHandler.Quote)
					r.Post("/checkout", h.BillingHandler.Checkout)
				})
				r.Get("/orders", h.BillingHandler.GetOrders)
				r.Route("/questions", func(r chi.Router) {
					r.Post("/", h.QuestionHandler.AddQuestion)
					r.Get("/", h.QuestionHandler.GetQuestions)
					r.Get("/{id}", h.QuestionHandler.GetQuestion)
					r.Patch("/{id}", h.QuestionHandler.UpdateQuestion)
					r.Get("/{id}/revisions", h.QuestionHandler.GetRevisions)
				})
				r.Route("/worker-profile", func(r chi.Router) {
					r.Get("/", h.WorkerHandler.GetMyProfile)
					r.Put("/", h.WorkerHandler.SaveMyProfile)
					r.Put("/blocks", h.WorkerHandler.ReplaceMyBlocks)
				})
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(pkgauth.AdminMiddleware(d.AdminSecret))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.AdminHandler.ListOrders)
				r.Get("/export", h.AdminHandler.ExportOrders)
				r.Post("/{id}/mark-paid", h.AdminHandler.MarkOrderPaid)
			})
			r.Route("/ledger", func(r chi.Router) {
				r.Get("/", h.AdminHandler.ListLedger)
				r.Get("/export", h.AdminHandler.ExportLedger)
				r.Post("/adjust", h.AdminHandler.AdjustLedger)
				r.Delete("/{id}", h.AdminHandler.DeleteLedgerEntry)
			})
			r.Route("/tiers", func(r chi.Router) {
				r.Get("/", h.AdminHandler.ListTiers)
				r.Post("/", h.AdminHandler.CreateTier)
				r.Put("/{id}", h.AdminHandler.UpdateTier)
				r.Delete("/{id}", h.AdminHandler.DeleteTier)
			})
			r.Route("/sla-rules", func(r chi.Router) {
				r.Get("/", h.AdminHandler.ListSLARules)
				r.Post("/", h.AdminHandler.CreateSLARule)
				r.Put("/{id}", h.AdminHandler.UpdateSLARule)
				r.Delete("/{id}", h.AdminHandler.DeleteSLARule)
			})
			r.Route("/answer-profiles", func(r chi.Router) {
				r.Get("/", h.AdminHandler.ListAnswerProfiles)
				r.Post("/", h.AdminHandler.CreateAnswerProfile)
				r.Put("/{id}", h.AdminHandler.UpdateAnswerProfile)
				r.Delete("/{id}", h.AdminHandler.DeleteAnswerProfile)
			})
			r.Route("/news", func(r chi.Router) {
				r.Get("/", h.AdminHandler.ListNews)
				r.Post("/", h.AdminHandler.CreateNews)
				r.Put("/{id}", h.AdminHandler.UpdateNews)
				r.Delete("/{id}", h.AdminHandler.DeleteNews)
			})
			r.Route("/tickets", func(r chi.Router) {
				r.Get("/", h.AdminHandler.ListTickets)
				r.Patch("/{id}", h.AdminHandler.SetTicketStatus)
			})
			r.Route("/rag/documents", func(r chi.Router) {
				r.Get("/", h.AdminHandler.ListDocuments)
				r.Post("/", h.AdminHandler.IngestDocument)
				r.Post("/bulk-delete", h.AdminHandler.BulkDeleteDocuments)
			})
			r.Route("/questions", func(r chi.Router) {
				r.Get("/", h.AdminHandler.ListQuestions)
				r.Post("/{id}/assign", h.AdminHandler.AssignQuestion)
				r.Post("/{id}/answer", h.AdminHandler.AnswerQuestion)
				r.Post("/{id}/close", h.AdminHandler.CloseQuestion)
				r.Post("/{id}/reject", h.AdminHandler.RejectQuestion)
			})
			r.Get("/audit-logs", h.AdminHandler.ListAuditLogs)
		})
	})

	return r
}
