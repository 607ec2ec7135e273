package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/easycustoms360/backend/internal/config"
	"github.com/easycustoms360/backend/internal/embeddings"
	"github.com/easycustoms360/backend/internal/fx"
	"github.com/easycustoms360/backend/internal/handlers"
	"github.com/easycustoms360/backend/internal/jobs"
	"github.com/easycustoms360/backend/internal/mailer"
	"github.com/easycustoms360/backend/internal/payments"
	"github.com/easycustoms360/backend/internal/pg"
	"github.com/easycustoms360/backend/internal/reminder"
	"github.com/easycustoms360/backend/internal/repo"
	"github.com/easycustoms360/backend/internal/service"
	"github.com/easycustoms360/backend/internal/storage"
	"github.com/easycustoms360/backend/internal/tenant"
	"github.com/easycustoms360/backend/pkg/auth"
	"github.com/easycustoms360/backend/pkg/clients"
	"github.com/easycustoms360/backend/pkg/logger"
	"github.com/easycustoms360/backend/pkg/ratelimit"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg     *config.Config
	api     *handlers.Handlers
	srv     *service.Services
	repo    *repo.Repositories
	fx      *fx.Service
	scanner *reminder.Scanner
	queue   *river.Client[pgx.Tx]

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	if err := runQueueMigrations(ctx, pool); err != nil {
		zap.L().Error("queue migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run queue migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)
	conn := pg.New(pool)

	creditCost, err := decimal.NewFromString(cfg.QuestionCreditCost)
	if err != nil {
		return fmt.Errorf("can't parse question credit cost %q: %w", cfg.QuestionCreditCost, err)
	}

	httpClient := clients.NewHTTPClient()
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	fxService := fx.New(httpClient, cfg.FXFeedURL, cfg.FXRefreshInterval)
	jobsClient := jobs.NewClient()
	mailClient := mailer.New(httpClient, cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)
	signer := storage.NewSigner(cfg.StorageSignSecret, cfg.StorageSignTTL)

	a.cfg = cfg
	a.repo = repo.New(conn, txManager)
	a.srv = service.New(a.repo, &service.Deps{
		TXManager:    txManager,
		JWTService:   jwtService,
		Rates:        fxService,
		PayTR:        payments.NewPayTRClient(cfg.PayTRMerchantID, cfg.PayTRKey, cfg.PayTRSalt, cfg.PayTRAPIURL, httpClient),
		Paddle:       payments.NewPaddleClient(cfg.PaddleAPIURL, cfg.PaddleAPIKey, cfg.PaddleWebhookSecret, httpClient),
		Notifier:     jobsClient,
		Enqueuer:     jobsClient,
		Embedder:     embeddings.NewClient(httpClient, cfg.EmbeddingsURL, cfg.EmbeddingsKey, cfg.EmbeddingsModel),
		Signer:       signer,
		AdminEmail:   cfg.AdminEmail,
		SLAMinutes:   cfg.QuestionSLAMinutes,
		CreditCost:   creditCost,
		ChunkTarget:  cfg.ChunkTarget,
		ChunkOverlap: cfg.ChunkOverlap,
	})
	a.api = handlers.New(a.srv)
	a.fx = fxService
	a.scanner = reminder.NewScanner(a.repo.SLARepo, a.repo.QuestionRepo, a.repo.UserRepo,
		a.repo.WorkerRepo, jobsClient, cfg.AdminEmail, cfg.SLAScanInterval)

	if err := a.startQueue(ctx, pool, jobsClient, mailClient); err != nil {
		return fmt.Errorf("can't start job queue: %w", err)
	}

	resolver := tenant.NewResolver(a.repo.TenantRepo, cfg.DefaultTenant)
	limiter := ratelimit.New(cfg.RateLimit, cfg.RateWindow)
	if err = a.startHTTPServer(ctx, handlers.RouteDeps{
		JWTService:     jwtService,
		AdminSecret:    cfg.AdminSecret,
		TenantResolver: resolver.Middleware,
		Limiter:        limiter,
		Storage:        storage.NewHandler(signer, cfg.StorageRoot).Serve,
	}); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.fx.Start(ctx)
	a.scanner.Start(ctx)

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

func runQueueMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return err
	}
	_, err = migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	return err
}

func (a *Application) startQueue(ctx context.Context, pool *pgxpool.Pool, jobsClient *jobs.Client, mailClient *mailer.Mailer) error {
	workers := river.NewWorkers()
	river.AddWorker(workers, jobs.NewEmbedChunkWorker(a.srv.RagService))
	river.AddWorker(workers, jobs.NewSendEmailWorker(mailClient))

	queue, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
		},
		Workers: workers,
	})
	if err != nil {
		return err
	}
	jobsClient.Bind(queue)
	a.queue = queue

	if err := queue.Start(ctx); err != nil {
		return err
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queue.Stop(sCtx); err != nil {
			zap.L().Error("job queue shutdown failed", zap.Error(err))
		}
	}()
	return nil
}

func (a *Application) startHTTPServer(ctx context.Context, deps handlers.RouteDeps) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router, deps)
	server := http.Server{
		Addr:    a.cfg.Address,
		Handler: router,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(sCtx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	return appErr
}
