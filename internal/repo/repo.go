package repo

import (
	"github.com/easycustoms360/backend/internal/pg"
	auditrepo "github.com/easycustoms360/backend/internal/repo/audit-repo"
	ledgerrepo "github.com/easycustoms360/backend/internal/repo/ledger-repo"
	newsrepo "github.com/easycustoms360/backend/internal/repo/news-repo"
	orderrepo "github.com/easycustoms360/backend/internal/repo/order-repo"
	questionrepo "github.com/easycustoms360/backend/internal/repo/question-repo"
	ragrepo "github.com/easycustoms360/backend/internal/repo/rag-repo"
	slarepo "github.com/easycustoms360/backend/internal/repo/sla-repo"
	tenantrepo "github.com/easycustoms360/backend/internal/repo/tenant-repo"
	ticketrepo "github.com/easycustoms360/backend/internal/repo/ticket-repo"
	tierrepo "github.com/easycustoms360/backend/internal/repo/tier-repo"
	userrepo "github.com/easycustoms360/backend/internal/repo/user-repo"
	workerrepo "github.com/easycustoms360/backend/internal/repo/worker-repo"
)

type Repositories struct {
	UserRepo     *userrepo.Repository
	TenantRepo   *tenantrepo.Repository
	LedgerRepo   *ledgerrepo.Repository
	TierRepo     *tierrepo.Repository
	OrderRepo    *orderrepo.Repository
	QuestionRepo *questionrepo.Repository
	NewsRepo     *newsrepo.Repository
	TicketRepo   *ticketrepo.Repository
	SLARepo      *slarepo.Repository
	RagRepo      *ragrepo.Repository
	WorkerRepo   *workerrepo.Repository
	AuditRepo    *auditrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:     userrepo.New(conn),
		TenantRepo:   tenantrepo.New(conn),
		LedgerRepo:   ledgerrepo.New(conn, txManager),
		TierRepo:     tierrepo.New(conn),
		OrderRepo:    orderrepo.New(conn, txManager),
		QuestionRepo: questionrepo.New(conn, txManager),
		NewsRepo:     newsrepo.New(conn),
		TicketRepo:   ticketrepo.New(conn),
		SLARepo:      slarepo.New(conn),
		RagRepo:      ragrepo.New(conn, txManager),
		WorkerRepo:   workerrepo.New(conn, txManager),
		AuditRepo:    auditrepo.New(conn),
	}
}
