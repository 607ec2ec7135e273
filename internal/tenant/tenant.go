package tenant

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/pkg/utils"
)

type Repo interface {
	FindByHost(ctx context.Context, host string) (*domain.Tenant, error)
	FindByCode(ctx context.Context, code string) (*domain.Tenant, error)
}

// Resolver maps request hosts to tenants. Lookups are cached per host; the
// default tenant backs hosts that match nothing.
type Resolver struct {
	tenantRepo  Repo
	defaultCode string

	mu    sync.RWMutex
	cache map[string]*domain.Tenant
}

func NewResolver(tenantRepo Repo, defaultCode string) *Resolver {
	return &Resolver{
		tenantRepo:  tenantRepo,
		defaultCode: defaultCode,
		cache:       make(map[string]*domain.Tenant),
	}
}

var ErrTenantNotFound = errors.New("tenant not found")

type contextKey string

const tenantKey contextKey = "tenant"

// FromContext returns the tenant placed by the middleware.
func FromContext(ctx context.Context) (*domain.Tenant, bool) {
	t, ok := ctx.Value(tenantKey).(*domain.Tenant)
	return t, ok
}

// NewContext attaches a tenant to the context.
func NewContext(ctx context.Context, t *domain.Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, t)
}

// Resolve normalizes the host and returns its tenant, falling back to the
// default tenant for unknown hosts.
func (r *Resolver) Resolve(ctx context.Context, host string) (*domain.Tenant, error) {
	host = NormalizeHost(host)

	r.mu.RLock()
	cached, ok := r.cache[host]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	t, err := r.tenantRepo.FindByHost(ctx, host)
	if err != nil {
		return nil, err
	}
	if t == nil {
		// Unknown hosts are not cached: the Host header is client supplied
		// and would grow the map without bound.
		t, err = r.tenantRepo.FindByCode(ctx, r.defaultCode)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, ErrTenantNotFound
		}
		return t, nil
	}

	r.mu.Lock()
	r.cache[host] = t
	r.mu.Unlock()
	return t, nil
}

// Invalidate drops the cached entries; call it after tenant mutations.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.cache = make(map[string]*domain.Tenant)
	r.mu.Unlock()
}

// NormalizeHost lowercases the host and strips the port and a leading "www.".
func NormalizeHost(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSpace(host))
	return strings.TrimPrefix(host, "www.")
}

// Middleware resolves the request host and stores the tenant in the context.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		t, err := r.Resolve(req.Context(), req.Host)
		if err != nil {
			zap.L().Error("failed to resolve tenant",
				zap.String("host", req.Host), zap.Error(err))
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		next.ServeHTTP(w, req.WithContext(NewContext(req.Context(), t)))
	})
}
