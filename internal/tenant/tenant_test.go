package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/easycustoms360/backend/internal/domain"
)

func NewMock(t *testing.T) (*Resolver, *MockRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	resolver := NewResolver(repo, "gumruk360")
	defer ctrl.Finish()
	return resolver, repo
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{name: "Plain host", host: "gumruk360.com", expected: "gumruk360.com"},
		{name: "Strips port", host: "gumruk360.com:8080", expected: "gumruk360.com"},
		{name: "Strips www", host: "www.gumruk360.com", expected: "gumruk360.com"},
		{name: "Lowercases", host: "EasyCustoms360.COM", expected: "easycustoms360.com"},
		{name: "All at once", host: "WWW.Gumruk360.com:443", expected: "gumruk360.com"},
		{name: "Empty", host: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeHost(tt.host))
		})
	}
}

func TestResolve(t *testing.T) {
	known := &domain.Tenant{ID: uuid.New(), Code: "gumruk360", Host: "gumruk360.com", Locale: "tr"}
	fallback := &domain.Tenant{ID: uuid.New(), Code: "gumruk360", Host: "gumruk360.com", Locale: "tr"}

	tests := []struct {
		name           string
		host           string
		prepareMock    func(repo *MockRepo)
		expectedTenant *domain.Tenant
		expectedError  error
	}{
		{
			name: "Known host",
			host: "www.gumruk360.com:443",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().FindByHost(gomock.Any(), "gumruk360.com").Return(known, nil)
			},
			expectedTenant: known,
		},
		{
			name: "Unknown host falls back to default tenant",
			host: "unknown.example.com",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().FindByHost(gomock.Any(), "unknown.example.com").Return(nil, nil)
				repo.EXPECT().FindByCode(gomock.Any(), "gumruk360").Return(fallback, nil)
			},
			expectedTenant: fallback,
		},
		{
			name: "No default tenant configured",
			host: "unknown.example.com",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().FindByHost(gomock.Any(), "unknown.example.com").Return(nil, nil)
				repo.EXPECT().FindByCode(gomock.Any(), "gumruk360").Return(nil, nil)
			},
			expectedError: ErrTenantNotFound,
		},
		{
			name: "Repository error",
			host: "gumruk360.com",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().FindByHost(gomock.Any(), "gumruk360.com").Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver, repo := NewMock(t)
			tt.prepareMock(repo)

			tenant, err := resolver.Resolve(context.Background(), tt.host)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedTenant, tenant)
			}
		})
	}
}

func TestResolveCachesLookups(t *testing.T) {
	resolver, repo := NewMock(t)
	tenant := &domain.Tenant{ID: uuid.New(), Code: "gumruk360", Host: "gumruk360.com"}

	repo.EXPECT().FindByHost(gomock.Any(), "gumruk360.com").Return(tenant, nil).Times(1)

	for i := 0; i < 3; i++ {
		got, err := resolver.Resolve(context.Background(), "www.gumruk360.com:443")
		assert.NoError(t, err)
		assert.Equal(t, tenant, got)
	}

	// Invalidate forces the next resolve to hit the repository again.
	resolver.Invalidate()
	repo.EXPECT().FindByHost(gomock.Any(), "gumruk360.com").Return(tenant, nil).Times(1)
	_, err := resolver.Resolve(context.Background(), "gumruk360.com")
	assert.NoError(t, err)
}

func TestResolveDoesNotCacheUnknownHosts(t *testing.T) {
	resolver, repo := NewMock(t)
	fallback := &domain.Tenant{ID: uuid.New(), Code: "gumruk360", Host: "gumruk360.com"}

	// Every request with a made-up Host header must hit the repository
	// instead of landing a new entry in the cache.
	repo.EXPECT().FindByHost(gomock.Any(), "attacker.example.com").Return(nil, nil).Times(2)
	repo.EXPECT().FindByCode(gomock.Any(), "gumruk360").Return(fallback, nil).Times(2)

	for i := 0; i < 2; i++ {
		got, err := resolver.Resolve(context.Background(), "attacker.example.com")
		assert.NoError(t, err)
		assert.Equal(t, fallback, got)
	}

	resolver.mu.RLock()
	defer resolver.mu.RUnlock()
	assert.Empty(t, resolver.cache)
}

func TestFromContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	tenant := &domain.Tenant{ID: uuid.New(), Code: "gumruk360"}
	ctx := NewContext(context.Background(), tenant)
	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, tenant, got)
}
