package contentservice

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/easycustoms360/backend/internal/domain"
)

func feedTenant() *domain.Tenant {
	return &domain.Tenant{
		ID:     uuid.New(),
		Code:   "gumruk360",
		Host:   "gumruk360.com",
		Locale: "tr",
		Name:   "Gümrük360",
	}
}

func TestRenderRSS(t *testing.T) {
	service, newsRepo, _, _ := NewMock(t)
	tenant := feedTenant()

	publishedAt := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	postID := uuid.New()
	newsRepo.EXPECT().ListPublished(gomock.Any(), tenant.ID, "tr").Return([]domain.NewsPost{
		{ID: postID, Slug: "yeni-mevzuat", Title: "Yeni mevzuat", PublishedAt: &publishedAt},
	}, nil)

	out, err := service.RenderRSS(context.Background(), tenant)
	assert.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, body, `<rss version="2.0">`)
	assert.Contains(t, body, "<title>Gümrük360</title>")
	assert.Contains(t, body, "<language>tr</language>")
	assert.Contains(t, body, "<link>https://gumruk360.com/news/yeni-mevzuat</link>")
	assert.Contains(t, body, "<guid>"+postID.String()+"</guid>")
	assert.Contains(t, body, "<pubDate>Thu, 20 Aug 2026 09:30:00 UTC</pubDate>")
}

func TestRenderRSSDeterministic(t *testing.T) {
	service, newsRepo, _, _ := NewMock(t)
	tenant := feedTenant()

	publishedAt := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	posts := []domain.NewsPost{
		{ID: uuid.New(), Slug: "a", Title: "A", PublishedAt: &publishedAt},
		{ID: uuid.New(), Slug: "b", Title: "B", PublishedAt: &publishedAt},
	}
	newsRepo.EXPECT().ListPublished(gomock.Any(), tenant.ID, "tr").Return(posts, nil).Times(2)

	first, err := service.RenderRSS(context.Background(), tenant)
	assert.NoError(t, err)
	second, err := service.RenderRSS(context.Background(), tenant)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderSitemap(t *testing.T) {
	service, newsRepo, _, _ := NewMock(t)
	tenant := feedTenant()

	publishedAt := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	newsRepo.EXPECT().ListPublished(gomock.Any(), tenant.ID, "tr").Return([]domain.NewsPost{
		{ID: uuid.New(), Slug: "yeni-mevzuat", Title: "Yeni mevzuat", PublishedAt: &publishedAt},
		{ID: uuid.New(), Slug: "taslak-duyuru", Title: "Duyuru"},
	}, nil)

	out, err := service.RenderSitemap(context.Background(), tenant)
	assert.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, body, "<loc>https://gumruk360.com</loc>")
	assert.Contains(t, body, "<loc>https://gumruk360.com/news</loc>")
	assert.Contains(t, body, "<loc>https://gumruk360.com/workers</loc>")
	assert.Contains(t, body, "<loc>https://gumruk360.com/contact</loc>")
	assert.Contains(t, body, "<loc>https://gumruk360.com/news/yeni-mevzuat</loc>")
	assert.Contains(t, body, "<lastmod>2026-08-20</lastmod>")
	// A post without a publication time renders without lastmod.
	assert.Contains(t, body, "<loc>https://gumruk360.com/news/taslak-duyuru</loc>")
}
