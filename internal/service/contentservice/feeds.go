package contentservice

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/easycustoms360/backend/internal/domain"
)

// rssFeed mirrors the RSS 2.0 envelope. Rendering is deterministic: items
// follow the repository order (published_at descending) and timestamps use
// RFC 1123.
type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	GUID    string `xml:"guid"`
	PubDate string `xml:"pubDate"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// RenderRSS builds the RSS 2.0 document for a tenant's published posts.
func (s *Service) RenderRSS(ctx context.Context, tenant *domain.Tenant) ([]byte, error) {
	posts, err := s.newsRepo.ListPublished(ctx, tenant.ID, tenant.Locale)
	if err != nil {
		return nil, err
	}

	base := "https://" + tenant.Host
	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       tenant.Name,
			Link:        base,
			Description: tenant.Name + " news",
			Language:    tenant.Locale,
		},
	}
	for _, p := range posts {
		item := rssItem{
			Title: p.Title,
			Link:  fmt.Sprintf("%s/news/%s", base, p.Slug),
			GUID:  p.ID.String(),
		}
		if p.PublishedAt != nil {
			item.PubDate = p.PublishedAt.UTC().Format(time.RFC1123)
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}
	return marshalXML(feed)
}

// RenderSitemap builds the sitemap for a tenant: the static pages plus one
// entry per published post.
func (s *Service) RenderSitemap(ctx context.Context, tenant *domain.Tenant) ([]byte, error) {
	posts, err := s.newsRepo.ListPublished(ctx, tenant.ID, tenant.Locale)
	if err != nil {
		return nil, err
	}

	base := "https://" + tenant.Host
	set := sitemapURLSet{XMLNS: sitemapNS}
	for _, path := range []string{"", "/news", "/workers", "/contact"} {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + path})
	}
	for _, p := range posts {
		u := sitemapURL{Loc: fmt.Sprintf("%s/news/%s", base, p.Slug)}
		if p.PublishedAt != nil {
			u.LastMod = p.PublishedAt.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}
	return marshalXML(set)
}

func marshalXML(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
