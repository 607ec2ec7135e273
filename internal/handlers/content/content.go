package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/dto"
	"github.com/easycustoms360/backend/internal/service/contentservice"
	"github.com/easycustoms360/backend/internal/tenant"
	"github.com/easycustoms360/backend/pkg/utils"
)

type Service interface {
	ListPublished(ctx context.Context, tenantID uuid.UUID, locale string) ([]domain.NewsPost, error)
	GetBySlug(ctx context.Context, tenantID uuid.UUID, locale, slug string) (*domain.NewsPost, error)
	SubmitTicket(ctx context.Context, t *domain.ContactTicket) (*domain.ContactTicket, error)
	RenderRSS(ctx context.Context, tenant *domain.Tenant) ([]byte, error)
	RenderSitemap(ctx context.Context, tenant *domain.Tenant) ([]byte, error)
}

type ContentHandler struct {
	contentService Service
}

func New(contentService Service) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
	}
}

// GetNews godoc
//
//	@Summary		List published news for the request's tenant
//	@Tags			Content
//	@Produce		json
//	@Success		200	{array}		dto.NewsPostResponseDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/news [get]
func (h *ContentHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	posts, err := h.contentService.ListPublished(r.Context(), t.ID, t.Locale)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.NewsPostResponseDTO, len(posts))
	for i, p := range posts {
		response[i] = dto.NewsPostResponseDTO{
			Slug:        p.Slug,
			Title:       p.Title,
			PublishedAt: p.PublishedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetNewsPost godoc
//
//	@Summary		Get a published news post by slug
//	@Tags			Content
//	@Produce		json
//	@Param			slug	path		string	true	"Post slug"
//	@Success		200		{object}	dto.NewsPostResponseDTO
//	@Failure		404		{object}	utils.Response	"Post not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/news/{slug} [get]
func (h *ContentHandler) GetNewsPost(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	post, err := h.contentService.GetBySlug(r.Context(), t.ID, t.Locale, chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, contentservice.ErrPostNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewsPostResponseDTO{
		Slug:        post.Slug,
		Title:       post.Title,
		Body:        post.Body,
		PublishedAt: post.PublishedAt,
	})
}

// Contact godoc
//
//	@Summary		Submit a contact form ticket
//	@Tags			Content
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.ContactRequestDTO	true	"Contact payload"
//	@Success		200		{object}	dto.ContactResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		429		{object}	utils.Response	"Too many requests"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/contact [post]
func (h *ContentHandler) Contact(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	var req dto.ContactRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	ticket, err := h.contentService.SubmitTicket(r.Context(), &domain.ContactTicket{
		TenantID: t.ID,
		Email:    req.Email,
		Subject:  req.Subject,
		Body:     req.Body,
	})
	if err != nil {
		if errors.Is(err, contentservice.ErrEmptyTicket) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.ContactResponseDTO{TicketID: ticket.ID.String()})
}

// RSS godoc
//
//	@Summary		RSS 2.0 feed of the tenant's published news
//	@Tags			Content
//	@Produce		xml
//	@Success		200	{string}	string	"RSS document"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/rss.xml [get]
func (h *ContentHandler) RSS(w http.ResponseWriter, r *http.Request) {
	h.renderXML(w, r, h.contentService.RenderRSS)
}

// Sitemap godoc
//
//	@Summary		Sitemap of the tenant's public pages
//	@Tags			Content
//	@Produce		xml
//	@Success		200	{string}	string	"Sitemap document"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/sitemap.xml [get]
func (h *ContentHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	h.renderXML(w, r, h.contentService.RenderSitemap)
}

func (h *ContentHandler) renderXML(w http.ResponseWriter, r *http.Request, render func(context.Context, *domain.Tenant) ([]byte, error)) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	body, err := render(r.Context(), t)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
