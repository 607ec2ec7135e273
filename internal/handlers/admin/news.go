package admin

import (
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

// ListNews godoc
//
//	@Summary	List every news post of the request's tenant
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Success	200	{array}		dto.NewsPostResponseDTO
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/news [get]
func (h *AdminHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	posts, err := h.contentService.ListAll(r.Context(), t.ID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.NewsPostResponseDTO, len(posts))
	for i, p := range posts {
		response[i] = dto.NewsPostResponseDTO{
			Slug:        p.Slug,
			Title:       p.Title,
			Body:        p.Body,
			PublishedAt: p.PublishedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// CreateNews godoc
//
//	@Summary	Create a news post
//	@Tags		Admin
//	@Security	AdminSecret
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.NewsPostRequestDTO	true	"Post payload"
//	@Success	200		{object}	dto.NewsPostResponseDTO
//	@Failure	400		{object}	utils.Response	"Invalid request body"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/news [post]
func (h *AdminHandler) CreateNews(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	var req dto.NewsPostRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	locale := req.Locale
	if locale == "" {
		locale = t.Locale
	}
	post, err := h.contentService.CreatePost(r.Context(), &domain.NewsPost{
		TenantID:  t.ID,
		Locale:    locale,
		Slug:      req.Slug,
		Title:     req.Title,
		Body:      req.Body,
		Published: req.Published,
	})
	if err != nil {
		if errors.Is(err, contentservice.ErrInvalidSlug) || errors.Is(err, contentservice.ErrEmptyPost) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "news.create", "news_post", post.ID.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, dto.NewsPostResponseDTO{
		Slug:        post.Slug,
		Title:       post.Title,
		Body:        post.Body,
		PublishedAt: post.PublishedAt,
	})
}

// UpdateNews godoc
//
//	@Summary	Update a news post
//	@Tags		Admin
//	@Security	AdminSecret
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Post id"
//	@Param		request	body		dto.NewsPostRequestDTO	true	"Post payload"
//	@Success	200		{object}	utils.Response
//	@Failure	400		{object}	utils.Response	"Invalid request body"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/news/{id} [put]
func (h *AdminHandler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Post not found")
		return
	}
	var req dto.NewsPostRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	locale := req.Locale
	if locale == "" {
		locale = t.Locale
	}
	err = h.contentService.UpdatePost(r.Context(), &domain.NewsPost{
		ID:        id,
		TenantID:  t.ID,
		Locale:    locale,
		Slug:      req.Slug,
		Title:     req.Title,
		Body:      req.Body,
		Published: req.Published,
	})
	if err != nil {
		if errors.Is(err, contentservice.ErrInvalidSlug) || errors.Is(err, contentservice.ErrEmptyPost) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "news.update", "news_post", id.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Post updated"})
}

// DeleteNews godoc
//
//	@Summary	Delete a news post
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Param		id	path		string	true	"Post id"
//	@Success	200	{object}	utils.Response
//	@Failure	404	{object}	utils.Response	"Post not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/news/{id} [delete]
func (h *AdminHandler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err := h.contentService.DeletePost(r.Context(), id); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "news.delete", "news_post", id.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Post deleted"})
}

// ListTickets godoc
//
//	@Summary	List contact tickets
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Param		status	query		string	false	"Filter by status"
//	@Success	200		{array}		dto.TicketResponseDTO
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/tickets [get]
func (h *AdminHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	tickets, err := h.contentService.ListTickets(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.TicketResponseDTO, len(tickets))
	for i, t := range tickets {
		response[i] = dto.TicketResponseDTO{
			ID:        t.ID.String(),
			Email:     t.Email,
			Subject:   t.Subject,
			Body:      t.Body,
			Status:    t.Status,
			CreatedAt: t.CreatedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// SetTicketStatus godoc
//
//	@Summary	Change a ticket's status
//	@Tags		Admin
//	@Security	AdminSecret
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Ticket id"
//	@Param		request	body		dto.TicketStatusRequestDTO	true	"New status"
//	@Success	200		{object}	utils.Response
//	@Failure	400		{object}	utils.Response	"Unknown status"
//	@Failure	404		{object}	utils.Response	"Ticket not found"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/tickets/{id} [patch]
func (h *AdminHandler) SetTicketStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Ticket not found")
		return
	}
	var req dto.TicketStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.contentService.SetTicketStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, contentservice.ErrTicketNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Ticket not found")
			return
		}
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.auditService.Record(r.Context(), actor(r), "ticket.status", "contact_ticket", id.String(), req)
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Ticket updated"})
}
