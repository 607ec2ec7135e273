package workers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/dto"
	"github.com/easycustoms360/backend/internal/service/workerservice"
	"github.com/easycustoms360/backend/pkg/auth"
	"github.com/easycustoms360/backend/pkg/utils"
)

type Service interface {
	SaveProfile(ctx context.Context, p *domain.WorkerProfile) (*domain.WorkerProfile, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*workerservice.ProfileView, error)
	ListActive(ctx context.Context) ([]workerservice.ProfileView, error)
	ReplaceBlocks(ctx context.Context, userID uuid.UUID, blocks []domain.WorkerBlock) ([]domain.WorkerBlock, error)
}

type WorkerHandler struct {
	workerService Service
}

func New(workerService Service) *WorkerHandler {
	return &WorkerHandler{
		workerService: workerService,
	}
}

// ListWorkers godoc
//
//	@Summary		List active consultant profiles
//	@Description	Public directory of consultants with CV blocks and signed photo URLs.
//	@Tags			Workers
//	@Produce		json
//	@Success		200	{array}		dto.WorkerProfileResponseDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/workers [get]
func (h *WorkerHandler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	views, err := h.workerService.ListActive(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.WorkerProfileResponseDTO, len(views))
	for i := range views {
		response[i] = profileDTO(&views[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetMyProfile godoc
//
//	@Summary		Get the caller's consultant profile
//	@Tags			Workers
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.WorkerProfileResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Profile not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/worker-profile [get]
func (h *WorkerHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	view, err := h.workerService.GetByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, workerservice.ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, profileDTO(view))
}

// SaveMyProfile godoc
//
//	@Summary		Create or update the caller's consultant profile
//	@Tags			Workers
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.WorkerProfileRequestDTO	true	"Profile payload"
//	@Success		200		{object}	dto.WorkerProfileResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/worker-profile [put]
func (h *WorkerHandler) SaveMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req dto.WorkerProfileRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	_, err := h.workerService.SaveProfile(r.Context(), &domain.WorkerProfile{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Headline:    req.Headline,
		Bio:         req.Bio,
		PhotoKey:    req.PhotoKey,
		Active:      req.Active,
	})
	if err != nil {
		if errors.Is(err, workerservice.ErrEmptyName) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	view, err := h.workerService.GetByUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, profileDTO(view))
}

// ReplaceMyBlocks godoc
//
//	@Summary		Replace the caller's CV blocks
//	@Description	The full ordered list is swapped atomically.
//	@Tags			Workers
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		[]dto.WorkerBlockDTO	true	"Ordered blocks"
//	@Success		200		{array}		dto.WorkerBlockDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Profile not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/worker-profile/blocks [put]
func (h *WorkerHandler) ReplaceMyBlocks(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req []dto.WorkerBlockDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	blocks := make([]domain.WorkerBlock, len(req))
	for i, b := range req {
		blocks[i] = domain.WorkerBlock{Kind: b.Kind, Content: b.Content}
	}
	saved, err := h.workerService.ReplaceBlocks(r.Context(), userID, blocks)
	if err != nil {
		switch {
		case errors.Is(err, workerservice.ErrProfileNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
		case errors.Is(err, workerservice.ErrUnknownBlock):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	response := make([]dto.WorkerBlockDTO, len(saved))
	for i, b := range saved {
		response[i] = dto.WorkerBlockDTO{Kind: b.Kind, Content: b.Content}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func profileDTO(v *workerservice.ProfileView) dto.WorkerProfileResponseDTO {
	blocks := make([]dto.WorkerBlockDTO, len(v.Blocks))
	for i, b := range v.Blocks {
		blocks[i] = dto.WorkerBlockDTO{Kind: b.Kind, Content: b.Content}
	}
	return dto.WorkerProfileResponseDTO{
		ID:          v.Profile.ID.String(),
		DisplayName: v.Profile.DisplayName,
		Headline:    v.Profile.Headline,
		Bio:         v.Profile.Bio,
		PhotoURL:    v.PhotoURL,
		Active:      v.Profile.Active,
		Blocks:      blocks,
	}
}
