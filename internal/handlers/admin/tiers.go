package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/dto"
	"github.com/easycustoms360/backend/pkg/utils"
)

// ListTiers godoc
//
//	@Summary	List price tiers
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Success	200	{array}		dto.PriceTierResponseDTO
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/tiers [get]
func (h *AdminHandler) ListTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.pricingService.ListTiers(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.PriceTierResponseDTO, len(tiers))
	for i, t := range tiers {
		response[i] = tierDTO(&t)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// CreateTier godoc
//
//	@Summary	Create a price tier
//	@Tags		Admin
//	@Security	AdminSecret
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.PriceTierRequestDTO	true	"Tier payload"
//	@Success	200		{object}	dto.PriceTierResponseDTO
//	@Failure	400		{object}	utils.Response	"Invalid request body"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/tiers [post]
func (h *AdminHandler) CreateTier(w http.ResponseWriter, r *http.Request) {
	tier, ok := h.decodeTier(w, r)
	if !ok {
		return
	}
	created, err := h.pricingService.CreateTier(r.Context(), tier)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.auditService.Record(r.Context(), actor(r), "tier.create", "price_tier", created.ID.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, tierDTO(created))
}

// UpdateTier godoc
//
//	@Summary	Update a price tier
//	@Tags		Admin
//	@Security	AdminSecret
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Tier id"
//	@Param		request	body		dto.PriceTierRequestDTO	true	"Tier payload"
//	@Success	200		{object}	utils.Response
//	@Failure	400		{object}	utils.Response	"Invalid request body"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/tiers/{id} [put]
func (h *AdminHandler) UpdateTier(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Tier not found")
		return
	}
	tier, ok := h.decodeTier(w, r)
	if !ok {
		return
	}
	tier.ID = id
	if err := h.pricingService.UpdateTier(r.Context(), tier); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "tier.update", "price_tier", id.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Tier updated"})
}

// DeleteTier godoc
//
//	@Summary	Delete a price tier
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Param		id	path		string	true	"Tier id"
//	@Success	200	{object}	utils.Response
//	@Failure	404	{object}	utils.Response	"Tier not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/tiers/{id} [delete]
func (h *AdminHandler) DeleteTier(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Tier not found")
		return
	}
	if err := h.pricingService.DeleteTier(r.Context(), id); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "tier.delete", "price_tier", id.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Tier deleted"})
}

func (h *AdminHandler) decodeTier(w http.ResponseWriter, r *http.Request) (*domain.PriceTier, bool) {
	var req dto.PriceTierRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	rng, err := domain.ParseNumRange(req.Range)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedRange) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid range")
		return nil, false
	}
	return &domain.PriceTier{
		ScopeType: req.ScopeType,
		Range:     rng,
		UnitPrice: req.UnitPrice,
		Active:    req.Active,
	}, true
}

func tierDTO(t *domain.PriceTier) dto.PriceTierResponseDTO {
	return dto.PriceTierResponseDTO{
		ID:        t.ID.String(),
		ScopeType: t.ScopeType,
		Range:     t.Range.String(),
		UnitPrice: t.UnitPrice,
		Active:    t.Active,
	}
}
