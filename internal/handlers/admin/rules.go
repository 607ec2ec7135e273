package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/dto"
	"github.com/easycustoms360/backend/internal/service/slaservice"
	"github.com/easycustoms360/backend/pkg/utils"
)

// ListSLARules godoc
//
//	@Summary	List reminder rules
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Success	200	{array}		dto.SLARuleResponseDTO
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/sla-rules [get]
func (h *AdminHandler) ListSLARules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.slaService.ListRules(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.SLARuleResponseDTO, len(rules))
	for i, rule := range rules {
		response[i] = ruleDTO(&rule)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// CreateSLARule godoc
//
//	@Summary	Create a reminder rule
//	@Tags		Admin
//	@Security	AdminSecret
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.SLARuleRequestDTO	true	"Rule payload"
//	@Success	200		{object}	dto.SLARuleResponseDTO
//	@Failure	400		{object}	utils.Response	"Invalid request body"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/sla-rules [post]
func (h *AdminHandler) CreateSLARule(w http.ResponseWriter, r *http.Request) {
	var req dto.SLARuleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rule, err := h.slaService.CreateRule(r.Context(), ruleFromDTO(&req))
	if err != nil {
		if errors.Is(err, slaservice.ErrInvalidRule) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "sla_rule.create", "sla_rule", rule.ID.String(), req)
	utils.RespondWithJSON(w, http.StatusOK, ruleDTO(rule))
}

// UpdateSLARule godoc
//
//	@Summary	Update a reminder rule
//	@Tags		Admin
//	@Security	AdminSecret
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Rule id"
//	@Param		request	body		dto.SLARuleRequestDTO	true	"Rule payload"
//	@Success	200		{object}	utils.Response
//	@Failure	400		{object}	utils.Response	"Invalid request body"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/sla-rules/{id} [put]
func (h *AdminHandler) UpdateSLARule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Rule not found")
		return
	}
	var req dto.SLARuleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rule := ruleFromDTO(&req)
	rule.ID = id
	if err := h.slaService.UpdateRule(r.Context(), rule); err != nil {
		if errors.Is(err, slaservice.ErrInvalidRule) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "sla_rule.update", "sla_rule", id.String(), req)
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Rule updated"})
}

// DeleteSLARule godoc
//
//	@Summary	Delete a reminder rule
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Param		id	path		string	true	"Rule id"
//	@Success	200	{object}	utils.Response
//	@Failure	404	{object}	utils.Response	"Rule not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/sla-rules/{id} [delete]
func (h *AdminHandler) DeleteSLARule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Rule not found")
		return
	}
	if err := h.slaService.DeleteRule(r.Context(), id); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "sla_rule.delete", "sla_rule", id.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Rule deleted"})
}

// ListAnswerProfiles godoc
//
//	@Summary	List drafting profiles
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Success	200	{array}		dto.AnswerProfileResponseDTO
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/answer-profiles [get]
func (h *AdminHandler) ListAnswerProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.ragService.ListProfiles(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.AnswerProfileResponseDTO, len(profiles))
	for i, p := range profiles {
		response[i] = answerProfileDTO(&p)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// CreateAnswerProfile godoc
//
//	@Summary	Create a drafting profile
//	@Tags		Admin
//	@Security	AdminSecret
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.AnswerProfileRequestDTO	true	"Profile payload"
//	@Success	200		{object}	dto.AnswerProfileResponseDTO
//	@Failure	400		{object}	utils.Response	"Invalid request body"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/answer-profiles [post]
func (h *AdminHandler) CreateAnswerProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.AnswerProfileRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	profile, err := h.ragService.CreateProfile(r.Context(), answerProfileFromDTO(&req))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "answer_profile.create", "answer_profile", profile.ID.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, answerProfileDTO(profile))
}

// UpdateAnswerProfile godoc
//
//	@Summary	Update a drafting profile
//	@Tags		Admin
//	@Security	AdminSecret
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Profile id"
//	@Param		request	body		dto.AnswerProfileRequestDTO	true	"Profile payload"
//	@Success	200		{object}	utils.Response
//	@Failure	400		{object}	utils.Response	"Invalid request body"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/answer-profiles/{id} [put]
func (h *AdminHandler) UpdateAnswerProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
		return
	}
	var req dto.AnswerProfileRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	profile := answerProfileFromDTO(&req)
	profile.ID = id
	if err := h.ragService.UpdateProfile(r.Context(), profile); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "answer_profile.update", "answer_profile", id.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Profile updated"})
}

// DeleteAnswerProfile godoc
//
//	@Summary	Delete a drafting profile
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Param		id	path		string	true	"Profile id"
//	@Success	200	{object}	utils.Response
//	@Failure	404	{object}	utils.Response	"Profile not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/answer-profiles/{id} [delete]
func (h *AdminHandler) DeleteAnswerProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err := h.ragService.DeleteProfile(r.Context(), id); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.auditService.Record(r.Context(), actor(r), "answer_profile.delete", "answer_profile", id.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Profile deleted"})
}

func ruleFromDTO(req *dto.SLARuleRequestDTO) *domain.SLARule {
	return &domain.SLARule{
		MinutesBeforeSLA: req.MinutesBeforeSLA,
		QuestionStatuses: req.QuestionStatuses,
		NotifyUser:       req.NotifyUser,
		NotifyAssignee:   req.NotifyAssignee,
		NotifyAdmin:      req.NotifyAdmin,
		Active:           req.Active,
	}
}

func ruleDTO(rule *domain.SLARule) dto.SLARuleResponseDTO {
	return dto.SLARuleResponseDTO{
		ID:               rule.ID.String(),
		MinutesBeforeSLA: rule.MinutesBeforeSLA,
		QuestionStatuses: rule.QuestionStatuses,
		NotifyUser:       rule.NotifyUser,
		NotifyAssignee:   rule.NotifyAssignee,
		NotifyAdmin:      rule.NotifyAdmin,
		Active:           rule.Active,
	}
}

func answerProfileFromDTO(req *dto.AnswerProfileRequestDTO) *domain.AnswerProfile {
	return &domain.AnswerProfile{
		Name:         req.Name,
		Model:        req.Model,
		SystemPrompt: req.SystemPrompt,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		Active:       req.Active,
	}
}

func answerProfileDTO(p *domain.AnswerProfile) dto.AnswerProfileResponseDTO {
	return dto.AnswerProfileResponseDTO{
		ID:           p.ID.String(),
		Name:         p.Name,
		Model:        p.Model,
		SystemPrompt: p.SystemPrompt,
		Temperature:  p.Temperature,
		MaxTokens:    p.MaxTokens,
		Active:       p.Active,
	}
}
