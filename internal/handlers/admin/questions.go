package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/dto"
	"github.com/easycustoms360/backend/internal/service/questionservice"
	"github.com/easycustoms360/backend/pkg/utils"
)

// ListQuestions godoc
//
//	@Summary	List questions by status
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Param		status	query		string	false	"Filter by status"
//	@Success	200		{array}		dto.QuestionResponseDTO
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/questions [get]
func (h *AdminHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	limit, _ := pagination(r)
	questions, err := h.questionService.ListByStatus(r.Context(), r.URL.Query().Get("status"), limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.QuestionResponseDTO, len(questions))
	for i := range questions {
		response[i] = adminQuestionDTO(&questions[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// AssignQuestion godoc
//
//	@Summary	Assign a question to a consultant
//	@Tags		Admin
//	@Security	AdminSecret
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Question id"
//	@Param		request	body		dto.AssignRequestDTO	true	"Worker id"
//	@Success	200		{object}	dto.QuestionResponseDTO
//	@Failure	404		{object}	utils.Response	"Question not found"
//	@Failure	409		{object}	utils.Response	"Invalid status transition"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/questions/{id}/assign [post]
func (h *AdminHandler) AssignQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}
	var req dto.AssignRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid worker id")
		return
	}
	question, err := h.questionService.Assign(r.Context(), id, workerID)
	if err != nil {
		respondTransitionError(w, err)
		return
	}
	h.auditService.Record(r.Context(), actor(r), "question.assign", "question", id.String(), req)
	utils.RespondWithJSON(w, http.StatusOK, adminQuestionDTO(question))
}

// AnswerQuestion godoc
//
//	@Summary	Record the consultant's answer
//	@Tags		Admin
//	@Security	AdminSecret
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Question id"
//	@Param		request	body		dto.AnswerRequestDTO	true	"Answer text"
//	@Success	200		{object}	dto.QuestionResponseDTO
//	@Failure	404		{object}	utils.Response	"Question not found"
//	@Failure	409		{object}	utils.Response	"Invalid status transition"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/questions/{id}/answer [post]
func (h *AdminHandler) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}
	var req dto.AnswerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Answer == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	question, err := h.questionService.Answer(r.Context(), id, req.Answer)
	if err != nil {
		respondTransitionError(w, err)
		return
	}
	h.auditService.Record(r.Context(), actor(r), "question.answer", "question", id.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, adminQuestionDTO(question))
}

// CloseQuestion godoc
//
//	@Summary	Close an answered question
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Param		id	path		string	true	"Question id"
//	@Success	200	{object}	dto.QuestionResponseDTO
//	@Failure	404	{object}	utils.Response	"Question not found"
//	@Failure	409	{object}	utils.Response	"Invalid status transition"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/questions/{id}/close [post]
func (h *AdminHandler) CloseQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}
	question, err := h.questionService.Close(r.Context(), id)
	if err != nil {
		respondTransitionError(w, err)
		return
	}
	h.auditService.Record(r.Context(), actor(r), "question.close", "question", id.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, adminQuestionDTO(question))
}

// RejectQuestion godoc
//
//	@Summary	Reject a question
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Param		id	path		string	true	"Question id"
//	@Success	200	{object}	dto.QuestionResponseDTO
//	@Failure	404	{object}	utils.Response	"Question not found"
//	@Failure	409	{object}	utils.Response	"Invalid status transition"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/questions/{id}/reject [post]
func (h *AdminHandler) RejectQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}
	question, err := h.questionService.Reject(r.Context(), id)
	if err != nil {
		respondTransitionError(w, err)
		return
	}
	h.auditService.Record(r.Context(), actor(r), "question.reject", "question", id.String(), nil)
	utils.RespondWithJSON(w, http.StatusOK, adminQuestionDTO(question))
}

// ListAuditLogs godoc
//
//	@Summary	List back-office audit logs
//	@Tags		Admin
//	@Security	AdminSecret
//	@Produce	json
//	@Success	200	{array}		dto.AuditLogResponseDTO
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/audit-logs [get]
func (h *AdminHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	logs, err := h.auditService.List(r.Context(), limit, offset)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.AuditLogResponseDTO, len(logs))
	for i, l := range logs {
		response[i] = dto.AuditLogResponseDTO{
			ID:         l.ID.String(),
			Actor:      l.Actor,
			Action:     l.Action,
			ObjectType: l.ObjectType,
			ObjectID:   l.ObjectID,
			CreatedAt:  l.CreatedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func questionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Question not found")
		return uuid.Nil, false
	}
	return id, true
}

func respondTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, questionservice.ErrQuestionNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Question not found")
	case errors.Is(err, questionservice.ErrInvalidTransition):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func adminQuestionDTO(q *domain.Question) dto.QuestionResponseDTO {
	return dto.QuestionResponseDTO{
		ID:             q.ID.String(),
		Title:          q.Title,
		Body:           q.Body,
		Status:         q.Status,
		CreditsCharged: q.CreditsCharged,
		AnswerDraft:    q.AnswerDraft,
		SLADueAt:       q.SLADueAt,
		CreatedAt:      q.CreatedAt,
	}
}
