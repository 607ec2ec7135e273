package questions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/dto"
	"github.com/easycustoms360/backend/internal/service/ledgerservice"
	"github.com/easycustoms360/backend/internal/service/questionservice"
	"github.com/easycustoms360/backend/internal/tenant"
	"github.com/easycustoms360/backend/pkg/auth"
	"github.com/easycustoms360/backend/pkg/utils"
)

type Service interface {
	Intake(ctx context.Context, tenantID, userID uuid.UUID, title, body string) (*domain.Question, error)
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*domain.Question, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Question, error)
	UpdateBody(ctx context.Context, id, userID uuid.UUID, body string) (*domain.Question, error)
	ListRevisions(ctx context.Context, questionID uuid.UUID) ([]domain.QuestionRevision, error)
}

type QuestionHandler struct {
	questionService Service
}

func New(questionService Service) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
	}
}

// AddQuestion godoc
//
//	@Summary		Submit a question
//	@Description	Create a question and charge its credit cost in one transaction.
//	@Tags			Questions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.QuestionCreateRequestDTO	true	"Question payload"
//	@Success		200		{object}	dto.QuestionResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		402		{object}	utils.Response	"Insufficient balance"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/questions [post]
func (h *QuestionHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var req dto.QuestionCreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	question, err := h.questionService.Intake(r.Context(), t.ID, userID, req.Title, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, questionservice.ErrEmptyQuestion):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ledgerservice.ErrInsufficientBalance):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, questionDTO(question))
}

// GetQuestions godoc
//
//	@Summary		List the caller's questions
//	@Tags			Questions
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.QuestionResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/questions [get]
func (h *QuestionHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	questions, err := h.questionService.ListByUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.QuestionResponseDTO, len(questions))
	for i := range questions {
		response[i] = questionDTO(&questions[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetQuestion godoc
//
//	@Summary		Get one of the caller's questions
//	@Tags			Questions
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Question id"
//	@Success		200	{object}	dto.QuestionResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Question not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/questions/{id} [get]
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Question not found")
		return
	}
	question, err := h.questionService.GetOwned(r.Context(), id, userID)
	if err != nil {
		respondQuestionError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, questionDTO(question))
}

// UpdateQuestion godoc
//
//	@Summary		Edit a question body
//	@Description	Replaces the body and records the previous text as a revision.
//	@Tags			Questions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Question id"
//	@Param			request	body		dto.QuestionUpdateRequestDTO	true	"New body"
//	@Success		200		{object}	dto.QuestionResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Question not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/questions/{id} [patch]
func (h *QuestionHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Question not found")
		return
	}
	var req dto.QuestionUpdateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	question, err := h.questionService.UpdateBody(r.Context(), id, userID, req.Body)
	if err != nil {
		if errors.Is(err, questionservice.ErrEmptyQuestion) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondQuestionError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, questionDTO(question))
}

// GetRevisions godoc
//
//	@Summary		List a question's edit history
//	@Tags			Questions
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Question id"
//	@Success		200	{array}		dto.QuestionRevisionDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Question not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/questions/{id}/revisions [get]
func (h *QuestionHandler) GetRevisions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Question not found")
		return
	}
	if _, err := h.questionService.GetOwned(r.Context(), id, userID); err != nil {
		respondQuestionError(w, err)
		return
	}
	revisions, err := h.questionService.ListRevisions(r.Context(), id)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.QuestionRevisionDTO, len(revisions))
	for i, rev := range revisions {
		response[i] = dto.QuestionRevisionDTO{Body: rev.Body, CreatedAt: rev.CreatedAt}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func respondQuestionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, questionservice.ErrQuestionNotFound), errors.Is(err, questionservice.ErrNotOwner):
		// Not-owner reads as not-found so ids cannot be probed.
		utils.RespondWithError(w, http.StatusNotFound, "Question not found")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func questionDTO(q *domain.Question) dto.QuestionResponseDTO {
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
