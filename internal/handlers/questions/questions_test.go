package questions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/service/ledgerservice"
	"github.com/easycustoms360/backend/internal/service/questionservice"
	"github.com/easycustoms360/backend/internal/tenant"
	"github.com/easycustoms360/backend/pkg/auth"
	"github.com/easycustoms360/backend/pkg/utils"
)

func NewMock(t *testing.T) (*QuestionHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestAddQuestionHandler(t *testing.T) {
	userID := uuid.New()
	testTenant := &domain.Tenant{ID: uuid.New(), Code: "gumruk360"}

	tests := []struct {
		name          string
		body          string
		prepareMock   func(service *MockService)
		expectedCode  int
		expectedError string
	}{
		{
			name: "Question accepted and priced",
			body: `{"title":"GTIP for solar panels","body":"Which code applies to 8541.43?"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Intake(gomock.Any(), testTenant.ID, userID, "GTIP for solar panels", "Which code applies to 8541.43?").
					Return(&domain.Question{
						ID:             uuid.New(),
						Title:          "GTIP for solar panels",
						Body:           "Which code applies to 8541.43?",
						Status:         questionservice.StatusPriced,
						CreditsCharged: decimal.NewFromInt(1),
					}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Insufficient balance",
			body: `{"title":"T","body":"B"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Intake(gomock.Any(), testTenant.ID, userID, "T", "B").
					Return(nil, ledgerservice.ErrInsufficientBalance)
			},
			expectedCode:  http.StatusPaymentRequired,
			expectedError: ledgerservice.ErrInsufficientBalance.Error(),
		},
		{
			name: "Empty question rejected",
			body: `{"title":"","body":""}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					Intake(gomock.Any(), testTenant.ID, userID, "", "").
					Return(nil, questionservice.ErrEmptyQuestion)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: questionservice.ErrEmptyQuestion.Error(),
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func(*MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			req := authedRequest("POST", "/api/user/questions", tt.body, userID)
			req = req.WithContext(tenant.NewContext(req.Context(), testTenant))
			rr := httptest.NewRecorder()

			handler.AddQuestion(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}

func TestAddQuestionRequiresAuth(t *testing.T) {
	handler, _ := NewMock(t)

	req := httptest.NewRequest("POST", "/api/user/questions", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()

	handler.AddQuestion(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetQuestionHandler(t *testing.T) {
	userID := uuid.New()
	questionID := uuid.New()

	tests := []struct {
		name          string
		id            string
		prepareMock   func(service *MockService)
		expectedCode  int
		expectedError string
	}{
		{
			name: "Own question returned",
			id:   questionID.String(),
			prepareMock: func(service *MockService) {
				service.EXPECT().GetOwned(gomock.Any(), questionID, userID).
					Return(&domain.Question{ID: questionID, Title: "T", Status: questionservice.StatusPriced}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Someone else's question reads as missing",
			id:   questionID.String(),
			prepareMock: func(service *MockService) {
				service.EXPECT().GetOwned(gomock.Any(), questionID, userID).
					Return(nil, questionservice.ErrNotOwner)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "Question not found",
		},
		{
			name:          "Malformed id",
			id:            "not-a-uuid",
			prepareMock:   func(*MockService) {},
			expectedCode:  http.StatusNotFound,
			expectedError: "Question not found",
		},
		{
			name: "Service error",
			id:   questionID.String(),
			prepareMock: func(service *MockService) {
				service.EXPECT().GetOwned(gomock.Any(), questionID, userID).
					Return(nil, errors.New("db error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			req := authedRequest("GET", "/api/user/questions/"+tt.id, "", userID)
			req = withURLParam(req, "id", tt.id)
			rr := httptest.NewRecorder()

			handler.GetQuestion(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}

func TestUpdateQuestionHandler(t *testing.T) {
	userID := uuid.New()
	questionID := uuid.New()

	tests := []struct {
		name          string
		body          string
		prepareMock   func(service *MockService)
		expectedCode  int
		expectedError string
	}{
		{
			name: "Body replaced",
			body: `{"body":"Clarified question text"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().UpdateBody(gomock.Any(), questionID, userID, "Clarified question text").
					Return(&domain.Question{ID: questionID, Body: "Clarified question text"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Empty body rejected",
			body: `{"body":""}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().UpdateBody(gomock.Any(), questionID, userID, "").
					Return(nil, questionservice.ErrEmptyQuestion)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: questionservice.ErrEmptyQuestion.Error(),
		},
		{
			name: "Question not found",
			body: `{"body":"x"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().UpdateBody(gomock.Any(), questionID, userID, "x").
					Return(nil, questionservice.ErrQuestionNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "Question not found",
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func(*MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			req := authedRequest("PATCH", "/api/user/questions/"+questionID.String(), tt.body, userID)
			req = withURLParam(req, "id", questionID.String())
			rr := httptest.NewRecorder()

			handler.UpdateQuestion(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}

func TestGetRevisionsHandler(t *testing.T) {
	userID := uuid.New()
	questionID := uuid.New()

	t.Run("Revisions listed for own question", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().GetOwned(gomock.Any(), questionID, userID).
			Return(&domain.Question{ID: questionID}, nil)
		service.EXPECT().ListRevisions(gomock.Any(), questionID).
			Return([]domain.QuestionRevision{{QuestionID: questionID, Body: "old text"}}, nil)

		req := authedRequest("GET", "/api/user/questions/"+questionID.String()+"/revisions", "", userID)
		req = withURLParam(req, "id", questionID.String())
		rr := httptest.NewRecorder()

		handler.GetRevisions(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var revisions []map[string]any
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&revisions))
		assert.Len(t, revisions, 1)
		assert.Equal(t, "old text", revisions[0]["body"])
	})

	t.Run("Ownership checked before listing", func(t *testing.T) {
		handler, service := NewMock(t)
		service.EXPECT().GetOwned(gomock.Any(), questionID, userID).
			Return(nil, questionservice.ErrNotOwner)

		req := authedRequest("GET", "/api/user/questions/"+questionID.String()+"/revisions", "", userID)
		req = withURLParam(req, "id", questionID.String())
		rr := httptest.NewRecorder()

		handler.GetRevisions(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestGetQuestionsHandler(t *testing.T) {
	handler, service := NewMock(t)
	userID := uuid.New()

	service.EXPECT().ListByUser(gomock.Any(), userID).Return([]domain.Question{
		{ID: uuid.New(), Title: "A", Status: questionservice.StatusPriced},
		{ID: uuid.New(), Title: "B", Status: questionservice.StatusAnswered},
	}, nil)

	req := authedRequest("GET", "/api/user/questions", "", userID)
	rr := httptest.NewRecorder()

	handler.GetQuestions(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var questions []map[string]any
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&questions))
	assert.Len(t, questions, 2)
}
