package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/easycustoms360/backend/pkg/clients"
)

func newPaddleMock(t *testing.T) (*PaddleClient, *clients.MockHTTPClientI) {
	ctrl := gomock.NewController(t)
	mockClient := clients.NewMockHTTPClientI(ctrl)
	client := NewPaddleClient("https://api.paddle.com", "api-key", "webhook-secret", mockClient)
	defer ctrl.Finish()
	return client, mockClient
}

func paddleSignature(secret, ts string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + ":"))
	mac.Write(body)
	return "ts=" + ts + ";h1=" + hex.EncodeToString(mac.Sum(nil))
}

func TestPaddleCreateTransaction(t *testing.T) {
	tests := []struct {
		name          string
		statusCode    int
		responseBody  string
		expectedError error
		expectedURL   string
	}{
		{
			name:         "Transaction created",
			statusCode:   http.StatusCreated,
			responseBody: `{"data":{"id":"txn_1","checkout":{"url":"https://buy.paddle.com/txn_1"}}}`,
			expectedURL:  "https://buy.paddle.com/txn_1",
		},
		{
			name:          "Provider rejects",
			statusCode:    http.StatusForbidden,
			responseBody:  `{"error":{"code":"forbidden"}}`,
			expectedError: ErrProviderRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mockClient := newPaddleMock(t)
			mockClient.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "https://api.paddle.com/transactions", req.URL.String())
				assert.Equal(t, "Bearer api-key", req.Header.Get("Authorization"))
				body, err := io.ReadAll(req.Body)
				assert.NoError(t, err)
				assert.Contains(t, string(body), `"order_id":"order-1"`)
				return &http.Response{
					StatusCode: tt.statusCode,
					Body:       io.NopCloser(strings.NewReader(tt.responseBody)),
				}, nil
			})

			session, err := client.CreateTransaction("order-1", 2500, "USD")
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "paddle", session.Provider)
			assert.Equal(t, "txn_1", session.Token)
			assert.Equal(t, tt.expectedURL, session.RedirectURL)
		})
	}
}

func TestPaddleVerifyWebhook(t *testing.T) {
	client, _ := newPaddleMock(t)
	body := []byte(`{"event_type":"transaction.completed"}`)

	tests := []struct {
		name          string
		header        string
		body          []byte
		expectedError error
	}{
		{
			name:   "Valid signature",
			header: paddleSignature("webhook-secret", "1756339200", body),
			body:   body,
		},
		{
			name:   "Header with spaces",
			header: strings.ReplaceAll(paddleSignature("webhook-secret", "1756339200", body), ";", "; "),
			body:   body,
		},
		{
			name:          "Wrong secret",
			header:        paddleSignature("other-secret", "1756339200", body),
			body:          body,
			expectedError: ErrBadSignature,
		},
		{
			name:          "Body tampered",
			header:        paddleSignature("webhook-secret", "1756339200", body),
			body:          []byte(`{"event_type":"transaction.refunded"}`),
			expectedError: ErrBadSignature,
		},
		{
			name:          "Timestamp tampered",
			header:        "ts=999;" + strings.SplitN(paddleSignature("webhook-secret", "1756339200", body), ";", 2)[1],
			body:          body,
			expectedError: ErrBadSignature,
		},
		{
			name:          "Missing parts",
			header:        "garbage",
			body:          body,
			expectedError: ErrBadSignature,
		},
		{
			name:          "Empty header",
			header:        "",
			body:          body,
			expectedError: ErrBadSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.VerifyWebhook(tt.header, tt.body)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
