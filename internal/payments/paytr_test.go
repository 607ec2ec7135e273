package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/easycustoms360/backend/pkg/clients"
)

func newPayTRMock(t *testing.T) (*PayTRClient, *clients.MockHTTPClientI) {
	ctrl := gomock.NewController(t)
	mockClient := clients.NewMockHTTPClientI(ctrl)
	client := NewPayTRClient("merchant-1", "merchant-key", "merchant-salt",
		"https://www.paytr.com/odeme/api/get-token", mockClient)
	defer ctrl.Finish()
	return client, mockClient
}

func paytrHash(key, payload string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestPayTRCreateToken(t *testing.T) {
	tests := []struct {
		name          string
		responseBody  string
		expectedError error
		expectedURL   string
	}{
		{
			name:         "Token granted",
			responseBody: `{"status":"success","token":"tok123"}`,
			expectedURL:  "https://www.paytr.com/odeme/guvenli/tok123",
		},
		{
			name:          "Provider rejects",
			responseBody:  `{"status":"failed","reason":"bad hash"}`,
			expectedError: ErrProviderRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mockClient := newPayTRMock(t)
			mockClient.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodPost, req.Method)
				assert.NoError(t, req.ParseForm())
				assert.Equal(t, "merchant-1", req.PostForm.Get("merchant_id"))
				assert.Equal(t, "ORDER1", req.PostForm.Get("merchant_oid"))
				assert.Equal(t, "10000", req.PostForm.Get("payment_amount"))
				assert.Equal(t, paytrHash("merchant-key", "merchant-1"+"10.0.0.1"+"ORDER1"+"user@example.com"+"10000"+"TL"+"merchant-salt"),
					req.PostForm.Get("paytr_token"))
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(strings.NewReader(tt.responseBody)),
				}, nil
			})

			session, err := client.CreateToken("ORDER1", "user@example.com", "10.0.0.1", 10000, "TL")
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "paytr", session.Provider)
			assert.Equal(t, tt.expectedURL, session.RedirectURL)
		})
	}
}

func TestPayTRVerifyCallback(t *testing.T) {
	client, _ := newPayTRMock(t)

	validHash := paytrHash("merchant-key", "ORDER1"+"merchant-salt"+"success"+"10000")

	tests := []struct {
		name          string
		merchantOID   string
		status        string
		totalAmount   string
		hash          string
		expectedError error
	}{
		{
			name:        "Valid signature",
			merchantOID: "ORDER1",
			status:      "success",
			totalAmount: "10000",
			hash:        validHash,
		},
		{
			name:          "Tampered amount",
			merchantOID:   "ORDER1",
			status:        "success",
			totalAmount:   "99999",
			hash:          validHash,
			expectedError: ErrBadSignature,
		},
		{
			name:          "Tampered status",
			merchantOID:   "ORDER1",
			status:        "failed",
			totalAmount:   "10000",
			hash:          validHash,
			expectedError: ErrBadSignature,
		},
		{
			name:          "Garbage hash",
			merchantOID:   "ORDER1",
			status:        "success",
			totalAmount:   "10000",
			hash:          "not-a-hash",
			expectedError: ErrBadSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.VerifyCallback(tt.merchantOID, tt.status, tt.totalAmount, tt.hash)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
