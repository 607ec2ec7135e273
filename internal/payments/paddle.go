package payments

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/easycustoms360/backend/pkg/clients"
)

// PaddleClient creates Paddle transactions and verifies webhook signatures.
type PaddleClient struct {
	apiURL        string
	apiKey        string
	webhookSecret string
	client        clients.HTTPClientI
}

func NewPaddleClient(apiURL, apiKey, webhookSecret string, client clients.HTTPClientI) *PaddleClient {
	return &PaddleClient{
		apiURL:        apiURL,
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		client:        client,
	}
}

// CreateTransaction opens a transaction carrying our order id as custom data
// and returns the hosted checkout URL.
func (c *PaddleClient) CreateTransaction(orderID string, amountMinor int64, currency string) (*CheckoutSession, error) {
	payload := map[string]any{
		"items": []map[string]any{
			{
				"quantity": 1,
				"price": map[string]any{
					"description": "EasyCustoms360 credits",
					"unit_price": map[string]string{
						"amount":        fmt.Sprintf("%d", amountMinor),
						"currency_code": currency,
					},
				},
			},
		},
		"custom_data": map[string]string{"order_id": orderID},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(c.apiURL, "/")+"/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		zap.L().Error("paddle create transaction failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		zap.L().Error("paddle create transaction rejected", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrProviderRejected, resp.StatusCode)
	}

	var parsed struct {
		Data struct {
			ID       string `json:"id"`
			Checkout struct {
				URL string `json:"url"`
			} `json:"checkout"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("paddle: unexpected response: %w", err)
	}

	return &CheckoutSession{
		Provider:    "paddle",
		Token:       parsed.Data.ID,
		RedirectURL: parsed.Data.Checkout.URL,
	}, nil
}

// VerifyWebhook checks the Paddle-Signature header ("ts=...;h1=...") against
// HMAC-SHA256 over "ts:rawBody".
func (c *PaddleClient) VerifyWebhook(signatureHeader string, rawBody []byte) error {
	var ts, h1 string
	for _, part := range strings.Split(signatureHeader, ";") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "ts":
			ts = kv[1]
		case "h1":
			h1 = kv[1]
		}
	}
	if ts == "" || h1 == "" {
		return ErrBadSignature
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(ts + ":"))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(h1)) {
		return ErrBadSignature
	}
	return nil
}
