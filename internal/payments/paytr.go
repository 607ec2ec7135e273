package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/easycustoms360/backend/pkg/clients"
)

// PayTRClient talks to the PayTR get-token API and verifies its callbacks.
type PayTRClient struct {
	merchantID string
	key        string
	salt       string
	apiURL     string
	client     clients.HTTPClientI
}

func NewPayTRClient(merchantID, key, salt, apiURL string, client clients.HTTPClientI) *PayTRClient {
	return &PayTRClient{
		merchantID: merchantID,
		key:        key,
		salt:       salt,
		apiURL:     apiURL,
		client:     client,
	}
}

var (
	ErrProviderRejected = errors.New("payment provider rejected the request")
	ErrBadSignature     = errors.New("callback signature mismatch")
)

type CheckoutSession struct {
	Provider    string `json:"provider"`
	RedirectURL string `json:"redirect_url"`
	Token       string `json:"token,omitempty"`
}

// CreateToken requests a hosted-payment token. merchantOID is our order id in
// PayTR's allowed alphabet (no dashes).
func (c *PayTRClient) CreateToken(merchantOID, email, userIP string, amountMinor int64, currency string) (*CheckoutSession, error) {
	amount := strconv.FormatInt(amountMinor, 10)
	hashStr := c.merchantID + userIP + merchantOID + email + amount + currency
	token := c.sign(hashStr + c.salt)

	form := url.Values{}
	form.Set("merchant_id", c.merchantID)
	form.Set("user_ip", userIP)
	form.Set("merchant_oid", merchantOID)
	form.Set("email", email)
	form.Set("payment_amount", amount)
	form.Set("currency", currency)
	form.Set("paytr_token", token)

	req, err := http.NewRequest(http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		zap.L().Error("paytr get-token request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Status string `json:"status"`
		Token  string `json:"token"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("paytr: unexpected response: %w", err)
	}
	if parsed.Status != "success" {
		zap.L().Error("paytr get-token rejected", zap.String("reason", parsed.Reason))
		return nil, fmt.Errorf("%w: %s", ErrProviderRejected, parsed.Reason)
	}

	return &CheckoutSession{
		Provider:    "paytr",
		Token:       parsed.Token,
		RedirectURL: "https://www.paytr.com/odeme/guvenli/" + parsed.Token,
	}, nil
}

// VerifyCallback checks the base64 HMAC the provider sends with the payment
// result: HMAC-SHA256(merchant_oid + salt + status + total_amount, key).
func (c *PayTRClient) VerifyCallback(merchantOID, status, totalAmount, hash string) error {
	expected := c.sign(merchantOID + c.salt + status + totalAmount)
	if !hmac.Equal([]byte(expected), []byte(hash)) {
		return ErrBadSignature
	}
	return nil
}

func (c *PayTRClient) sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(c.key))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
