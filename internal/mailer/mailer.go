package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/easycustoms360/backend/pkg/clients"
)

// Mailer sends transactional email through the provider's HTTP API.
type Mailer struct {
	httpClient *clients.HTTPClient
	apiURL     string
	apiKey     string
	from       string
}

func New(httpClient *clients.HTTPClient, apiURL, apiKey, from string) *Mailer {
	return &Mailer{
		httpClient: httpClient,
		apiURL:     apiURL,
		apiKey:     apiKey,
		from:       from,
	}
}

type message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(message{
		From:    m.from,
		To:      to,
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}

	zap.L().Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
