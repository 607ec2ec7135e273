package fx

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/easycustoms360/backend/pkg/clients"
)

// Service caches exchange rates from the central bank daily feed and refreshes
// them in the background. Rates are TRY per one unit of the foreign currency.
type Service struct {
	client   *clients.HTTPClient
	feedURL  string
	interval time.Duration

	mu    sync.RWMutex
	rates map[string]decimal.Decimal
}

func New(client *clients.HTTPClient, feedURL string, interval time.Duration) *Service {
	return &Service{
		client:   client,
		feedURL:  feedURL,
		interval: interval,
		rates:    make(map[string]decimal.Decimal),
	}
}

var ErrRateUnavailable = errors.New("exchange rate unavailable")

// feed mirrors the TCMB daily rates document.
type feed struct {
	XMLName    xml.Name       `xml:"Tarih_Date"`
	Currencies []feedCurrency `xml:"Currency"`
}

type feedCurrency struct {
	Code    string `xml:"CurrencyCode,attr"`
	Unit    string `xml:"Unit"`
	Selling string `xml:"ForexSelling"`
}

// Start refreshes once immediately and then on the interval until the context
// is cancelled. A failed refresh keeps the previous snapshot.
func (s *Service) Start(ctx context.Context) {
	if err := s.refresh(ctx); err != nil {
		zap.L().Error("initial fx refresh failed", zap.Error(err))
	}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.refresh(ctx); err != nil {
					zap.L().Error("fx refresh failed", zap.Error(err))
				}
			}
		}
	}()
}

func (s *Service) Rate(currency string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rate, ok := s.rates[strings.ToUpper(currency)]
	if !ok {
		return decimal.Zero, ErrRateUnavailable
	}
	return rate, nil
}

func (s *Service) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fx feed returned status %d", resp.StatusCode)
	}

	var doc feed
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode fx feed: %w", err)
	}

	next := make(map[string]decimal.Decimal, len(doc.Currencies))
	for _, c := range doc.Currencies {
		rate, err := parseRate(c.Selling, c.Unit)
		if err != nil {
			zap.L().Warn("skipping fx currency",
				zap.String("code", c.Code), zap.Error(err))
			continue
		}
		next[strings.ToUpper(c.Code)] = rate
	}
	if len(next) == 0 {
		return errors.New("fx feed contained no parsable rates")
	}

	s.mu.Lock()
	s.rates = next
	s.mu.Unlock()

	zap.L().Info("fx rates refreshed", zap.Int("currencies", len(next)))
	return nil
}

// parseRate normalizes the feed's decimal comma and divides by the quote unit
// (some currencies are quoted per 100 units).
func parseRate(selling, unit string) (decimal.Decimal, error) {
	selling = strings.TrimSpace(strings.ReplaceAll(selling, ",", "."))
	if selling == "" {
		return decimal.Zero, errors.New("empty selling rate")
	}
	rate, err := decimal.NewFromString(selling)
	if err != nil {
		return decimal.Zero, err
	}
	if !rate.IsPositive() {
		return decimal.Zero, errors.New("non-positive selling rate")
	}

	unit = strings.TrimSpace(unit)
	if unit != "" && unit != "1" {
		u, err := decimal.NewFromString(unit)
		if err != nil || !u.IsPositive() {
			return decimal.Zero, errors.New("bad quote unit")
		}
		rate = rate.Div(u)
	}
	return rate, nil
}
