// Package processor implements the payment processor port over the
// processor's public confirm API. Only the publishable key is used here;
// secret-key operations stay on the backend.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/ospitek/ui-gateway/internal/errors"
	"github.com/ospitek/ui-gateway/internal/ports"
)

const declinedFallbackMessage = "Pagamento rifiutato"

// Config captures the subset of the processor API behaviour we need.
type Config struct {
	BaseURL string
	// PublishableKey authenticates public client operations.
	PublishableKey string
	Timeout        time.Duration
	Client         *http.Client
}

// Client confirms charges against the processor's public API.
// Confirming is not idempotent, so the client never retries.
type Client struct {
	baseURL        string
	publishableKey string
	client         *http.Client
}

var _ ports.PaymentProcessor = (*Client)(nil)

// NewClient builds a processor client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("processor base url is required")
	}
	key := strings.TrimSpace(cfg.PublishableKey)
	if key == "" {
		return nil, errors.New("processor publishable key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:        baseURL,
		publishableKey: key,
		client:         hc,
	}, nil
}

// Ready reports whether the client is initialized. A nil client is not.
func (c *Client) Ready() bool {
	return c != nil && c.publishableKey != ""
}

type confirmRequest struct {
	ClientSecret string      `json:"client_secret"`
	Card         confirmCard `json:"card"`
}

type confirmCard struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
	CVC      string `json:"cvc"`
	Holder   string `json:"holder,omitempty"`
}

type confirmResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Confirm submits the card for the payment identified by clientSecret and
// returns the processor's report. Declines come back as payment_declined
// errors carrying the processor's message.
func (c *Client) Confirm(ctx context.Context, clientSecret string, card ports.CardDetails) (ports.Confirmation, error) {
	body, err := json.Marshal(confirmRequest{
		ClientSecret: clientSecret,
		Card: confirmCard{
			Number:   card.Number,
			ExpMonth: card.ExpMonth,
			ExpYear:  card.ExpYear,
			CVC:      card.CVC,
			Holder:   card.Holder,
		},
	})
	if err != nil {
		return ports.Confirmation{}, fmt.Errorf("encode confirm payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payments/confirm", bytes.NewReader(body))
	if err != nil {
		return ports.Confirmation{}, fmt.Errorf("create confirm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.publishableKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return ports.Confirmation{}, fmt.Errorf("confirm request failed: %w", err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if readErr != nil {
		return ports.Confirmation{}, fmt.Errorf("read confirm response: %w", readErr)
	}
	if closeErr != nil {
		return ports.Confirmation{}, fmt.Errorf("close confirm response body: %w", closeErr)
	}

	var payload confirmResponse
	if err := json.Unmarshal(respBody, &payload); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return ports.Confirmation{}, apperrors.PaymentDeclined(declinedFallbackMessage)
		}
		return ports.Confirmation{}, fmt.Errorf("decode confirm response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || payload.Error != nil {
		message := declinedFallbackMessage
		if payload.Error != nil && payload.Error.Message != "" {
			message = payload.Error.Message
		}
		return ports.Confirmation{}, apperrors.PaymentDeclined(message)
	}

	return ports.Confirmation{
		TransactionID: payload.ID,
		Status:        payload.Status,
	}, nil
}
