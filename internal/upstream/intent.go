package upstream

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/ospitek/ui-gateway/internal/errors"
)

// TokenSource supplies the current session credential for outbound requests.
// *session.Store satisfies it.
type TokenSource interface {
	Credential() string
}

// IntentClient obtains processor client-secrets through the backend's
// create-intent operation. It implements ports.IntentCreator.
type IntentClient struct {
	client *Client
	tokens TokenSource
}

// NewIntentClient builds an IntentClient over an existing forwarder.
func NewIntentClient(client *Client, tokens TokenSource) (*IntentClient, error) {
	if client == nil {
		return nil, errors.New("upstream client is required")
	}
	if tokens == nil {
		return nil, errors.New("token source is required")
	}
	return &IntentClient{client: client, tokens: tokens}, nil
}

type createIntentRequest struct {
	OrderID     string `json:"order_id"`
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
}

type createIntentResponse struct {
	ClientSecret string `json:"client_secret"`
}

// CreateIntent requests payment authorization for the order and returns the
// processor client-secret. Amount is already in minor currency units.
func (c *IntentClient) CreateIntent(ctx context.Context, orderID string, amountMinor int64, currency string) (string, error) {
	res, err := c.client.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/payments/create-intent",
		Token:  c.tokens.Credential(),
		JSON: createIntentRequest{
			OrderID:     orderID,
			AmountMinor: amountMinor,
			Currency:    currency,
		},
	})
	if err != nil {
		return "", err
	}

	var payload createIntentResponse
	if err := res.Decode(&payload); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, internalFailureMessage)
	}
	if payload.ClientSecret == "" {
		return "", apperrors.Internal(internalFailureMessage)
	}
	return payload.ClientSecret, nil
}
