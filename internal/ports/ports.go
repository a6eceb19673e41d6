package ports

// Package ports defines interfaces (hexagonal ports) for the gateway's
// collaborators. Implementations live in internal/adapters and
// internal/upstream; orchestration in internal/session and internal/payment.

import (
	"context"

	domainauth "github.com/ospitek/ui-gateway/internal/domain/auth"
)

// SessionStorage persists the single durable session record.
// Read returns ErrNoSession (not an implementation error) when nothing is stored.
type SessionStorage interface {
	Read(ctx context.Context) (domainauth.Session, error)
	Write(ctx context.Context, sess domainauth.Session) error
	Clear(ctx context.Context) error
}

// ErrNoSession is returned by SessionStorage.Read when no session is stored.
type noSessionError struct{}

func (noSessionError) Error() string { return "no stored session" }

var ErrNoSession error = noSessionError{}

// CardDetails carries the payment details the user submits.
// They are sent only to the payment processor, never to the upstream service.
type CardDetails struct {
	Number   string
	ExpMonth int
	ExpYear  int
	CVC      string
	Holder   string
}

// Confirmation is the processor's report for a completed confirm call.
type Confirmation struct {
	// TransactionID is the processor's identifier for the payment.
	TransactionID string
	// Status is the processor-reported payment status ("succeeded" on full completion).
	Status string
}

// PaymentProcessor confirms a charge directly against the external processor
// using the client-secret obtained from the upstream service.
type PaymentProcessor interface {
	// Ready reports whether the processor client finished initializing.
	Ready() bool

	// Confirm submits card details for the payment identified by clientSecret.
	// A returned error carries the processor's human-readable decline message.
	Confirm(ctx context.Context, clientSecret string, card CardDetails) (Confirmation, error)
}

// IntentCreator obtains a processor client-secret for an order.
// The gateway's create-intent proxy operation implements this.
type IntentCreator interface {
	// CreateIntent requests payment authorization for amountMinor units of currency.
	CreateIntent(ctx context.Context, orderID string, amountMinor int64, currency string) (clientSecret string, err error)
}

// AttemptRecorder journals payment attempt transitions for reconciliation.
type AttemptRecorder interface {
	Record(ctx context.Context, attempt AttemptRecord) error
}

// AttemptRecord is one journaled payment attempt transition.
type AttemptRecord struct {
	AttemptID     string
	OrderID       string
	AmountMinor   int64
	Currency      string
	State         string
	TransactionID string
	FailureReason string
}
