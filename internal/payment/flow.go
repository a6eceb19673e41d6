// Package payment implements the order payment confirmation flow: obtain a
// processor client-secret through the backend, then confirm the charge
// directly with the processor. Card details never transit the backend.
package payment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/ospitek/ui-gateway/internal/errors"
	"github.com/ospitek/ui-gateway/internal/ports"
)

// State is a payment flow state.
type State string

const (
	StateIdle                  State = "idle"
	StateAwaitingAuthorization State = "awaiting_authorization"
	StateProcessing            State = "processing"
	StateSucceeded             State = "succeeded"
	StateFailed                State = "failed"
)

// processorSucceeded is the processor status that counts as full completion.
const processorSucceeded = "succeeded"

// DefaultCurrency is the fixed settlement currency for all orders.
const DefaultCurrency = "eur"

var (
	// ErrNotReady is returned when the processor client has not finished
	// initializing or the card details are absent. A precondition, not a
	// user-visible failure.
	ErrNotReady = errors.New("payment flow not ready to submit")

	// ErrAttemptInFlight is returned when a submit races an attempt that has
	// not settled yet.
	ErrAttemptInFlight = errors.New("payment attempt already in flight")

	// ErrAlreadySucceeded is returned when the order has already been paid.
	ErrAlreadySucceeded = errors.New("payment already succeeded")
)

// Outcome tags a settled attempt.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Result is the settled outcome of one payment attempt.
type Result struct {
	Outcome Outcome
	// TransactionID is set on success: the processor's payment identifier.
	TransactionID string
	// Message is set on failure: the proxy's or processor's message, verbatim.
	Message string
}

// Config assembles a Flow for one order.
type Config struct {
	OrderID string
	// Amount is the order total in major currency units.
	Amount   float64
	Currency string
	Intents  ports.IntentCreator
	// Processor confirms the charge. May be nil until initialization
	// completes; Submit refuses to run without it.
	Processor ports.PaymentProcessor
	// Recorder journals attempt transitions. Optional.
	Recorder ports.AttemptRecorder
	Logger   *slog.Logger
}

// Flow drives the payment of a single order through its states. At most one
// attempt is in flight at a time; a failed attempt resets the flow so the
// order can be retried.
type Flow struct {
	orderID     string
	amountMinor int64
	currency    string
	intents     ports.IntentCreator
	processor   ports.PaymentProcessor
	recorder    ports.AttemptRecorder
	logger      *slog.Logger

	mu    sync.Mutex
	state State
}

// NewFlow validates the configuration and returns an Idle flow.
func NewFlow(cfg Config) (*Flow, error) {
	if strings.TrimSpace(cfg.OrderID) == "" {
		return nil, errors.New("order id is required")
	}
	if cfg.Amount <= 0 {
		return nil, errors.New("order amount must be positive")
	}
	if cfg.Intents == nil {
		return nil, errors.New("intent creator is required")
	}

	currency := cfg.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Flow{
		orderID:     cfg.OrderID,
		amountMinor: ToMinorUnits(cfg.Amount),
		currency:    currency,
		intents:     cfg.Intents,
		processor:   cfg.Processor,
		recorder:    cfg.Recorder,
		logger:      logger,
		state:       StateIdle,
	}, nil
}

// State returns the current flow state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit runs one payment attempt to completion and returns its settled
// outcome. Precondition failures (processor not initialized, no card) return
// ErrNotReady without touching the flow state. A settled failure is reported
// through the Result, not the error, and resets the flow for resubmission.
func (f *Flow) Submit(ctx context.Context, card ports.CardDetails) (Result, error) {
	if f.processor == nil || !f.processor.Ready() {
		return Result{}, ErrNotReady
	}
	if card.Number == "" {
		return Result{}, ErrNotReady
	}

	if err := f.begin(); err != nil {
		return Result{}, err
	}

	attemptID := uuid.NewString()
	f.record(ctx, attemptID, StateAwaitingAuthorization, "", "")

	clientSecret, err := f.intents.CreateIntent(ctx, f.orderID, f.amountMinor, f.currency)
	if err != nil {
		// No charge has been attempted yet; surface the proxy's message as-is.
		return f.fail(ctx, attemptID, failureMessage(err)), nil
	}

	f.setState(StateProcessing)
	f.record(ctx, attemptID, StateProcessing, "", "")

	confirmation, err := f.processor.Confirm(ctx, clientSecret, card)
	if err != nil {
		return f.fail(ctx, attemptID, failureMessage(err)), nil
	}
	if confirmation.Status != processorSucceeded {
		f.logger.WarnContext(ctx, "processor reported non-final status",
			"order_id", f.orderID,
			"status", confirmation.Status)
		return f.fail(ctx, attemptID, "Pagamento non completato"), nil
	}

	f.setState(StateSucceeded)
	f.record(ctx, attemptID, StateSucceeded, confirmation.TransactionID, "")
	return Result{Outcome: OutcomeSucceeded, TransactionID: confirmation.TransactionID}, nil
}

// begin claims the single in-flight attempt slot.
func (f *Flow) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case StateAwaitingAuthorization, StateProcessing:
		return ErrAttemptInFlight
	case StateSucceeded:
		return ErrAlreadySucceeded
	}
	f.state = StateAwaitingAuthorization
	return nil
}

// fail journals the failure and resets the flow to Idle. The failure is
// attempt-scoped, not terminal for the order.
func (f *Flow) fail(ctx context.Context, attemptID, message string) Result {
	f.record(ctx, attemptID, StateFailed, "", message)
	f.setState(StateIdle)
	return Result{Outcome: OutcomeFailed, Message: message}
}

func (f *Flow) setState(next State) {
	f.mu.Lock()
	f.state = next
	f.mu.Unlock()
}

func (f *Flow) record(ctx context.Context, attemptID string, state State, transactionID, failureReason string) {
	if f.recorder == nil {
		return
	}
	err := f.recorder.Record(ctx, ports.AttemptRecord{
		AttemptID:     attemptID,
		OrderID:       f.orderID,
		AmountMinor:   f.amountMinor,
		Currency:      f.currency,
		State:         string(state),
		TransactionID: transactionID,
		FailureReason: failureReason,
	})
	if err != nil {
		// Journaling is best-effort; never fail a payment over it.
		f.logger.WarnContext(ctx, "record payment attempt failed",
			"order_id", f.orderID,
			"error", err)
	}
}

// failureMessage extracts the caller-facing message from a settled failure.
func failureMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}
