// Package data provides database-backed repositories for the gateway.
package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	// Import pgx driver for database/sql compatibility.
	_ "github.com/jackc/pgx/v5/stdlib"

	apperrors "github.com/ospitek/ui-gateway/internal/errors"
	"github.com/ospitek/ui-gateway/internal/ports"
)

// PaymentAttemptRepo journals payment attempt transitions for reconciliation.
// It implements ports.AttemptRecorder.
type PaymentAttemptRepo struct {
	DB *sql.DB
}

var _ ports.AttemptRecorder = (*PaymentAttemptRepo)(nil)

// NewPaymentAttemptRepo creates a new PaymentAttemptRepo.
func NewPaymentAttemptRepo(db *sql.DB) *PaymentAttemptRepo {
	return &PaymentAttemptRepo{DB: db}
}

// Record inserts one attempt transition. Transitions are append-only; the
// journal is never updated in place.
func (r *PaymentAttemptRepo) Record(ctx context.Context, attempt ports.AttemptRecord) error {
	if attempt.AttemptID == "" {
		return errors.New("attempt id is required")
	}
	if attempt.OrderID == "" {
		return errors.New("order id is required")
	}

	const query = `
		INSERT INTO payment_attempts (attempt_id, order_id, amount_minor, currency, state, transaction_id, failure_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctx, query,
		attempt.AttemptID,
		attempt.OrderID,
		attempt.AmountMinor,
		attempt.Currency,
		attempt.State,
		attempt.TransactionID,
		attempt.FailureReason,
	)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// AttemptTransition is one journaled row read back for reconciliation.
type AttemptTransition struct {
	AttemptID     string
	OrderID       string
	AmountMinor   int64
	Currency      string
	State         string
	TransactionID string
	FailureReason string
	RecordedAt    time.Time
}

// ListByOrder returns the order's journaled transitions, oldest first.
func (r *PaymentAttemptRepo) ListByOrder(ctx context.Context, orderID string) ([]AttemptTransition, error) {
	const query = `
		SELECT attempt_id, order_id, amount_minor, currency, state, transaction_id, failure_reason, recorded_at
		FROM payment_attempts
		WHERE order_id = $1
		ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	defer func() { _ = rows.Close() }()

	var out []AttemptTransition
	for rows.Next() {
		var tr AttemptTransition
		if err := rows.Scan(
			&tr.AttemptID,
			&tr.OrderID,
			&tr.AmountMinor,
			&tr.Currency,
			&tr.State,
			&tr.TransactionID,
			&tr.FailureReason,
			&tr.RecordedAt,
		); err != nil {
			return nil, apperrors.MapDBError(err)
		}
		out = append(out, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}
