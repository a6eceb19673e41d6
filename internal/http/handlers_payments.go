package httpx

import (
	"errors"
	"net/http"

	apperrors "github.com/ospitek/ui-gateway/internal/errors"
	"github.com/ospitek/ui-gateway/internal/payment"
	"github.com/ospitek/ui-gateway/internal/ports"
	"github.com/ospitek/ui-gateway/internal/session"
	"github.com/ospitek/ui-gateway/internal/upstream"
)

const (
	missingOrderMessage  = "Ordine non valido"
	invalidAmountMessage = "Importo non valido"
	notSettledMessage    = "Pagamento non completato"
)

// PaymentHandlers exposes the payment surface: the create-intent proxy
// operation and the submit operation that drives a full attempt.
type PaymentHandlers struct {
	Upstream *upstream.Client
	Sessions *session.Store
	Flows    *payment.Manager
}

type createIntentRequest struct {
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
}

// CreateIntent proxies the authorization request upstream and relays the
// processor client-secret back to the caller.
func (h *PaymentHandlers) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req createIntentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.OrderID == "" {
		WriteError(w, apperrors.InvalidInput(missingOrderMessage))
		return
	}
	if req.Amount <= 0 {
		WriteError(w, apperrors.InvalidInput(invalidAmountMessage))
		return
	}

	res, err := h.Upstream.Do(r.Context(), upstream.Request{
		Method: http.MethodPost,
		Path:   "/payments/create-intent",
		Token:  h.Sessions.Credential(),
		JSON: map[string]any{
			"order_id": req.OrderID,
			"amount":   payment.ToMinorUnits(req.Amount),
			"currency": payment.DefaultCurrency,
		},
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteRaw(w, res.Status, res.ContentType, res.Body)
}

type submitPaymentRequest struct {
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
	Card    struct {
		Number   string `json:"number"`
		ExpMonth int    `json:"exp_month"`
		ExpYear  int    `json:"exp_year"`
		CVC      string `json:"cvc"`
		Holder   string `json:"holder"`
	} `json:"card"`
}

type submitPaymentResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// SubmitPayment runs one payment attempt for the order and reports its
// settled outcome. Declines surface the processor's message and leave the
// order resubmittable.
func (h *PaymentHandlers) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req submitPaymentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.OrderID == "" {
		WriteError(w, apperrors.InvalidInput(missingOrderMessage))
		return
	}
	if req.Amount <= 0 {
		WriteError(w, apperrors.InvalidInput(invalidAmountMessage))
		return
	}

	flow, err := h.Flows.Flow(req.OrderID, req.Amount)
	if err != nil {
		WriteError(w, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, missingOrderMessage))
		return
	}

	result, err := flow.Submit(r.Context(), ports.CardDetails{
		Number:   req.Card.Number,
		ExpMonth: req.Card.ExpMonth,
		ExpYear:  req.Card.ExpYear,
		CVC:      req.Card.CVC,
		Holder:   req.Card.Holder,
	})
	switch {
	case errors.Is(err, payment.ErrAttemptInFlight):
		WriteError(w, apperrors.Conflict("Pagamento in corso"))
		return
	case errors.Is(err, payment.ErrAlreadySucceeded):
		WriteError(w, apperrors.Conflict("Ordine già pagato"))
		return
	case errors.Is(err, payment.ErrNotReady):
		WriteError(w, apperrors.InvalidInput("Dati di pagamento mancanti"))
		return
	case err != nil:
		WriteError(w, err)
		return
	}

	if result.Outcome != payment.OutcomeSucceeded {
		message := result.Message
		if message == "" {
			message = notSettledMessage
		}
		WriteError(w, apperrors.PaymentDeclined(message))
		return
	}

	WriteJSON(w, http.StatusOK, submitPaymentResponse{
		Status:        string(payment.OutcomeSucceeded),
		TransactionID: result.TransactionID,
	})
}
