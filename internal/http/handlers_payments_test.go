package httpx

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	apperrors "github.com/ospitek/ui-gateway/internal/errors"
	"github.com/ospitek/ui-gateway/internal/mocks"
	"github.com/ospitek/ui-gateway/internal/payment"
	"github.com/ospitek/ui-gateway/internal/ports"
)

func TestCreateIntent_ConvertsAmountToMinorUnits(t *testing.T) {
	f := newUpstreamFixture(t, jsonOK(`{"client_secret":"cs_42"}`))
	h := &PaymentHandlers{Upstream: f.Client, Sessions: newTestSessions(t, "tok-1")}

	r := httptest.NewRequest(http.MethodPost, "/api/payments/create-intent",
		bytes.NewBufferString(`{"order_id":"ord-1","amount":12.50}`))
	w := httptest.NewRecorder()
	h.CreateIntent(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"client_secret":"cs_42"}`, w.Body.String())
	assert.Equal(t, "/payments/create-intent", f.LastPath())
	assert.Equal(t, "Bearer tok-1", f.LastAuth())
	assert.JSONEq(t, `{"order_id":"ord-1","amount":1250,"currency":"eur"}`, string(f.LastBody()))
}

func TestCreateIntent_ValidatesInput(t *testing.T) {
	f := newUpstreamFixture(t, jsonOK(`{}`))
	h := &PaymentHandlers{Upstream: f.Client, Sessions: newTestSessions(t, "tok-1")}

	tests := []struct {
		name string
		body string
	}{
		{"missing order", `{"amount":12.50}`},
		{"zero amount", `{"order_id":"ord-1","amount":0}`},
		{"negative amount", `{"order_id":"ord-1","amount":-3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/payments/create-intent", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			h.CreateIntent(w, r)
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Zero(t, f.Calls())
}

func newPaymentSubmitHandlers(t *testing.T, ctrl *gomock.Controller) (*PaymentHandlers, *mocks.MockIntentCreator, *mocks.MockPaymentProcessor) {
	t.Helper()
	intents := mocks.NewMockIntentCreator(ctrl)
	processor := mocks.NewMockPaymentProcessor(ctrl)
	h := &PaymentHandlers{
		Sessions: newTestSessions(t, "tok-1"),
		Flows: payment.NewManager(payment.ManagerConfig{
			Intents:   intents,
			Processor: processor,
		}),
	}
	return h, intents, processor
}

func TestSubmitPayment_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, intents, processor := newPaymentSubmitHandlers(t, ctrl)
	processor.EXPECT().Ready().Return(true)
	intents.EXPECT().
		CreateIntent(gomock.Any(), "ord-1", int64(1250), "eur").
		Return("cs_1", nil)
	processor.EXPECT().
		Confirm(gomock.Any(), "cs_1", gomock.Any()).
		Return(ports.Confirmation{TransactionID: "tx-1", Status: "succeeded"}, nil)

	r := httptest.NewRequest(http.MethodPost, "/api/payments/submit",
		bytes.NewBufferString(`{"order_id":"ord-1","amount":12.50,"card":{"number":"4242424242424242","exp_month":12,"exp_year":2030,"cvc":"123","holder":"Mario Rossi"}}`))
	w := httptest.NewRecorder()
	h.SubmitPayment(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"succeeded","transaction_id":"tx-1"}`, w.Body.String())
}

func TestSubmitPayment_DeclineSurfacesProcessorMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, intents, processor := newPaymentSubmitHandlers(t, ctrl)
	processor.EXPECT().Ready().Return(true)
	intents.EXPECT().
		CreateIntent(gomock.Any(), "ord-1", int64(1250), "eur").
		Return("cs_1", nil)
	processor.EXPECT().
		Confirm(gomock.Any(), "cs_1", gomock.Any()).
		Return(ports.Confirmation{}, apperrors.PaymentDeclined("Carta rifiutata"))

	r := httptest.NewRequest(http.MethodPost, "/api/payments/submit",
		bytes.NewBufferString(`{"order_id":"ord-1","amount":12.50,"card":{"number":"4000000000000002"}}`))
	w := httptest.NewRecorder()
	h.SubmitPayment(w, r)

	require.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.JSONEq(t, `{"error":"Carta rifiutata"}`, w.Body.String())
}

func TestSubmitPayment_IntentFailureSurfacesProxyMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, intents, processor := newPaymentSubmitHandlers(t, ctrl)
	processor.EXPECT().Ready().Return(true)
	intents.EXPECT().
		CreateIntent(gomock.Any(), "ord-1", int64(1250), "eur").
		Return("", apperrors.UpstreamRejected(402, "Credito insufficiente"))

	r := httptest.NewRequest(http.MethodPost, "/api/payments/submit",
		bytes.NewBufferString(`{"order_id":"ord-1","amount":12.50,"card":{"number":"4242424242424242"}}`))
	w := httptest.NewRecorder()
	h.SubmitPayment(w, r)

	require.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.JSONEq(t, `{"error":"Credito insufficiente"}`, w.Body.String())
}

func TestSubmitPayment_MissingCardIsPrecondition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, processor := newPaymentSubmitHandlers(t, ctrl)
	processor.EXPECT().Ready().Return(true)

	r := httptest.NewRequest(http.MethodPost, "/api/payments/submit",
		bytes.NewBufferString(`{"order_id":"ord-1","amount":12.50,"card":{}}`))
	w := httptest.NewRecorder()
	h.SubmitPayment(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
