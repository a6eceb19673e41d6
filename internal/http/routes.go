package httpx

import (
	"log/slog"
	"net/http"

	"github.com/ospitek/ui-gateway/internal/payment"
	"github.com/ospitek/ui-gateway/internal/session"
	"github.com/ospitek/ui-gateway/internal/upstream"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Upstream *upstream.Client
	Sessions *session.Store
	Flows    *payment.Manager
	Logger   *slog.Logger
}

// NewRouter creates and configures the gateway's HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	analyzeHandlers := &AnalyzeHandlers{Upstream: services.Upstream, Sessions: services.Sessions}
	documentHandlers := &DocumentHandlers{Upstream: services.Upstream}
	orderHandlers := &OrderHandlers{Upstream: services.Upstream}
	paymentHandlers := &PaymentHandlers{
		Upstream: services.Upstream,
		Sessions: services.Sessions,
		Flows:    services.Flows,
	}
	authHandlers := &AuthHandlers{
		Upstream: services.Upstream,
		Sessions: services.Sessions,
		Logger:   logger,
	}

	requireSession := RequireSession(services.Sessions)

	mux.Handle("POST /api/analyze-property", requireSession(http.HandlerFunc(analyzeHandlers.AnalyzeProperty)))
	mux.Handle("POST /api/extract-document", http.HandlerFunc(documentHandlers.ExtractDocument))
	mux.Handle("POST /api/print-orders/create", http.HandlerFunc(orderHandlers.CreatePrintOrder))
	mux.Handle("POST /api/payments/create-intent", requireSession(http.HandlerFunc(paymentHandlers.CreateIntent)))
	mux.Handle("POST /api/payments/submit", requireSession(http.HandlerFunc(paymentHandlers.SubmitPayment)))

	mux.Handle("POST /api/auth/login", http.HandlerFunc(authHandlers.Login))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(authHandlers.Logout))
	mux.Handle("GET /api/auth/status", http.HandlerFunc(authHandlers.Status))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}
