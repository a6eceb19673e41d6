package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ospitek/ui-gateway/internal/adapters/memory"
	"github.com/ospitek/ui-gateway/internal/session"
	"github.com/ospitek/ui-gateway/internal/upstream"
)

// upstreamFixture is a fake upstream service that records every call it
// receives, so tests can assert that rejected requests never reached it.
type upstreamFixture struct {
	Client *upstream.Client

	srv *httptest.Server

	mu       sync.Mutex
	calls    int
	lastPath string
	lastAuth string
	lastBody []byte
}

// newUpstreamFixture starts a recording upstream server answering every
// request with respond.
func newUpstreamFixture(t *testing.T, respond http.HandlerFunc) *upstreamFixture {
	t.Helper()

	f := &upstreamFixture{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls++
		f.lastPath = r.URL.Path
		f.lastAuth = r.Header.Get("Authorization")
		f.lastBody = body
		f.mu.Unlock()
		respond(w, r)
	}))
	t.Cleanup(f.srv.Close)

	client, err := upstream.NewClient(upstream.Config{BaseURL: f.srv.URL})
	require.NoError(t, err)
	f.Client = client
	return f
}

func (f *upstreamFixture) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *upstreamFixture) LastPath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPath
}

func (f *upstreamFixture) LastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth
}

func (f *upstreamFixture) LastBody() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody
}

// jsonOK answers every upstream call with a 200 success payload.
func jsonOK(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, body)
	}
}

// testLogger returns a logger that discards everything.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSessions returns a hydrated store. With a non-empty token the store
// is authenticated.
func newTestSessions(t *testing.T, token string) *session.Store {
	t.Helper()
	store := session.NewStore(memory.NewSessionStorage(), nil)
	store.Hydrate(context.Background())
	if token != "" {
		store.SetCredential(context.Background(), token)
	}
	return store
}
