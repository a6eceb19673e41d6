// Package session holds the gateway's authentication state: an opaque
// credential issued by the upstream service plus the user profile, persisted
// across restarts through an injectable storage adapter.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/ospitek/ui-gateway/internal/domain/auth"
	"github.com/ospitek/ui-gateway/internal/ports"
)

// Store owns the session record. The record is replaced atomically on every
// write, so concurrent readers never observe a partially-updated session.
//
// Until Hydrate completes, the state is unknown: callers that need a settled
// answer must await Ready before trusting Authenticated.
type Store struct {
	storage ports.SessionStorage
	logger  *slog.Logger

	mu       sync.RWMutex
	current  domainauth.Session
	hydrated bool

	readyOnce sync.Once
	ready     chan struct{}
}

// NewStore creates a Store backed by the given storage adapter.
func NewStore(storage ports.SessionStorage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		storage: storage,
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// Hydrate loads the persisted session into memory. Storage failures are
// treated as "no stored session": the store settles to logged-out rather than
// failing the process. Hydrate is idempotent; later calls are no-ops.
func (s *Store) Hydrate(ctx context.Context) {
	s.readyOnce.Do(func() {
		defer close(s.ready)

		sess, err := s.storage.Read(ctx)
		if err != nil {
			if !errors.Is(err, ports.ErrNoSession) {
				s.logger.WarnContext(ctx, "session hydration failed, starting logged out", "error", err)
			}
			sess = domainauth.Session{}
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		// A login that raced hydration wins: never clobber a live credential
		// with stale persisted state.
		if !s.hydrated && !s.current.Authenticated() {
			s.current = sess
		}
		s.hydrated = true
	})
}

// Ready blocks until hydration has completed or the context is done.
func (s *Store) Ready(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetCredential stores the credential token and persists the session record.
// A persistence failure is logged and ignored: the in-memory session stays
// valid for the life of the process.
func (s *Store) SetCredential(ctx context.Context, token string) {
	s.mu.Lock()
	next := s.current
	next.Token = token
	next.UpdatedAt = time.Now().UTC()
	s.current = next
	s.hydrated = true
	s.mu.Unlock()

	if err := s.storage.Write(ctx, next); err != nil {
		s.logger.WarnContext(ctx, "persist session failed", "error", err)
	}
}

// SetUser replaces the stored profile. Authentication state is untouched and
// nothing is persisted: the profile is refetched from the upstream on demand.
func (s *Store) SetUser(profile *domainauth.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.current
	next.User = profile
	s.current = next
}

// Logout clears the durable storage and resets the in-memory session.
// Safe to call when already logged out.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = domainauth.Session{}
	s.hydrated = true
	s.mu.Unlock()

	if err := s.storage.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "clear persisted session failed", "error", err)
	}
}

// Snapshot returns a copy of the current session record.
func (s *Store) Snapshot() domainauth.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Credential returns the current token, empty when logged out.
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// Authenticated reports whether a credential is present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Authenticated()
}

// Hydrated reports whether persisted state has been loaded.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}
