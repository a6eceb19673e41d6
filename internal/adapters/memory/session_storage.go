package memory

// Package memory provides an in-memory SessionStorage for tests and
// development runs without Redis.

import (
	"context"
	"sync"

	domainauth "github.com/ospitek/ui-gateway/internal/domain/auth"
	"github.com/ospitek/ui-gateway/internal/ports"
)

// SessionStorage keeps the session record in process memory.
type SessionStorage struct {
	mu     sync.Mutex
	sess   domainauth.Session
	stored bool
}

var _ ports.SessionStorage = (*SessionStorage)(nil)

// NewSessionStorage creates an empty in-memory storage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{}
}

func (s *SessionStorage) Read(_ context.Context) (domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stored {
		return domainauth.Session{}, ports.ErrNoSession
	}
	return s.sess, nil
}

func (s *SessionStorage) Write(_ context.Context, sess domainauth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	s.stored = true
	return nil
}

func (s *SessionStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = domainauth.Session{}
	s.stored = false
	return nil
}
