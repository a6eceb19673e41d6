package redis

// Package redis provides Redis-based adapters for the gateway.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/ospitek/ui-gateway/internal/domain/auth"
	"github.com/ospitek/ui-gateway/internal/ports"
)

const defaultSessionKey = "gateway:session"

// SessionStorage persists the session record under a single durable key.
// The session has no TTL: the upstream service decides when the credential
// stops being accepted.
type SessionStorage struct {
	client redis.UniversalClient
	key    string
}

var _ ports.SessionStorage = (*SessionStorage)(nil)

// NewSessionStorage creates a Redis-backed session storage.
func NewSessionStorage(client redis.UniversalClient) *SessionStorage {
	return &SessionStorage{
		client: client,
		key:    defaultSessionKey,
	}
}

// NewSessionStorageWithKey creates a Redis session storage with a custom key.
func NewSessionStorageWithKey(client redis.UniversalClient, key string) *SessionStorage {
	return &SessionStorage{
		client: client,
		key:    key,
	}
}

func (s *SessionStorage) Read(ctx context.Context) (domainauth.Session, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ports.ErrNoSession
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	if !sess.Authenticated() {
		// An empty record is equivalent to no record.
		return domainauth.Session{}, ports.ErrNoSession
	}

	return sess, nil
}

func (s *SessionStorage) Write(ctx context.Context, sess domainauth.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.client.Set(ctx, s.key, data, 0).Err()
}

func (s *SessionStorage) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
