package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ospitek/ui-gateway/internal/adapters/memory"
	domainauth "github.com/ospitek/ui-gateway/internal/domain/auth"
	"github.com/ospitek/ui-gateway/internal/ports"
)

// failingStorage simulates a broken durable store.
type failingStorage struct{}

func (failingStorage) Read(context.Context) (domainauth.Session, error) {
	return domainauth.Session{}, errors.New("storage unavailable")
}
func (failingStorage) Write(context.Context, domainauth.Session) error {
	return errors.New("storage unavailable")
}
func (failingStorage) Clear(context.Context) error {
	return errors.New("storage unavailable")
}

func TestStore_SetCredentialPersists(t *testing.T) {
	storage := memory.NewSessionStorage()
	store := NewStore(storage, nil)
	ctx := context.Background()

	store.SetCredential(ctx, "abc")

	assert.True(t, store.Authenticated())
	assert.Equal(t, "abc", store.Credential())

	persisted, err := storage.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", persisted.Token)
}

func TestStore_LogoutClearsMemoryAndStorage(t *testing.T) {
	storage := memory.NewSessionStorage()
	store := NewStore(storage, nil)
	ctx := context.Background()

	store.SetCredential(ctx, "abc")
	store.SetUser(&domainauth.UserProfile{ID: "u-1", Email: "host@example.com"})
	store.Logout(ctx)

	assert.False(t, store.Authenticated())
	assert.Empty(t, store.Credential())
	assert.Nil(t, store.Snapshot().User)

	_, err := storage.Read(ctx)
	assert.ErrorIs(t, err, ports.ErrNoSession)
}

func TestStore_LogoutIdempotent(t *testing.T) {
	store := NewStore(memory.NewSessionStorage(), nil)
	ctx := context.Background()

	store.Logout(ctx)
	store.Logout(ctx)

	assert.False(t, store.Authenticated())
}

func TestStore_HydrateAdoptsPersistedSession(t *testing.T) {
	storage := memory.NewSessionStorage()
	ctx := context.Background()
	require.NoError(t, storage.Write(ctx, domainauth.Session{Token: "persisted-token"}))

	store := NewStore(storage, nil)
	assert.False(t, store.Hydrated())

	store.Hydrate(ctx)
	require.NoError(t, store.Ready(ctx))

	assert.True(t, store.Hydrated())
	assert.True(t, store.Authenticated())
	assert.Equal(t, "persisted-token", store.Credential())
}

func TestStore_HydrateEmptyStorage(t *testing.T) {
	store := NewStore(memory.NewSessionStorage(), nil)
	ctx := context.Background()

	store.Hydrate(ctx)
	require.NoError(t, store.Ready(ctx))

	assert.True(t, store.Hydrated())
	assert.False(t, store.Authenticated())
}

func TestStore_HydrateFailsOpenToLoggedOut(t *testing.T) {
	store := NewStore(failingStorage{}, nil)
	ctx := context.Background()

	store.Hydrate(ctx)
	require.NoError(t, store.Ready(ctx))

	assert.True(t, store.Hydrated())
	assert.False(t, store.Authenticated())
}

func TestStore_WriteFailureKeepsInMemorySession(t *testing.T) {
	store := NewStore(failingStorage{}, nil)
	ctx := context.Background()

	store.SetCredential(ctx, "abc")

	// Persistence failed, but the live session must stay usable.
	assert.True(t, store.Authenticated())
	assert.Equal(t, "abc", store.Credential())
}

func TestStore_ReadyBlocksUntilHydration(t *testing.T) {
	store := NewStore(memory.NewSessionStorage(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, store.Ready(ctx), context.DeadlineExceeded)

	store.Hydrate(context.Background())
	assert.NoError(t, store.Ready(context.Background()))
}

func TestStore_LoginRacingHydrationWins(t *testing.T) {
	storage := memory.NewSessionStorage()
	ctx := context.Background()
	require.NoError(t, storage.Write(ctx, domainauth.Session{Token: "stale"}))

	store := NewStore(storage, nil)
	store.SetCredential(ctx, "fresh")
	store.Hydrate(ctx)

	assert.Equal(t, "fresh", store.Credential())
}

func TestStore_SetUserDoesNotAlterAuthentication(t *testing.T) {
	store := NewStore(memory.NewSessionStorage(), nil)

	store.SetUser(&domainauth.UserProfile{ID: "u-1"})
	assert.False(t, store.Authenticated())

	store.SetCredential(context.Background(), "abc")
	store.SetUser(&domainauth.UserProfile{ID: "u-2"})
	assert.True(t, store.Authenticated())
	assert.Equal(t, "u-2", store.Snapshot().User.ID)
}
