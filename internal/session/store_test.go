package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dashboard-gateway/internal/domain"
)

type failingStorage struct {
	loadErr   error
	removeErr error
	removed   [][]string
}

func (f *failingStorage) Load(context.Context, ...string) (map[string]string, error) {
	return nil, f.loadErr
}

func (f *failingStorage) Save(context.Context, map[string]string) error { return nil }

func (f *failingStorage) Remove(_ context.Context, keys ...string) error {
	f.removed = append(f.removed, keys)
	return f.removeErr
}

func fullSession() domain.Session {
	return domain.Session{
		AccessToken:  "abc123",
		RefreshToken: "refresh-1",
		Role:         domain.RoleManager,
		UserID:       "user-1",
	}
}

func TestStoreHydratesCompleteSession(t *testing.T) {
	ctx := context.Background()
	provider := NewMemoryProvider(0)
	require.NoError(t, provider.For("ctx-1").Save(ctx, fullSession().Values()))

	store := NewStore(provider.For("ctx-1"), nil)
	assert.False(t, store.Hydrated())
	_, ok := store.AccessToken()
	assert.False(t, ok)

	require.NoError(t, store.Hydrate(ctx))
	assert.True(t, store.Hydrated())

	sess, ok := store.Session()
	require.True(t, ok)
	assert.Equal(t, fullSession(), sess)

	role, ok := store.Role()
	require.True(t, ok)
	assert.Equal(t, domain.RoleManager, role)
}

func TestStoreHydrateIsOnce(t *testing.T) {
	ctx := context.Background()
	provider := NewMemoryProvider(0)
	store := NewStore(provider.For("ctx-1"), nil)
	require.NoError(t, store.Hydrate(ctx))

	require.NoError(t, provider.For("ctx-1").Save(ctx, fullSession().Values()))
	require.NoError(t, store.Hydrate(ctx))

	_, ok := store.Session()
	assert.False(t, ok)
}

func TestStorePartialSessionIsClearedAtomically(t *testing.T) {
	ctx := context.Background()
	provider := NewMemoryProvider(0)
	require.NoError(t, provider.For("ctx-1").Save(ctx, map[string]string{
		domain.SessionKeyAccessToken: "abc123",
		domain.SessionKeyRole:        "ADMIN",
	}))

	store := NewStore(provider.For("ctx-1"), nil)
	require.NoError(t, store.Hydrate(ctx))

	_, ok := store.Session()
	assert.False(t, ok)

	left, err := provider.For("ctx-1").Load(ctx, domain.SessionKeys()...)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestStoreUnknownRoleIsPartial(t *testing.T) {
	ctx := context.Background()
	provider := NewMemoryProvider(0)
	values := fullSession().Values()
	values[domain.SessionKeyRole] = "OWNER"
	require.NoError(t, provider.For("ctx-1").Save(ctx, values))

	store := NewStore(provider.For("ctx-1"), nil)
	require.NoError(t, store.Hydrate(ctx))

	_, ok := store.AccessToken()
	assert.False(t, ok)
	left, err := provider.For("ctx-1").Load(ctx, domain.SessionKeys()...)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestStoreHydrateErrorLeavesPending(t *testing.T) {
	storage := &failingStorage{loadErr: errors.New("connection refused")}
	store := NewStore(storage, nil)

	err := store.Hydrate(context.Background())
	require.Error(t, err)
	assert.False(t, store.Hydrated())
	assert.Empty(t, storage.removed)
}

func TestStoreSaveRejectsIncompleteSession(t *testing.T) {
	store := NewStore(NewMemoryProvider(0).For("ctx-1"), nil)
	sess := fullSession()
	sess.UserID = ""

	err := store.Save(context.Background(), sess)
	assert.ErrorIs(t, err, ErrIncompleteSession)
}

func TestStoreClearRemovesAllFourKeys(t *testing.T) {
	ctx := context.Background()
	provider := NewMemoryProvider(0)
	storage := provider.For("ctx-1")
	require.NoError(t, storage.Save(ctx, map[string]string{"theme": "dark"}))

	store := NewStore(storage, nil)
	require.NoError(t, store.Save(ctx, fullSession()))
	require.NoError(t, store.Clear(ctx))

	_, ok := store.Session()
	assert.False(t, ok)
	left, err := storage.Load(ctx, append(domain.SessionKeys(), "theme")...)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"theme": "dark"}, left)
}

func TestStoreClearDropsMemoryOnStorageError(t *testing.T) {
	storage := &failingStorage{removeErr: errors.New("timeout")}
	store := NewStore(storage, nil)
	store.current, store.present, store.hydrated = fullSession(), true, true

	err := store.Clear(context.Background())
	require.Error(t, err)
	_, ok := store.Session()
	assert.False(t, ok)
	require.Len(t, storage.removed, 1)
	assert.ElementsMatch(t, domain.SessionKeys(), storage.removed[0])
}

func TestMemoryProviderIsolatesContexts(t *testing.T) {
	ctx := context.Background()
	provider := NewMemoryProvider(0)
	require.NoError(t, provider.For("a").Save(ctx, fullSession().Values()))

	other, err := provider.For("b").Load(ctx, domain.SessionKeys()...)
	require.NoError(t, err)
	assert.Empty(t, other)
}
