package redis

import (
	"context"
	"testing"
	"time"

	"github.com/hackathon/inventory-web/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := testutil.SetupTestRedis(t)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	session := testutil.NewSession().
		WithID("test-session-1").
		WithUser("alice").
		WithEmail("alice@example.com").
		AsAdmin().
		ExpiringAt(time.Now().Add(30 * time.Minute)).
		Build()

	require.NoError(t, store.Save(ctx, session))

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.Equal(t, session.AccessToken, retrieved.AccessToken)
	assert.Equal(t, session.RefreshToken, retrieved.RefreshToken)
	assert.Equal(t, "alice", retrieved.User)
	assert.Equal(t, "alice@example.com", retrieved.Email)
	assert.True(t, retrieved.Admin())
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Millisecond)
	assert.WithinDuration(t, session.CreatedAt, retrieved.CreatedAt, time.Millisecond)
}

func TestSessionStore_StoresAdminFlagAsString(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testutil.NewSession().WithID("flag-user").Build()))
	require.NoError(t, store.Save(ctx, testutil.NewSession().WithID("flag-admin").AsAdmin().Build()))

	assert.Equal(t, "false", client.HGet(ctx, "session:flag-user", "isAdmin").Val())
	assert.Equal(t, "true", client.HGet(ctx, "session:flag-admin", "isAdmin").Val())
	assert.Equal(t, "access-token", client.HGet(ctx, "session:flag-user", "accessToken").Val())
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "non-existent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testutil.NewSession().WithID("test-session-delete").Build()))

	_, err := store.Get(ctx, "test-session-delete")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "test-session-delete"))

	_, err = store.Get(ctx, "test-session-delete")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_TTLExpiration(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	session := testutil.NewSession().WithID("test-session-ttl").ExpiringAt(time.Now().Add(100 * time.Millisecond)).Build()
	require.NoError(t, store.Save(ctx, session))

	time.Sleep(200 * time.Millisecond)

	_, err := store.Get(ctx, "test-session-ttl")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_DefaultTTLWithoutExpiry(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client).WithDefaultTTL(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testutil.NewSession().WithID("no-exp").ExpiringAt(time.Time{}).Build()))

	ttl := client.PTTL(ctx, "session:no-exp").Val()
	assert.Greater(t, ttl, 50*time.Second)
	assert.LessOrEqual(t, ttl, time.Minute)

	got, err := store.Get(ctx, "no-exp")
	require.NoError(t, err)
	assert.True(t, got.ExpiresAt.IsZero())
}

func TestSessionStore_CustomPrefix(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStoreWithPrefix(client, "test-prefix:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testutil.NewSession().WithID("prefix-test").Build()))

	assert.Equal(t, int64(1), client.Exists(ctx, "test-prefix:prefix-test").Val())

	retrieved, err := store.Get(ctx, "prefix-test")
	require.NoError(t, err)
	assert.Equal(t, "prefix-test", retrieved.ID)
}

func TestSessionStore_SaveOverwrites(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testutil.NewSession().WithID("dup").WithEmail("old@example.com").Build()))
	require.NoError(t, store.Save(ctx, testutil.NewSession().WithID("dup").Build()))

	got, err := store.Get(ctx, "dup")
	require.NoError(t, err)
	assert.Empty(t, got.Email)
}

func TestSessionStore_SaveRejectsInvalid(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	err := store.Save(ctx, testutil.NewSession().WithID("").Build())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID cannot be empty")

	err = store.Save(ctx, testutil.NewSession().WithID("expired-session").ExpiringAt(time.Now().Add(-time.Hour)).Build())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session is expired")
}

func TestSessionStore_GetEmptyID(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}
