package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoworth/marketplace-web/internal/cryptoutil"
	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/testutil"
)

func TestSessionStore_SaveAndGet(t *testing.T) {
	mr, client := testutil.SetupTestRedis(t)

	store := NewSessionStore(client)
	ctx := context.Background()

	session := testutil.NewSession().WithID("test-session-1").WithRole("Seller").Build()

	require.NoError(t, store.Save(ctx, session))

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.Equal(t, session.Token, retrieved.Token)
	assert.Equal(t, session.Email, retrieved.Email)
	assert.Equal(t, session.Role, retrieved.Role)
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)

	ttl := mr.TTL("session:test-session-1")
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	_, client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "non-existent")
	assert.Equal(t, ErrNotFound, err)

	_, err = store.Get(context.Background(), "")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_Delete(t *testing.T) {
	mr, client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	session := testutil.NewSession().WithID("test-session-delete").Build()
	require.NoError(t, store.Save(ctx, session))
	assert.True(t, mr.Exists("session:test-session-delete"))

	require.NoError(t, store.Delete(ctx, "test-session-delete"))
	assert.False(t, mr.Exists("session:test-session-delete"))

	_, err := store.Get(ctx, "test-session-delete")
	assert.Equal(t, ErrNotFound, err)

	assert.NoError(t, store.Delete(ctx, ""))
	assert.NoError(t, store.Delete(ctx, "never-existed"))
}

func TestSessionStore_RejectsExpiredAndPartialSessions(t *testing.T) {
	_, client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	expired := testutil.NewSession().ExpiresAt(time.Now().Add(-time.Minute)).Build()
	require.Error(t, store.Save(ctx, expired))

	partial := testutil.NewSession().WithToken("").Build()
	require.Error(t, store.Save(ctx, partial))

	require.Error(t, store.Save(ctx, domainauth.Session{}))
}

func TestSessionStore_GetTreatsStaleRecordAsAbsent(t *testing.T) {
	mr, client := testutil.SetupTestRedis(t)
	now := time.Now()
	store := NewSessionStore(client, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testutil.NewSession().WithID("stale").ExpiresAt(now.Add(time.Minute)).Build()))

	// Move the store's clock past expiry while the key still exists in Redis.
	now = now.Add(2 * time.Minute)
	_, err := store.Get(ctx, "stale")
	assert.Equal(t, ErrNotFound, err)
	assert.False(t, mr.Exists("session:stale"))

	require.NoError(t, mr.Set("session:partial", `{"id":"partial","role":"buyer"}`))
	_, err = store.Get(ctx, "partial")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_CustomPrefix(t *testing.T) {
	mr, client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client, WithPrefix("ecoworth:session:"))

	require.NoError(t, store.Save(context.Background(), testutil.NewSession().WithID("p1").Build()))
	assert.True(t, mr.Exists("ecoworth:session:p1"))
}

func TestSessionStore_FastForwardExpiresKey(t *testing.T) {
	mr, client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testutil.NewSession().WithID("ff").ExpiresAt(time.Now().Add(time.Minute)).Build()))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "ff")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_SealsToken(t *testing.T) {
	mr, client := testutil.SetupTestRedis(t)
	sealer, err := cryptoutil.FromKey("session-test-key")
	require.NoError(t, err)
	store := NewSessionStore(client, WithSealer(sealer))
	ctx := context.Background()

	session := testutil.NewSession().WithID("sealed").WithToken("backend-access-token").Build()
	require.NoError(t, store.Save(ctx, session))

	raw, err := mr.Get("session:sealed")
	require.NoError(t, err)
	assert.NotContains(t, raw, "backend-access-token")
	assert.Contains(t, raw, `"token":"v1:`)

	got, err := store.Get(ctx, "sealed")
	require.NoError(t, err)
	assert.Equal(t, "backend-access-token", got.Token)
}

func TestSessionStore_UnreadableTokenIsAbsent(t *testing.T) {
	mr, client := testutil.SetupTestRedis(t)
	ctx := context.Background()

	oldKey, err := cryptoutil.FromKey("old-key")
	require.NoError(t, err)
	require.NoError(t, NewSessionStore(client, WithSealer(oldKey)).Save(ctx, testutil.NewSession().WithID("rotated").Build()))
	require.NoError(t, NewSessionStore(client).Save(ctx, testutil.NewSession().WithID("plain").Build()))

	newKey, err := cryptoutil.FromKey("new-key")
	require.NoError(t, err)
	store := NewSessionStore(client, WithSealer(newKey))

	for _, id := range []string{"rotated", "plain"} {
		_, err := store.Get(ctx, id)
		assert.Equal(t, ErrNotFound, err, id)
		assert.False(t, mr.Exists("session:"+id), id)
	}
}
