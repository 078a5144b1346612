package redis

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/banksim-ui/internal/ports"
	"github.com/target/banksim-ui/internal/testutil"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestCookieStore_SaveAndLoad(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewCookieStore(client, "")
	ctx := context.Background()

	err := store.Save(ctx, "visitor-1", []*http.Cookie{
		{Name: "sessionId", Value: "abc", Path: "/", HttpOnly: true},
		nil,
		{Name: ""},
	}, time.Minute)
	require.NoError(t, err)

	got, err := store.Load(ctx, "visitor-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sessionId", got[0].Name)
	assert.Equal(t, "abc", got[0].Value)

	ttl, err := client.TTL(ctx, DefaultKeyPrefix+"visitor-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestCookieStore_LoadMissing(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewCookieStore(client, "test:")
	_, err := store.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ports.ErrCookiesNotFound)

	_, err = store.Load(context.Background(), "")
	assert.ErrorIs(t, err, ports.ErrCookiesNotFound)
}

func TestCookieStore_EmptySaveDeletes(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewCookieStore(client, "test:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "v", []*http.Cookie{{Name: "sessionId", Value: "x"}}, time.Minute))
	require.NoError(t, store.Save(ctx, "v", nil, time.Minute))

	_, err := store.Load(ctx, "v")
	assert.ErrorIs(t, err, ports.ErrCookiesNotFound)
}

func TestCookieStore_Validation(t *testing.T) {
	store := NewCookieStore(nil, "")
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "", nil, time.Minute))
	assert.Error(t, store.Save(ctx, "v", nil, 0))
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestCookieStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewCookieStore(client, "test:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "v", []*http.Cookie{{Name: "sessionId", Value: "x"}}, time.Minute))
	require.NoError(t, store.Delete(ctx, "v"))

	_, err := store.Load(ctx, "v")
	assert.ErrorIs(t, err, ports.ErrCookiesNotFound)
}
