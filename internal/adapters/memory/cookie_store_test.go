package memory

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/banksim-ui/internal/ports"
	"github.com/target/banksim-ui/internal/testutil"
)

func TestCookieStore_Lifecycle(t *testing.T) {
	clock := testutil.NewClock(testutil.TestTime())
	store := NewCookieStore(clock.Now)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "v1", []*http.Cookie{{Name: "sessionId", Value: "s"}, nil}, time.Minute))

	got, err := store.Load(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s", got[0].Value)

	got[0].Value = "mutated"
	again, err := store.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "s", again[0].Value, "callers must not be able to mutate stored cookies")

	clock.Advance(time.Minute)
	_, err = store.Load(ctx, "v1")
	assert.ErrorIs(t, err, ports.ErrCookiesNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestCookieStore_EmptySaveAndDelete(t *testing.T) {
	store := NewCookieStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "v", []*http.Cookie{{Name: "a", Value: "b"}}, time.Hour))
	require.NoError(t, store.Save(ctx, "v", nil, time.Hour))
	_, err := store.Load(ctx, "v")
	assert.ErrorIs(t, err, ports.ErrCookiesNotFound)

	require.NoError(t, store.Save(ctx, "w", []*http.Cookie{{Name: "a", Value: "b"}}, time.Hour))
	require.NoError(t, store.Delete(ctx, "w"))
	assert.Equal(t, 0, store.Len())

	assert.Error(t, store.Save(ctx, "", nil, time.Hour))
	assert.Error(t, store.Save(ctx, "x", nil, 0))
}
