package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()
	store, backend, clock := newTestStore()
	r := NewRateLimiter(store, 3, time.Minute)

	for i := 0; i < 3; i++ {
		limited, err := r.IsRateLimited(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.False(t, limited, "attempt %d", i+1)
	}
	limited, err := r.IsRateLimited(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, limited)

	// other clients have their own counter
	limited, err = r.IsRateLimited(ctx, "10.0.0.2")
	require.NoError(t, err)
	require.False(t, limited)

	// later attempts do not extend the window opened by the first one
	clock.Advance(59 * time.Second)
	limited, err = r.IsRateLimited(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, limited)

	clock.Advance(time.Second)
	limited, err = r.IsRateLimited(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, limited)

	raw, err := backend.Get(ctx, r.KeyValue("10.0.0.1"))
	require.NoError(t, err)
	rec, err := store.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, clock.Now().Add(time.Minute).UnixMilli(), rec.ExpiresAt.MustGet())
}
