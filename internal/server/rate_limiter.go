package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gigaxel/expirestore"
)

const (
	MaxAttempts       = 100
	RateLimiterWindow = time.Hour
)

// RateLimiter counts requests per client in fixed windows. Counters live in the
// expiring store and vanish when their window ends.
type RateLimiter struct {
	store       *expirestore.Store
	maxAttempts int
	window      time.Duration
}

func NewRateLimiter(store *expirestore.Store, maxAttempts int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		store:       store,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (r *RateLimiter) KeyValue(key string) string {
	return fmt.Sprintf("rate_limiter:%s", key)
}

// IsRateLimited records one attempt for key and reports whether the key had
// already used up its window.
func (r *RateLimiter) IsRateLimited(ctx context.Context, key string) (bool, error) {
	key = r.KeyValue(key)
	current, err := r.store.Lookup(ctx, key)
	if err != nil {
		return false, err
	}

	count := 0
	opts := expirestore.ExpiresIn(r.store, r.window)
	if rec, ok := current.Get(); ok {
		if err := rec.Scan(&count); err != nil {
			return false, err
		}
		// keep the window the first attempt opened
		if ms, ok := rec.ExpiresAt.Get(); ok {
			opts = expirestore.Options{expirestore.ExpiresKey: ms}
		}
	}
	if count >= r.maxAttempts {
		return true, nil
	}
	return false, r.store.Set(ctx, key, count+1, opts)
}
