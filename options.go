package expirestore

import (
	"encoding/json"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/mo"
)

// ExpiresKey is the Options key holding the absolute expiration time in epoch
// milliseconds.
const ExpiresKey = "expires"

// Options is passed to Store.Set and forwarded unchanged to Backend.Set.
// Only ExpiresKey is read by the store; any other key is left for the backend.
type Options map[string]any

// ExpiresAt returns Options that expire at t.
func ExpiresAt(t time.Time) Options {
	return Options{ExpiresKey: t.UnixMilli()}
}

// ExpiresIn returns Options that expire d after the clock's current time.
func ExpiresIn(c Clock, d time.Duration) Options {
	return ExpiresAt(c.Now().Add(d))
}

// With sets key to v and returns the receiver, allocating it when nil.
func (o Options) With(key string, v any) Options {
	if o == nil {
		o = make(Options, 1)
	}
	o[key] = v
	return o
}

// Expires reads the expiration timestamp. A missing or nil value means the
// record never expires.
func (o Options) Expires() (mo.Option[int64], error) {
	v, ok := o[ExpiresKey]
	if !ok || v == nil {
		return mo.None[int64](), nil
	}

	var ms int64
	switch e := v.(type) {
	case int:
		ms = int64(e)
	case int64:
		ms = e
	case float64:
		if e != math.Trunc(e) || math.IsInf(e, 0) || math.IsNaN(e) {
			return mo.None[int64](), errors.Wrapf(ErrInvalidOptions, "expires %v is not an integer", e)
		}
		ms = int64(e)
	case json.Number:
		n, err := e.Int64()
		if err != nil {
			return mo.None[int64](), errors.Wrapf(ErrInvalidOptions, "expires %q: %v", e, err)
		}
		ms = n
	case time.Time:
		if e.IsZero() {
			return mo.None[int64](), nil
		}
		ms = e.UnixMilli()
	default:
		return mo.None[int64](), errors.Wrapf(ErrInvalidOptions, "expires has type %T", v)
	}

	if ms < 0 {
		return mo.None[int64](), errors.Wrapf(ErrInvalidOptions, "expires %d is negative", ms)
	}
	return mo.Some(ms), nil
}
