// Package expirestore adds absolute expiration timestamps to any key-value
// Backend. The expiration is encoded into the stored string together with the
// value and enforced lazily: a read that finds a stale record deletes it and
// reports the key as missing.
package expirestore

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/samber/mo"
)

// Backend is the storage the Store writes encoded records to.
type Backend interface {
	// Get returns the raw value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores raw under key, replacing any previous value. opts is the
	// Options given to Store.Set, unmodified.
	Set(ctx context.Context, key, raw string, opts Options) error
	// Unset deletes keys. Missing keys are ignored.
	Unset(ctx context.Context, keys ...string) error
}

type Store struct {
	backend Backend
	clock   Clock
	logger  Logger
}

type StoreOption func(*Store)

// WithClock sets the time source used for expiration checks.
func WithClock(c Clock) StoreOption {
	return func(s *Store) {
		s.clock = c
	}
}

func WithLogger(l Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// New returns a Store writing to backend. It panics if backend is nil.
func New(backend Backend, opts ...StoreOption) *Store {
	if backend == nil {
		panic("expirestore: nil backend")
	}
	s := &Store{
		backend: backend,
		clock:   RealClock,
		logger:  nopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current time of the store's clock.
func (s *Store) Now() time.Time {
	return s.clock.Now()
}

// Decode parses a raw backend value. See Decode.
func (s *Store) Decode(raw string) (Record, error) {
	return Decode(raw)
}

// Set stores value under key. If opts carries ExpiresKey the value stops being
// readable once that time is reached; otherwise it never expires.
func (s *Store) Set(ctx context.Context, key string, value any, opts Options) error {
	if key == "" {
		return ErrEmptyKey
	}
	expiresAt, err := opts.Expires()
	if err != nil {
		return err
	}
	raw, err := Encode(expiresAt, value)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, key, raw, opts); err != nil {
		return pkgerrors.Wrapf(err, "set %q", key)
	}
	return nil
}

// Lookup returns the live record stored under key. A missing key and an
// expired record both yield None; the expired record is removed from the
// backend first.
func (s *Store) Lookup(ctx context.Context, key string) (mo.Option[Record], error) {
	raw, err := s.backend.Get(ctx, key)
	switch {
	case errors.Is(err, ErrKeyNotFound):
		return mo.None[Record](), nil
	case err != nil:
		return mo.None[Record](), pkgerrors.Wrapf(err, "get %q", key)
	}

	rec, err := Decode(raw)
	if err != nil {
		s.logger.Warnw("malformed record", "key", key, "error", err)
		return mo.None[Record](), pkgerrors.Wrapf(err, "get %q", key)
	}

	now := s.clock.Now()
	if !rec.Expired(now) {
		return mo.Some(rec), nil
	}

	s.logger.Debugw("removing expired record", "key", key, "expiresAt", rec.ExpiresAt.OrEmpty(), "now", now.UnixMilli())
	if err := s.backend.Unset(ctx, key); err != nil {
		return mo.None[Record](), pkgerrors.Wrapf(err, "unset expired %q", key)
	}
	return mo.None[Record](), nil
}

// Get unmarshals the live value stored under key into dst and reports whether
// one was found.
func (s *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	rec, err := s.Lookup(ctx, key)
	if err != nil {
		return false, err
	}
	r, ok := rec.Get()
	if !ok {
		return false, nil
	}
	if err := r.Scan(dst); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes keys from the backend.
func (s *Store) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return pkgerrors.Wrap(s.backend.Unset(ctx, keys...), "remove")
}

// GetValue is Get for a known value type.
func GetValue[T any](ctx context.Context, s *Store, key string) (mo.Option[T], error) {
	var v T
	ok, err := s.Get(ctx, key, &v)
	if err != nil || !ok {
		return mo.None[T](), err
	}
	return mo.Some(v), nil
}
