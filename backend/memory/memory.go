// Package memory is an in-process expirestore.Backend.
package memory

import (
	"context"
	"sync"

	"github.com/gigaxel/expirestore"
)

var _ expirestore.Backend = (*Store)(nil)

type entry struct {
	raw  string
	opts expirestore.Options
}

type Store struct {
	entries map[string]entry
	lock    sync.RWMutex
}

func New() *Store {
	return &Store{
		entries: make(map[string]entry),
	}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return "", expirestore.ErrKeyNotFound
	}
	return e.raw, nil
}

func (s *Store) Set(_ context.Context, key, raw string, opts expirestore.Options) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.entries[key] = entry{raw: raw, opts: opts}
	return nil
}

func (s *Store) Unset(_ context.Context, keys ...string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

// Options returns the Options last passed to Set for key.
func (s *Store) Options(key string) (expirestore.Options, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	e, ok := s.entries[key]
	return e.opts, ok
}

func (s *Store) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.entries)
}
