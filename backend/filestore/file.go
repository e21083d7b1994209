// Package filestore is an expirestore.Backend keeping one file per key in a
// directory.
package filestore

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/gigaxel/expirestore"
)

// ModeKey is the Options key overriding the permissions of the written file.
// Its value must be an os.FileMode.
const ModeKey = "file.mode"

const defaultMode os.FileMode = 0o600

var _ expirestore.Backend = (*Store)(nil)

type Store struct {
	dir string
}

// New returns a Store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	return &Store{dir: dir}, nil
}

// path maps a key to a file name that is safe on any filesystem.
func (s *Store) path(key string) string {
	h := sha1.New()
	h.Write([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(h.Sum(nil)))
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", expirestore.ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Store) Set(_ context.Context, key, raw string, opts expirestore.Options) error {
	mode := defaultMode
	if v, ok := opts[ModeKey]; ok {
		m, ok := v.(os.FileMode)
		if !ok {
			return errors.Wrapf(expirestore.ErrInvalidOptions, "%s has type %T", ModeKey, v)
		}
		mode = m
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}

func (s *Store) Unset(_ context.Context, keys ...string) error {
	for _, key := range keys {
		err := os.Remove(s.path(key))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
