package expirestore

import "github.com/pkg/errors"

var (
	// ErrKeyNotFound is returned by a Backend when no value is stored for a key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrMalformedRecord is returned when a raw value is not an encoded record.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrInvalidOptions is returned when Options.expires is not a timestamp.
	ErrInvalidOptions = errors.New("invalid options")
	ErrEmptyKey       = errors.New("empty key")
)
