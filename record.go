package expirestore

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/mo"
)

// Record is a decoded stored value: the raw JSON of the value and the epoch
// millisecond timestamp at which it expires, if any.
type Record struct {
	ExpiresAt mo.Option[int64]
	Value     json.RawMessage
}

// Expired reports whether the record is stale at now. A record is live while
// now is strictly before ExpiresAt.
func (r Record) Expired(now time.Time) bool {
	ms, ok := r.ExpiresAt.Get()
	if !ok {
		return false
	}
	return now.UnixMilli() >= ms
}

// Expiry returns the expiration as a time.Time.
func (r Record) Expiry() mo.Option[time.Time] {
	ms, ok := r.ExpiresAt.Get()
	if !ok {
		return mo.None[time.Time]()
	}
	return mo.Some(time.UnixMilli(ms))
}

// TTL returns the time left before expiration, never negative.
func (r Record) TTL(now time.Time) mo.Option[time.Duration] {
	at, ok := r.Expiry().Get()
	if !ok {
		return mo.None[time.Duration]()
	}
	if d := at.Sub(now); d > 0 {
		return mo.Some(d)
	}
	return mo.Some(time.Duration(0))
}

// Scan unmarshals the value into dst.
func (r Record) Scan(dst any) error {
	return errors.Wrap(json.Unmarshal(r.Value, dst), "scan record value")
}

// Encode serializes the pair [expiresAt, value] as a JSON array, with null
// standing for a record that never expires.
func Encode(expiresAt mo.Option[int64], value any) (string, error) {
	var exp any
	if ms, ok := expiresAt.Get(); ok {
		exp = ms
	}
	b, err := json.Marshal([2]any{exp, value})
	if err != nil {
		return "", errors.Wrap(err, "encode record")
	}
	return string(b), nil
}

var null = []byte("null")

// Decode parses a string produced by Encode. Anything else yields an error
// wrapping ErrMalformedRecord.
func Decode(raw string) (Record, error) {
	var pair []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &pair); err != nil {
		return Record{}, errors.Wrapf(ErrMalformedRecord, "not a json array: %v", err)
	}
	if len(pair) != 2 {
		return Record{}, errors.Wrapf(ErrMalformedRecord, "want 2 elements, got %d", len(pair))
	}

	rec := Record{ExpiresAt: mo.None[int64](), Value: pair[1]}
	if !bytes.Equal(bytes.TrimSpace(pair[0]), null) {
		var ms int64
		if err := json.Unmarshal(pair[0], &ms); err != nil {
			return Record{}, errors.Wrapf(ErrMalformedRecord, "expiresAt %s is not an integer", pair[0])
		}
		rec.ExpiresAt = mo.Some(ms)
	}
	return rec, nil
}
