package expirestore

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	values := []struct {
		name  string
		value any
	}{
		{name: "string", value: "value"},
		{name: "integer", value: 234},
		{name: "float", value: 2.5},
		{name: "bool", value: true},
		{name: "null", value: nil},
		{name: "array", value: []any{"foo", "bar", 89}},
		{name: "nested object", value: map[string]any{
			"string": "test",
			"number": 234,
			"array":  []any{"foo", map[string]any{"deep": []int{1, 2}}},
		}},
		{name: "raw json", value: json.RawMessage(`{"a":[1,2,3]}`)},
	}
	expiries := []mo.Option[int64]{
		mo.None[int64](),
		mo.Some[int64](0),
		mo.Some[int64](1_700_000_000_500),
	}

	for _, v := range values {
		for _, exp := range expiries {
			t.Run(v.name, func(t *testing.T) {
				raw, err := Encode(exp, v.value)
				require.NoError(t, err)

				rec, err := Decode(raw)
				require.NoError(t, err)
				require.Equal(t, exp, rec.ExpiresAt)

				want, err := json.Marshal(v.value)
				require.NoError(t, err)
				require.JSONEq(t, string(want), string(rec.Value))
			})
		}
	}
}

func TestEncode_WireFormat(t *testing.T) {
	raw, err := Encode(mo.Some[int64](1500), "value")
	require.NoError(t, err)
	require.Equal(t, `[1500,"value"]`, raw)

	raw, err = Encode(mo.None[int64](), map[string]int{"a": 1})
	require.NoError(t, err)
	require.Equal(t, `[null,{"a":1}]`, raw)
}

func TestEncode_UnsupportedValue(t *testing.T) {
	_, err := Encode(mo.None[int64](), make(chan int))
	require.Error(t, err)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "plain text", raw: "value"},
		{name: "null", raw: "null"},
		{name: "object", raw: `{"expires":1,"value":"v"}`},
		{name: "empty array", raw: "[]"},
		{name: "one element", raw: "[1]"},
		{name: "three elements", raw: `[1,"v",2]`},
		{name: "string expiry", raw: `["soon","v"]`},
		{name: "fractional expiry", raw: `[1.5,"v"]`},
		{name: "trailing data", raw: `[1,"v"] [2,"w"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			if !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("Decode(%q) error = %v, want ErrMalformedRecord", tt.raw, err)
			}
		})
	}
}

func TestRecord_Expiry(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)
	rec := Record{ExpiresAt: mo.Some(at.UnixMilli())}

	require.False(t, rec.Expired(at.Add(-time.Millisecond)))
	require.True(t, rec.Expired(at))
	require.True(t, rec.Expired(at.Add(time.Hour)))
	require.Equal(t, at, rec.Expiry().MustGet())
	require.Equal(t, 3*time.Second, rec.TTL(at.Add(-3*time.Second)).MustGet())
	require.Equal(t, time.Duration(0), rec.TTL(at.Add(time.Second)).MustGet())

	forever := Record{ExpiresAt: mo.None[int64]()}
	require.False(t, forever.Expired(at.Add(100*365*24*time.Hour)))
	require.True(t, forever.Expiry().IsAbsent())
	require.True(t, forever.TTL(at).IsAbsent())
}
