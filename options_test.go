package expirestore

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/require"
)

func TestOptions_Expires(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_500)

	tests := []struct {
		name    string
		opts    Options
		want    mo.Option[int64]
		invalid bool
	}{
		{name: "nil options", opts: nil, want: mo.None[int64]()},
		{name: "no expires", opts: Options{"path": "/"}, want: mo.None[int64]()},
		{name: "nil expires", opts: Options{ExpiresKey: nil}, want: mo.None[int64]()},
		{name: "int", opts: Options{ExpiresKey: 1500}, want: mo.Some[int64](1500)},
		{name: "int64", opts: Options{ExpiresKey: int64(1500)}, want: mo.Some[int64](1500)},
		{name: "integral float", opts: Options{ExpiresKey: 1500.0}, want: mo.Some[int64](1500)},
		{name: "json number", opts: Options{ExpiresKey: json.Number("1500")}, want: mo.Some[int64](1500)},
		{name: "time", opts: Options{ExpiresKey: at}, want: mo.Some(at.UnixMilli())},
		{name: "zero time", opts: Options{ExpiresKey: time.Time{}}, want: mo.None[int64]()},
		{name: "helper", opts: ExpiresAt(at), want: mo.Some(at.UnixMilli())},
		{name: "string", opts: Options{ExpiresKey: "1500"}, invalid: true},
		{name: "duration", opts: Options{ExpiresKey: time.Minute}, invalid: true},
		{name: "fractional float", opts: Options{ExpiresKey: 1500.5}, invalid: true},
		{name: "infinite float", opts: Options{ExpiresKey: math.Inf(1)}, invalid: true},
		{name: "bad json number", opts: Options{ExpiresKey: json.Number("1.5")}, invalid: true},
		{name: "negative", opts: Options{ExpiresKey: -1}, invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.opts.Expires()
			if tt.invalid {
				if !errors.Is(err, ErrInvalidOptions) {
					t.Errorf("Expires() error = %v, want ErrInvalidOptions", err)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestOptions_With(t *testing.T) {
	var opts Options
	opts = opts.With("path", "/").With(ExpiresKey, 10)
	require.Equal(t, Options{"path": "/", ExpiresKey: 10}, opts)
}

func TestExpiresIn(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	clock := ClockFunc(func() time.Time { return now })
	require.Equal(t, Options{ExpiresKey: now.UnixMilli() + 500}, ExpiresIn(clock, 500*time.Millisecond))
}
