package server

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func run(s *SSHServer, stdin string, args ...string) (int, string) {
	var out bytes.Buffer
	code := s.Run(context.Background(), args, strings.NewReader(stdin), &out)
	return code, out.String()
}

func TestSSHServer_Run(t *testing.T) {
	store, _, clock := newTestStore()
	s := NewSSHServer(testLogger(), store, MaxAttempts)

	code, out := run(s, "fmt.Println(\"hi\")\n", "set", "snippet", "10m")
	require.Equal(t, 0, code)
	require.Equal(t, "stored snippet\n", out)

	code, out = run(s, "", "get", "snippet")
	require.Equal(t, 0, code)
	require.Equal(t, "fmt.Println(\"hi\")\n", out)

	code, out = run(s, "", "ttl", "snippet")
	require.Equal(t, 0, code)
	require.Equal(t, "10m0s\n", out)

	clock.Advance(10 * time.Minute)
	code, out = run(s, "", "get", "snippet")
	require.Equal(t, 1, code)
	require.Contains(t, out, "snippet not found")
}

func TestSSHServer_RunNoExpiry(t *testing.T) {
	store, backend, _ := newTestStore()
	s := NewSSHServer(testLogger(), store, MaxAttempts)

	code, _ := run(s, "value", "set", "k")
	require.Equal(t, 0, code)
	code, out := run(s, "", "ttl", "k")
	require.Equal(t, 0, code)
	require.Equal(t, "never\n", out)

	code, _ = run(s, "", "del", "k")
	require.Equal(t, 0, code)
	require.Equal(t, 0, backend.Len())
}

func TestSSHServer_RunPrintsJSON(t *testing.T) {
	store, _, _ := newTestStore()
	s := NewSSHServer(testLogger(), store, MaxAttempts)
	require.NoError(t, store.Set(context.Background(), "obj", map[string]int{"a": 1}, nil))

	code, out := run(s, "", "get", "obj")
	require.Equal(t, 0, code)
	require.Equal(t, "{\"a\":1}\n", out)
}

func TestSSHServer_RunUsage(t *testing.T) {
	store, _, _ := newTestStore()
	s := NewSSHServer(testLogger(), store, MaxAttempts)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "no args", args: nil, want: 2},
		{name: "unknown command", args: []string{"push", "k"}, want: 2},
		{name: "missing key", args: []string{"get"}, want: 2},
		{name: "extra args", args: []string{"get", "k", "x"}, want: 2},
		{name: "bad ttl", args: []string{"set", "k", "soon"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := run(s, "", tt.args...); got != tt.want {
				t.Errorf("Run() = %d, want %d", got, tt.want)
			}
		})
	}
}
