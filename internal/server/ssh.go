package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gliderlabs/ssh"

	"github.com/gigaxel/expirestore"
)

const usage = `usage:
  set <key> [ttl]   store stdin under key, optionally expiring after ttl (e.g. 10m)
  get <key>         print the value stored under key
  del <key>         delete key
  ttl <key>         print the time left before key expires
`

type SSHServer struct {
	logger    expirestore.Logger
	store     *expirestore.Store
	rateLimit int
}

func NewSSHServer(logger expirestore.Logger, store *expirestore.Store, rateLimit int) *SSHServer {
	return &SSHServer{logger: logger, store: store, rateLimit: rateLimit}
}

func (s *SSHServer) HandleSession(sess ssh.Session) {
	code := s.Run(sess.Context(), sess.Command(), sess, sess)
	if err := sess.Exit(code); err != nil {
		s.logger.Errorw("failed to close ssh session", "error", err)
	}
}

// Run executes one command and returns the process exit code.
func (s *SSHServer) Run(ctx context.Context, args []string, in io.Reader, out io.Writer) int {
	if len(args) != 2 && !(len(args) == 3 && ParseCmd(args[0]) == CmdSet) {
		io.WriteString(out, usage)
		return 2
	}
	key := args[1]

	var err error
	switch ParseCmd(args[0]) {
	case CmdSet:
		err = s.set(ctx, key, args[2:], in, out)
	case CmdGet:
		err = s.get(ctx, key, out)
	case CmdDel:
		err = s.store.Remove(ctx, key)
	case CmdTTL:
		err = s.ttl(ctx, key, out)
	default:
		io.WriteString(out, usage)
		return 2
	}
	if err != nil {
		s.logger.Errorw("ssh command failed", "command", args[0], "key", key, "error", err)
		fmt.Fprintf(out, "error: %v\n", err)
		return 1
	}
	return 0
}

func (s *SSHServer) set(ctx context.Context, key string, args []string, in io.Reader, out io.Writer) error {
	var opts expirestore.Options
	if len(args) == 1 {
		d, err := time.ParseDuration(args[0])
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid ttl %q", args[0])
		}
		opts = expirestore.ExpiresIn(s.store, d)
	}

	buf, err := io.ReadAll(io.LimitReader(in, maxValueSize))
	if err != nil {
		return err
	}
	s.logger.Debugw("writing to store", "key", key, "bytes", len(buf))
	if err := s.store.Set(ctx, key, string(buf), opts); err != nil {
		return err
	}
	fmt.Fprintf(out, "stored %s\n", key)
	return nil
}

func (s *SSHServer) get(ctx context.Context, key string, out io.Writer) error {
	res, err := s.store.Lookup(ctx, key)
	if err != nil {
		return err
	}
	rec, ok := res.Get()
	if !ok {
		return fmt.Errorf("%s not found", key)
	}
	// strings are printed as stored, anything else as JSON
	var str string
	if json.Unmarshal(rec.Value, &str) == nil {
		_, err = io.WriteString(out, str)
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", rec.Value)
	return err
}

func (s *SSHServer) ttl(ctx context.Context, key string, out io.Writer) error {
	res, err := s.store.Lookup(ctx, key)
	if err != nil {
		return err
	}
	rec, ok := res.Get()
	if !ok {
		return fmt.Errorf("%s not found", key)
	}
	if d, ok := rec.TTL(s.store.Now()).Get(); ok {
		fmt.Fprintf(out, "%s\n", d.Round(time.Millisecond))
		return nil
	}
	_, err = io.WriteString(out, "never\n")
	return err
}

func (s *SSHServer) ListenAndServe(addr string, options ...ssh.Option) error {
	return ssh.ListenAndServe(addr, SSHRateLimit(s.rateLimit, s.HandleSession), options...)
}
