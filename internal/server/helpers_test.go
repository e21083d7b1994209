package server

import (
	"time"

	"go.uber.org/zap"

	"github.com/gigaxel/expirestore"
	"github.com/gigaxel/expirestore/backend/memory"
	"github.com/gigaxel/expirestore/internal/fakeclock"
)

func newTestStore() (*expirestore.Store, *memory.Store, *fakeclock.Clock) {
	backend := memory.New()
	clock := fakeclock.New(time.UnixMilli(1_700_000_000_000))
	return expirestore.New(backend, expirestore.WithClock(clock)), backend, clock
}

func testLogger() expirestore.Logger {
	return zap.NewNop().Sugar()
}
