package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gliderlabs/ssh"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gigaxel/expirestore"
	"github.com/gigaxel/expirestore/backend/filestore"
	"github.com/gigaxel/expirestore/backend/memory"
	"github.com/gigaxel/expirestore/backend/mongostore"
	"github.com/gigaxel/expirestore/backend/redisstore"
	"github.com/gigaxel/expirestore/internal/server"
)

func main() {
	env := os.Getenv("ENV")
	envErr := godotenv.Load(GetEnvFileOrPanic(env))
	logger, err := expirestore.NewLogger(IsDev())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	if envErr != nil {
		logger.Fatalw("error loading .env file", "error", envErr)
	}

	logger.Debug("running in debug mode")

	backend, closeBackend, err := newBackend(logger)
	if err != nil {
		logger.Fatalw("failed to set up backend", "backend", GetBackend(), "error", err)
	}
	defer closeBackend()

	store := expirestore.New(backend, expirestore.WithLogger(logger.Named("store")))

	var limiter *server.RateLimiter
	if n := GetRateLimit(); n > 0 {
		limiter = server.NewRateLimiter(store, n, server.RateLimiterWindow)
	}
	httpServer := server.NewHTTPServer(logger.Named("http"), store, limiter)

	if port := GetSSHPort(); port != "" {
		go func() {
			hostKey := ssh.HostKeyFile(GetHostKeyFileOrPanic())
			sshServer := server.NewSSHServer(logger.Named("ssh"), store, server.MaxAttempts)
			addr := fmt.Sprintf(":%s", port)
			logger.Infow("starting ssh server", "addr", addr)
			if err := sshServer.ListenAndServe(addr, hostKey); err != nil {
				logger.Errorw("failed to start ssh server", "error", err)
			}
		}()
	}

	addr := fmt.Sprintf(":%s", GetHTTPPortOrPanic())
	logger.Infow("starting http server", "addr", addr, "backend", GetBackend())
	if err := httpServer.ListenAndServe(addr); err != nil {
		logger.Errorw("failed to start http server", "error", err)
	}
}

func newBackend(logger *zap.SugaredLogger) (expirestore.Backend, func(), error) {
	ctx := context.Background()
	switch GetBackend() {
	case "memory":
		return memory.New(), func() {}, nil
	case "redis":
		redisStore := redisstore.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", GetRedisHostOrPanic(), GetRedisPortOrPanic()),
			Password: GetRedisPassword(),
			DB:       GetRedisDBOrPanic(),
		}))
		if err := redisStore.Ping(ctx); err != nil {
			return nil, nil, err
		}
		return redisStore, func() { redisStore.Close() }, nil
	case "file":
		fileStore, err := filestore.New(GetDataDirOrPanic())
		if err != nil {
			return nil, nil, err
		}
		return fileStore, func() {}, nil
	case "mongo":
		mongoStore, client, err := mongostore.Connect(ctx, GetMongoURIOrPanic(), GetMongoDBOrPanic(), GetMongoCollection())
		if err != nil {
			return nil, nil, err
		}
		if err := mongoStore.EnsureTTLIndex(ctx); err != nil {
			logger.Warnw("failed to create ttl index", "error", err)
		}
		return mongoStore, func() { client.Disconnect(context.Background()) }, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", GetBackend())
}
