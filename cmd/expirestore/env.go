package main

import (
	"os"
	"strconv"
)

func GetEnvFileOrPanic(env string) string {
	switch env {
	case "prod":
		return ".env"
	case "dev", "":
		return ".env.dev"
	}
	panic("invalid env")
}

func IsDev() bool {
	return os.Getenv("ENV") == "dev" || os.Getenv("ENV") == ""
}

// GetBackend returns BACKEND, defaulting to memory.
func GetBackend() string {
	backend := os.Getenv("BACKEND")
	if backend == "" {
		return "memory"
	}
	return backend
}

func GetRedisHostOrPanic() string {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		panic("REDIS_HOST is not set")
	}
	return host
}

func GetRedisPortOrPanic() string {
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		panic("REDIS_PORT is not set")
	}
	return port
}

func GetRedisPassword() string {
	password := os.Getenv("REDIS_PASSWORD")
	return password
}

func GetRedisDBOrPanic() int {
	db := os.Getenv("REDIS_DB")
	if db == "" {
		panic("REDIS_DB is not set")
	}
	dbInt, err := strconv.Atoi(db)
	if err != nil {
		panic("REDIS_DB is not a valid integer")
	}
	return dbInt
}

func GetMongoURIOrPanic() string {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		panic("MONGO_URI is not set")
	}
	return uri
}

func GetMongoDBOrPanic() string {
	db := os.Getenv("MONGO_DB")
	if db == "" {
		panic("MONGO_DB is not set")
	}
	return db
}

func GetMongoCollection() string {
	return os.Getenv("MONGO_COLLECTION")
}

func GetDataDirOrPanic() string {
	dir := os.Getenv("DATA_DIR")
	if dir == "" {
		panic("DATA_DIR is not set")
	}
	return dir
}

func GetHostKeyFileOrPanic() string {
	key := os.Getenv("HOST_KEY_FILE")
	if key == "" {
		panic("HOST_KEY_FILE is not set")
	}
	return key
}

func GetHTTPPortOrPanic() string {
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		panic("HTTP_PORT is not set")
	}
	return port
}

// GetSSHPort returns SSH_PORT; an empty value disables the ssh server.
func GetSSHPort() string {
	return os.Getenv("SSH_PORT")
}

// GetRateLimit returns RATE_LIMIT, the number of requests a client may make per
// hour. Zero disables http rate limiting.
func GetRateLimit() int {
	limit := os.Getenv("RATE_LIMIT")
	if limit == "" {
		return 0
	}
	n, err := strconv.Atoi(limit)
	if err != nil || n < 0 {
		panic("RATE_LIMIT is not a valid integer")
	}
	return n
}
