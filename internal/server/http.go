package server

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gigaxel/expirestore"
)

const maxValueSize = 1024 * 1000 // 1MB

type HTTPServer struct {
	logger  expirestore.Logger
	store   *expirestore.Store
	limiter *RateLimiter
}

// NewHTTPServer serves store over HTTP. limiter may be nil to disable rate
// limiting.
func NewHTTPServer(logger expirestore.Logger, store *expirestore.Store, limiter *RateLimiter) *HTTPServer {
	return &HTTPServer{logger: logger, store: store, limiter: limiter}
}

type rawRecord struct {
	ExpiresAt *int64          `json:"expiresAt"`
	Value     json.RawMessage `json:"value"`
}

func writeStatus(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	w.Write([]byte(msg))
}

func writeInternalError(w http.ResponseWriter) {
	writeStatus(w, http.StatusInternalServerError, "500 - Something bad happened!")
}

func (h *HTTPServer) handleKV(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/v1/kv/")
	if key == "" {
		writeStatus(w, http.StatusBadRequest, "400 - Missing key")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, key)
	case http.MethodPut:
		h.put(w, r, key, http.StatusNoContent)
	case http.MethodDelete:
		if err := h.store.Remove(r.Context(), key); err != nil {
			h.logger.Errorw("failed to remove key", "key", key, "error", err)
			writeInternalError(w)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeStatus(w, http.StatusMethodNotAllowed, "405 - Method Not Allowed")
	}
}

func (h *HTTPServer) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeStatus(w, http.StatusMethodNotAllowed, "405 - Method Not Allowed")
		return
	}
	h.put(w, r, genKey(), http.StatusCreated)
}

func (h *HTTPServer) handleRaw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeStatus(w, http.StatusMethodNotAllowed, "405 - Method Not Allowed")
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/v1/raw/")
	rec, ok := h.lookup(w, r, key)
	if !ok {
		return
	}

	out := rawRecord{Value: rec.Value}
	if ms, ok := rec.ExpiresAt.Get(); ok {
		out.ExpiresAt = &ms
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.logger.Errorw("failed to write response", "key", key, "error", err)
	}
}

func (h *HTTPServer) get(w http.ResponseWriter, r *http.Request, key string) {
	rec, ok := h.lookup(w, r, key)
	if !ok {
		return
	}
	if ms, ok := rec.ExpiresAt.Get(); ok {
		w.Header().Set("X-Expires-At", strconv.FormatInt(ms, 10))
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(rec.Value)
}

// lookup writes the error response itself and returns false when there is no
// live record for key.
func (h *HTTPServer) lookup(w http.ResponseWriter, r *http.Request, key string) (expirestore.Record, bool) {
	res, err := h.store.Lookup(r.Context(), key)
	if err != nil {
		h.logger.Errorw("failed to get key from store", "key", key, "error", err)
		writeInternalError(w)
		return expirestore.Record{}, false
	}
	rec, ok := res.Get()
	if !ok {
		h.logger.Infow("key not found", "key", key)
		writeStatus(w, http.StatusNotFound, "404 - Not Found")
		return expirestore.Record{}, false
	}
	h.logger.Debugw("fetched record from store", "key", key)
	return rec, true
}

func (h *HTTPServer) put(w http.ResponseWriter, r *http.Request, key string, status int) {
	opts, err := h.parseOptions(r.URL.Query())
	if err != nil {
		writeStatus(w, http.StatusBadRequest, "400 - "+err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxValueSize))
	if err != nil {
		writeStatus(w, http.StatusRequestEntityTooLarge, "413 - Value too large")
		return
	}
	if !json.Valid(body) {
		writeStatus(w, http.StatusBadRequest, "400 - Body is not valid JSON")
		return
	}

	err = h.store.Set(r.Context(), key, json.RawMessage(body), opts)
	switch {
	case errors.Is(err, expirestore.ErrInvalidOptions):
		writeStatus(w, http.StatusBadRequest, "400 - "+err.Error())
		return
	case err != nil:
		h.logger.Errorw("failed to write to store", "key", key, "error", err)
		writeInternalError(w)
		return
	}
	h.logger.Debugw("wrote record", "key", key, "bytes", len(body))

	if status == http.StatusCreated {
		w.Header().Set("Location", "/v1/kv/"+key)
		writeStatus(w, status, key)
		return
	}
	w.WriteHeader(status)
}

// parseOptions reads the expiration from either an absolute "expires" epoch
// millisecond timestamp or a relative "ttl" duration.
func (h *HTTPServer) parseOptions(q url.Values) (expirestore.Options, error) {
	if v := q.Get("expires"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.New("expires must be epoch milliseconds")
		}
		return expirestore.Options{expirestore.ExpiresKey: ms}, nil
	}
	if v := q.Get("ttl"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, errors.New("ttl must be a positive duration")
		}
		return expirestore.ExpiresIn(h.store, d), nil
	}
	return nil, nil
}

func (h *HTTPServer) rateLimit(next http.HandlerFunc) http.HandlerFunc {
	if h.limiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		client, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			client = r.RemoteAddr
		}
		limited, err := h.limiter.IsRateLimited(r.Context(), client)
		if err != nil {
			h.logger.Errorw("failed to check rate limit", "client", client, "error", err)
			writeInternalError(w)
			return
		}
		if limited {
			writeStatus(w, http.StatusTooManyRequests, "429 - Too Many Requests")
			return
		}
		next(w, r)
	}
}

func (h *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/kv", h.rateLimit(h.handleCreate))
	mux.HandleFunc("/v1/kv/", h.rateLimit(h.handleKV))
	mux.HandleFunc("/v1/raw/", h.rateLimit(h.handleRaw))
	return mux
}

func (h *HTTPServer) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, h.Handler())
}

func genKey() string {
	id := uuid.New()
	h := sha1.New()
	h.Write([]byte(id.String()))
	return hex.EncodeToString(h.Sum(nil))[:7]
}
