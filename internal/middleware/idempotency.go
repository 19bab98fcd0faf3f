package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
)

// IdempotencyHeader is the request header carrying the client's key
const IdempotencyHeader = "Idempotency-Key"

// ErrIdempotencyInFlight is returned by a store when another request holds the key
var ErrIdempotencyInFlight = errors.New("idempotent request still in flight")

// fingerprintSpace namespaces the name-based UUIDs used as store keys
var fingerprintSpace = uuid.MustParse("5c0e4a8e-4f7b-4d2a-9a51-6f1d3c0b7e21")

// CachedResponse is a stored response replayed for a repeated key
type CachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// IdempotencyStore records the first response for each fingerprint.
//
// Reserve either claims the fingerprint for the caller (reserved == true) or
// returns the response recorded by an earlier request. A claimed fingerprint
// must be finished with Complete or Release.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (cached *CachedResponse, reserved bool, err error)
	Complete(ctx context.Context, key string, resp *CachedResponse) error
	Release(ctx context.Context, key string) error
}

// MemoryIdempotencyStore keeps idempotency results in process memory
type MemoryIdempotencyStore struct {
	mu       sync.Mutex
	entries  map[string]*idempotencyEntry
	ttl      time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

type idempotencyEntry struct {
	resp      *CachedResponse
	expiresAt time.Time
	inFlight  bool
	done      chan struct{}
}

// IdempotencyConfig holds configuration for the in-memory store
type IdempotencyConfig struct {
	TTL     time.Duration // How long to keep idempotency results (default 24h)
	Cleanup time.Duration // Cleanup interval (default 1h)
}

// NewMemoryIdempotencyStore creates a new in-memory idempotency store
func NewMemoryIdempotencyStore(cfg IdempotencyConfig) *MemoryIdempotencyStore {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = time.Hour
	}

	store := &MemoryIdempotencyStore{
		entries:  make(map[string]*idempotencyEntry),
		ttl:      cfg.TTL,
		stopChan: make(chan struct{}),
	}

	go store.cleanupLoop(cfg.Cleanup)

	return store
}

// Stop stops the cleanup goroutine
func (s *MemoryIdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *MemoryIdempotencyStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

func (s *MemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, entry := range s.entries {
		if !entry.inFlight && entry.expiresAt.Before(now) {
			delete(s.entries, key)
		}
	}
}

// Reserve claims key, or waits for an in-flight holder and returns its response
func (s *MemoryIdempotencyStore) Reserve(ctx context.Context, key string) (*CachedResponse, bool, error) {
	for {
		s.mu.Lock()
		entry, exists := s.entries[key]
		switch {
		case !exists || (!entry.inFlight && entry.expiresAt.Before(time.Now())):
			s.entries[key] = &idempotencyEntry{inFlight: true, done: make(chan struct{})}
			s.mu.Unlock()
			return nil, true, nil
		case !entry.inFlight:
			s.mu.Unlock()
			return entry.resp, false, nil
		}
		done := entry.done
		s.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
}

// Complete stores resp for key and wakes waiting requests
func (s *MemoryIdempotencyStore) Complete(_ context.Context, key string, resp *CachedResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || !entry.inFlight {
		return nil
	}
	entry.resp = resp
	entry.expiresAt = time.Now().Add(s.ttl)
	entry.inFlight = false
	close(entry.done)
	return nil
}

// Release drops a reservation so the key can be used again
func (s *MemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || !entry.inFlight {
		return nil
	}
	delete(s.entries, key)
	close(entry.done)
	return nil
}

// fingerprint derives the store key from the client, the caller's key and
// the request itself, so a reused key with a different body is a new request.
func fingerprint(client, idempotencyKey, method, path string, body []byte) string {
	var b bytes.Buffer
	for _, part := range []string{client, idempotencyKey, method, path} {
		b.WriteString(part)
		b.WriteByte(0)
	}
	b.Write(body)
	return uuid.NewSHA1(fingerprintSpace, b.Bytes()).String()
}

// idempotencyResponseWriter captures the response for caching
type idempotencyResponseWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *idempotencyResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *idempotencyResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// handlerHeaders returns the headers added after outer was captured. Headers
// set by outer middleware belong to one request and are not recorded.
func handlerHeaders(all, outer http.Header) http.Header {
	recorded := make(http.Header)
	for k, v := range all {
		if _, set := outer[k]; !set {
			recorded[k] = append([]string(nil), v...)
		}
	}
	return recorded
}

func replay(w http.ResponseWriter, resp *CachedResponse) {
	for k, v := range resp.Header {
		if _, set := w.Header()[k]; set {
			continue
		}
		for _, val := range v {
			w.Header().Add(k, val)
		}
	}
	w.Header().Set("X-Idempotency-Replayed", "true")
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

// Idempotency returns middleware that replays the first response for POST
// and PATCH requests carrying an Idempotency-Key header. Server errors are
// not recorded so the client can retry them.
func Idempotency(store IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := r.Header.Get(IdempotencyHeader)
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, model.MaxBodyBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					model.NewBadRequestError(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)).WriteJSON(w)
					return
				}
				model.NewBadRequestError("unreadable request body").WriteJSON(w)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			ctx := r.Context()
			key := fingerprint(clientKey(r), idempotencyKey, r.Method, r.URL.Path, body)

			cached, reserved, err := store.Reserve(ctx, key)
			switch {
			case errors.Is(err, ErrIdempotencyInFlight):
				model.NewConflictError("a request with this Idempotency-Key is still being processed").WriteJSON(w)
				return
			case err != nil:
				// Serve the request without replay protection.
				slog.WarnContext(ctx, "idempotency store unavailable",
					slog.String("request_id", GetRequestID(ctx)),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			case !reserved:
				replay(w, cached)
				return
			}

			outer := w.Header().Clone()
			irw := &idempotencyResponseWriter{ResponseWriter: w, status: http.StatusOK}
			completed := false
			defer func() {
				if !completed {
					_ = store.Release(context.WithoutCancel(ctx), key)
				}
			}()

			next.ServeHTTP(irw, r)

			if irw.status >= http.StatusInternalServerError {
				return
			}
			resp := &CachedResponse{
				Status: irw.status,
				Header: handlerHeaders(irw.Header(), outer),
				Body:   irw.body.Bytes(),
			}
			if err := store.Complete(context.WithoutCancel(ctx), key, resp); err != nil {
				slog.WarnContext(ctx, "failed to record idempotent response",
					slog.String("request_id", GetRequestID(ctx)),
					slog.String("error", err.Error()),
				)
				return
			}
			completed = true
		})
	}
}
