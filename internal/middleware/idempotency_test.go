package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
)

// countingHandler answers with an insert acknowledgment and counts its calls
type countingHandler struct {
	calls  atomic.Int32
	status int
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.calls.Add(1)
	status := h.status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"acknowledged":true,"insertedId":"application:a1"}`))
}

func idempotentRequest(method, key, body string) *http.Request {
	req := httptest.NewRequest(method, "/apply-jobs", bytes.NewBufferString(body))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	req.RemoteAddr = "192.0.2.10:5555"
	return req
}

func newMemoryStore(t *testing.T, ttl time.Duration) *MemoryIdempotencyStore {
	t.Helper()
	store := NewMemoryIdempotencyStore(IdempotencyConfig{TTL: ttl, Cleanup: time.Hour})
	t.Cleanup(store.Stop)
	return store
}

// ============================================================================
// fingerprint Tests
// ============================================================================

func TestFingerprint(t *testing.T) {
	t.Parallel()

	base := fingerprint("192.0.2.10", "key-1", http.MethodPost, "/apply-jobs", []byte(`{"jobId":"job:a"}`))
	if base != fingerprint("192.0.2.10", "key-1", http.MethodPost, "/apply-jobs", []byte(`{"jobId":"job:a"}`)) {
		t.Error("same inputs should produce the same fingerprint")
	}

	variants := map[string]string{
		"client": fingerprint("192.0.2.11", "key-1", http.MethodPost, "/apply-jobs", []byte(`{"jobId":"job:a"}`)),
		"key":    fingerprint("192.0.2.10", "key-2", http.MethodPost, "/apply-jobs", []byte(`{"jobId":"job:a"}`)),
		"method": fingerprint("192.0.2.10", "key-1", http.MethodPatch, "/apply-jobs", []byte(`{"jobId":"job:a"}`)),
		"path":   fingerprint("192.0.2.10", "key-1", http.MethodPost, "/jobs", []byte(`{"jobId":"job:a"}`)),
		"body":   fingerprint("192.0.2.10", "key-1", http.MethodPost, "/apply-jobs", []byte(`{"jobId":"job:b"}`)),
		"joined": fingerprint("192.0.2.10key-1", "", http.MethodPost, "/apply-jobs", []byte(`{"jobId":"job:a"}`)),
	}
	for name, fp := range variants {
		if fp == base {
			t.Errorf("changing %s should change the fingerprint", name)
		}
	}
}

// ============================================================================
// Idempotency Middleware Tests
// ============================================================================

func TestIdempotency_PassThrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		key    string
	}{
		{"GET with key", http.MethodGet, "k"},
		{"DELETE with key", http.MethodDelete, "k"},
		{"POST without key", http.MethodPost, ""},
		{"PATCH without key", http.MethodPatch, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore(t, time.Hour)
			handler := &countingHandler{}
			mw := Idempotency(store)(handler)

			mw.ServeHTTP(httptest.NewRecorder(), idempotentRequest(tt.method, tt.key, `{}`))
			rr := httptest.NewRecorder()
			mw.ServeHTTP(rr, idempotentRequest(tt.method, tt.key, `{}`))

			if handler.calls.Load() != 2 {
				t.Errorf("expected handler called twice, got %d", handler.calls.Load())
			}
			if rr.Header().Get("X-Idempotency-Replayed") != "" {
				t.Error("request should not be replayed")
			}
		})
	}
}

func TestIdempotency_RepeatedKey_Replays(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t, time.Hour)
	handler := &countingHandler{}
	mw := Idempotency(store)(handler)

	first := httptest.NewRecorder()
	mw.ServeHTTP(first, idempotentRequest(http.MethodPost, "apply-1", `{"jobId":"job:a"}`))
	second := httptest.NewRecorder()
	mw.ServeHTTP(second, idempotentRequest(http.MethodPost, "apply-1", `{"jobId":"job:a"}`))

	if handler.calls.Load() != 1 {
		t.Errorf("expected handler called once, got %d", handler.calls.Load())
	}
	if second.Code != first.Code || second.Body.String() != first.Body.String() {
		t.Errorf("replay mismatch: %d %q vs %d %q", second.Code, second.Body.String(), first.Code, first.Body.String())
	}
	if second.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Error("expected X-Idempotency-Replayed header")
	}
	if second.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected recorded Content-Type, got %q", second.Header().Get("Content-Type"))
	}
}

func TestIdempotency_Replay_KeepsCurrentRequestHeaders(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t, time.Hour)
	handler := Chain(&countingHandler{}, RequestID, Idempotency(store))

	handler.ServeHTTP(httptest.NewRecorder(), idempotentRequest(http.MethodPost, "k", `{}`))
	rr := httptest.NewRecorder()
	req := idempotentRequest(http.MethodPost, "k", `{}`)
	req.Header.Set("X-Request-ID", "second-request")
	handler.ServeHTTP(rr, req)

	if ids := rr.Header().Values("X-Request-ID"); len(ids) != 1 || ids[0] != "second-request" {
		t.Errorf("expected only the current request id, got %v", ids)
	}
}

func TestIdempotency_ServerError_NotRecorded(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t, time.Hour)
	handler := &countingHandler{status: http.StatusServiceUnavailable}
	mw := Idempotency(store)(handler)

	mw.ServeHTTP(httptest.NewRecorder(), idempotentRequest(http.MethodPost, "k", `{}`))
	mw.ServeHTTP(httptest.NewRecorder(), idempotentRequest(http.MethodPost, "k", `{}`))

	if handler.calls.Load() != 2 {
		t.Errorf("expected a retry after a server error, got %d calls", handler.calls.Load())
	}
}

func TestIdempotency_ClientError_Recorded(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t, time.Hour)
	handler := &countingHandler{status: http.StatusUnprocessableEntity}
	mw := Idempotency(store)(handler)

	mw.ServeHTTP(httptest.NewRecorder(), idempotentRequest(http.MethodPost, "k", `{}`))
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, idempotentRequest(http.MethodPost, "k", `{}`))

	if handler.calls.Load() != 1 || rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected replayed 422, got %d calls and status %d", handler.calls.Load(), rr.Code)
	}
}

func TestIdempotency_Panic_ReleasesKey(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t, time.Hour)
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	Recovery(Idempotency(store)(panicking)).ServeHTTP(httptest.NewRecorder(), idempotentRequest(http.MethodPost, "k", `{}`))

	handler := &countingHandler{}
	Idempotency(store)(handler).ServeHTTP(httptest.NewRecorder(), idempotentRequest(http.MethodPost, "k", `{}`))
	if handler.calls.Load() != 1 {
		t.Error("key should be free again after a panic")
	}
}

func TestIdempotency_RestoresRequestBody(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t, time.Hour)
	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
	})

	Idempotency(store)(handler).ServeHTTP(httptest.NewRecorder(), idempotentRequest(http.MethodPatch, "k", `{"status":"accepted"}`))

	if got != `{"status":"accepted"}` {
		t.Errorf("handler saw body %q", got)
	}
}

func TestIdempotency_OversizedBody_Rejected(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t, time.Hour)
	next := &countingHandler{}
	body := &countingReader{r: io.LimitReader(zeroReader{}, 64<<20)}
	req := httptest.NewRequest(http.MethodPost, "/jobs", body)
	req.Header.Set(IdempotencyHeader, "k-large")

	rr := httptest.NewRecorder()
	Idempotency(store)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected problem+json, got %q", ct)
	}
	if next.calls.Load() != 0 {
		t.Error("handler must not run for an oversized body")
	}
	if n := body.n.Load(); n > model.MaxBodyBytes+32*1024 {
		t.Errorf("read %d bytes, expected reading to stop near %d", n, model.MaxBodyBytes)
	}
}

func TestIdempotency_BodyAtLimit_Served(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t, time.Hour)
	next := &countingHandler{}
	req := idempotentRequest(http.MethodPost, "k-limit", strings.Repeat("x", model.MaxBodyBytes))

	rr := httptest.NewRecorder()
	Idempotency(store)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if next.calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", next.calls.Load())
	}
}

// zeroReader yields zero bytes forever
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

// countingReader counts bytes pulled through it
type countingReader struct {
	r io.Reader
	n atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

func TestIdempotency_ExpiredEntry_ProcessesAgain(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t, 20*time.Millisecond)
	handler := &countingHandler{}
	mw := Idempotency(store)(handler)

	mw.ServeHTTP(httptest.NewRecorder(), idempotentRequest(http.MethodPost, "k", `{}`))
	time.Sleep(40 * time.Millisecond)
	mw.ServeHTTP(httptest.NewRecorder(), idempotentRequest(http.MethodPost, "k", `{}`))

	if handler.calls.Load() != 2 {
		t.Errorf("expected expired entry to be processed again, got %d calls", handler.calls.Load())
	}
}

func TestIdempotency_InFlight_SecondRequestWaits(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t, time.Hour)
	var calls atomic.Int32
	started := make(chan struct{})
	proceed := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		close(started)
		<-proceed
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	})
	mw := Idempotency(store)(handler)

	var wg sync.WaitGroup
	results := make([]*httptest.ResponseRecorder, 2)
	for i := range results {
		results[i] = httptest.NewRecorder()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		mw.ServeHTTP(results[0], idempotentRequest(http.MethodPost, "inflight", `{}`))
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		mw.ServeHTTP(results[1], idempotentRequest(http.MethodPost, "inflight", `{}`))
	}()

	time.Sleep(50 * time.Millisecond)
	close(proceed)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("expected handler called once, got %d", calls.Load())
	}
	if results[1].Header().Get("X-Idempotency-Replayed") != "true" {
		t.Error("second request should be a replay")
	}
	if results[0].Body.String() != results[1].Body.String() {
		t.Error("both requests should see the same body")
	}
}

// stubStore returns fixed Reserve results
type stubStore struct {
	reserveErr error
}

func (s *stubStore) Reserve(context.Context, string) (*CachedResponse, bool, error) {
	return nil, false, s.reserveErr
}
func (s *stubStore) Complete(context.Context, string, *CachedResponse) error { return nil }
func (s *stubStore) Release(context.Context, string) error                   { return nil }

func TestIdempotency_StoreReportsInFlight_Returns409(t *testing.T) {
	t.Parallel()

	handler := &countingHandler{}
	rr := httptest.NewRecorder()

	Idempotency(&stubStore{reserveErr: ErrIdempotencyInFlight})(handler).ServeHTTP(rr, idempotentRequest(http.MethodPost, "k", `{}`))

	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rr.Code)
	}
	if handler.calls.Load() != 0 {
		t.Error("handler should not run")
	}
}

func TestIdempotency_StoreDown_ServesRequest(t *testing.T) {
	t.Parallel()

	handler := &countingHandler{}
	rr := httptest.NewRecorder()

	Idempotency(&stubStore{reserveErr: errors.New("dial tcp: connection refused")})(handler).ServeHTTP(rr, idempotentRequest(http.MethodPost, "k", `{}`))

	if rr.Code != http.StatusOK || handler.calls.Load() != 1 {
		t.Errorf("expected request served without the store, got %d with %d calls", rr.Code, handler.calls.Load())
	}
}

// ============================================================================
// MemoryIdempotencyStore Tests
// ============================================================================

func TestMemoryIdempotencyStore_ReserveCompleteRelease(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t, time.Hour)
	ctx := context.Background()

	_, reserved, err := store.Reserve(ctx, "k")
	if err != nil || !reserved {
		t.Fatalf("expected reservation, got %v %v", reserved, err)
	}
	if err := store.Release(ctx, "k"); err != nil {
		t.Fatal(err)
	}

	_, reserved, _ = store.Reserve(ctx, "k")
	if !reserved {
		t.Fatal("released key should be reservable")
	}
	resp := &CachedResponse{Status: http.StatusOK, Body: []byte("ok")}
	if err := store.Complete(ctx, "k", resp); err != nil {
		t.Fatal(err)
	}

	cached, reserved, err := store.Reserve(ctx, "k")
	if err != nil || reserved || cached != resp {
		t.Errorf("expected recorded response, got %v %v %v", cached, reserved, err)
	}
}

func TestMemoryIdempotencyStore_WaitHonorsContext(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t, time.Hour)
	_, _, _ = store.Reserve(context.Background(), "k")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err := store.Reserve(ctx, "k")

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestMemoryIdempotencyStore_Cleanup(t *testing.T) {
	t.Parallel()

	store := newMemoryStore(t, 10*time.Millisecond)
	ctx := context.Background()
	_, _, _ = store.Reserve(ctx, "done")
	_ = store.Complete(ctx, "done", &CachedResponse{Status: http.StatusOK})
	_, _, _ = store.Reserve(ctx, "pending")

	time.Sleep(20 * time.Millisecond)
	store.cleanup()

	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.entries["done"]; ok {
		t.Error("expired entry should be removed")
	}
	if _, ok := store.entries["pending"]; !ok {
		t.Error("in-flight entry should be kept")
	}
}
