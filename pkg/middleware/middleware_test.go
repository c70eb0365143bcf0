package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diagnosis/slotbook/pkg/cache"
	"github.com/diagnosis/slotbook/pkg/logger"
	mw "github.com/diagnosis/slotbook/pkg/middleware"
)

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen any
	h := mw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context().Value(logger.RequestIDKey)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	id := rr.Header().Get("X-Request-ID")
	if id == "" || seen != id {
		t.Fatalf("expected generated id in header and context, got %q / %v", id, seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "given")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("X-Request-ID") != "given" {
		t.Fatalf("expected caller id to be kept, got %q", rr.Header().Get("X-Request-ID"))
	}
}

func TestReady_ReportsFailingCheck(t *testing.T) {
	h := mw.Ready(
		mw.ReadyCheck{Name: "postgres", Check: func(context.Context) error { return nil }},
		mw.ReadyCheck{Name: "redis", Check: func(context.Context) error { return errors.New("down") }},
	)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&body)
	if body.Checks["postgres"] != "ok" || body.Checks["redis"] != "down" {
		t.Fatalf("unexpected checks: %+v", body)
	}
}

func TestHealth_OK(t *testing.T) {
	rr := httptest.NewRecorder()
	mw.Health(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health response: %d %s", rr.Code, rr.Body.String())
	}
}

func TestIdempotency_ReplaysSuccessfulResponse(t *testing.T) {
	calls := 0
	h := mw.IdempotencyMiddleware(cache.NewMemoryStore(), time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"b1"}`))
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "abc")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	first := send()
	second := send()

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Fatalf("expected replay of 201 %s, got %d %s", first.Body.String(), second.Code, second.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatal("expected replay header")
	}
}

func TestIdempotency_FailuresAreNotRemembered(t *testing.T) {
	calls := 0
	h := mw.IdempotencyMiddleware(cache.NewMemoryStore(), time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusConflict)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
		req.Header.Set("Idempotency-Key", "abc")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Fatalf("expected both attempts to reach the handler, got %d", calls)
	}
}

func TestIdempotency_IgnoresRequestsWithoutKey(t *testing.T) {
	calls := 0
	h := mw.IdempotencyMiddleware(cache.NewMemoryStore(), time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))
	for i := 0; i < 2; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/bookings", nil))
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis down")
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	limiter := mw.NewRateLimiter(cache.NewMemoryStore(), mw.RateLimitConfig{Requests: 2, Window: time.Minute})
	h := limiter.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusCreated || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected 201, 201, 429, got %v", codes)
	}

	other := httptest.NewRequest(http.MethodPost, "/bookings", nil)
	other.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, other)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected a different client to pass, got %d", rr.Code)
	}
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	limiter := mw.NewRateLimiter(failingCounter{}, mw.RateLimitConfig{Requests: 1})
	h := limiter.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/bookings", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected requests through when counter fails, got %d", rr.Code)
		}
	}
}

func TestIdempotency_RejectsKeyReusedWithOtherBody(t *testing.T) {
	calls := 0
	h := mw.IdempotencyMiddleware(cache.NewMemoryStore(), time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "abc")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	if rr := send(`{"time_slot":"09:00-10:00"}`); rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	rr := send(`{"time_slot":"11:00-12:00"}`)
	if rr.Code != http.StatusUnprocessableEntity || !strings.Contains(rr.Body.String(), "IDEMPOTENCY_KEY_REUSED") {
		t.Fatalf("expected 422 IDEMPOTENCY_KEY_REUSED, got %d %s", rr.Code, rr.Body.String())
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
}

func TestIdempotency_ConcurrentSameKeyRunsOnce(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	h := mw.IdempotencyMiddleware(cache.NewMemoryStore(), time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"b1"}`))
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "abc")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() { first <- send() }()
	<-started

	inFlight := send()
	if inFlight.Code != http.StatusConflict || !strings.Contains(inFlight.Body.String(), "IDEMPOTENCY_IN_PROGRESS") {
		t.Fatalf("expected 409 IDEMPOTENCY_IN_PROGRESS while the first request runs, got %d %s", inFlight.Code, inFlight.Body.String())
	}
	if inFlight.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After on the in-flight response")
	}

	close(release)
	if rr := <-first; rr.Code != http.StatusCreated {
		t.Fatalf("expected first request to finish with 201, got %d", rr.Code)
	}

	after := send()
	if after.Code != http.StatusCreated || after.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay after completion, got %d", after.Code)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected handler to run once, ran %d times", n)
	}
}

func TestIdempotency_HandlerSeesFullBody(t *testing.T) {
	var got string
	h := mw.IdempotencyMiddleware(cache.NewMemoryStore(), time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"date":"2025-01-20"}`))
	req.Header.Set("Idempotency-Key", "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != `{"date":"2025-01-20"}` {
		t.Fatalf("expected body passed through, got %q", got)
	}
}
