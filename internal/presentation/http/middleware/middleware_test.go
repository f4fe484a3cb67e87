package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/printshop-api/internal/infrastructure/repository"
)

func newIdempotentRouter(status *int, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	repo := repository.NewIdempotencyRepository(repository.NewMemoryKeyValueStore())
	r.POST("/jobs", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		*calls++
		c.JSON(*status, gin.H{"call": *calls})
	})
	return r
}

func postJob(r *gin.Engine, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysSuccess(t *testing.T) {
	status, calls := http.StatusCreated, 0
	r := newIdempotentRouter(&status, &calls)

	first := postJob(r, "k1", `{"a":1}`)
	second := postJob(r, "k1", `{"a":1}`)

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Errorf("expected replay of %q, got %d %q", first.Body.String(), second.Code, second.Body.String())
	}
	if second.Header().Get(IdempotencyReplayedHeader) != "true" {
		t.Error("expected replayed header on second response")
	}
}

func TestIdempotency_RejectsDifferentBody(t *testing.T) {
	status, calls := http.StatusCreated, 0
	r := newIdempotentRouter(&status, &calls)

	postJob(r, "k1", `{"a":1}`)
	w := postJob(r, "k1", `{"a":2}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	if calls != 1 {
		t.Errorf("expected handler to run once, ran %d times", calls)
	}
}

func TestIdempotency_DoesNotStoreFailures(t *testing.T) {
	status, calls := http.StatusConflict, 0
	r := newIdempotentRouter(&status, &calls)

	postJob(r, "k1", `{"a":1}`)
	status = http.StatusCreated
	w := postJob(r, "k1", `{"a":1}`)

	if calls != 2 || w.Code != http.StatusCreated {
		t.Errorf("expected failed response to be retried, calls=%d code=%d", calls, w.Code)
	}
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	status, calls := http.StatusCreated, 0
	r := newIdempotentRouter(&status, &calls)

	postJob(r, "", `{"a":1}`)
	postJob(r, "", `{"a":1}`)

	if calls != 2 {
		t.Errorf("expected two handler calls without a key, got %d", calls)
	}
}

func TestRateLimiterConfigFrom(t *testing.T) {
	cfg := RateLimiterConfigFrom(120, 60)
	if cfg.RequestsPerSecond != 2 || cfg.BurstSize != 120 {
		t.Errorf("unexpected config %#v", cfg)
	}

	def := DefaultRateLimiterConfig()
	if got := RateLimiterConfigFrom(0, 60); got != def {
		t.Errorf("expected defaults for zero requests, got %#v", got)
	}
}

func TestClientRateLimiter_PerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewClientRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 1})
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("10.0.0.1:1000"); code != http.StatusOK {
		t.Fatalf("first request: %d", code)
	}
	if code := send("10.0.0.1:1001"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 for same client, got %d", code)
	}
	if code := send("10.0.0.2:1000"); code != http.StatusOK {
		t.Errorf("expected other client to pass, got %d", code)
	}
	if got := rl.Stats()["active_clients"]; got != 2 {
		t.Errorf("expected 2 active clients, got %v", got)
	}
}
