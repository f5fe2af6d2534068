package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecoverPanic(t *testing.T) {
	app := newTestApp(t, newMemoryBooks())

	h := app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/books", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "close", rr.Header().Get("Connection"))
	assert.NotContains(t, rr.Body.String(), "boom")
}

func TestClientLimiters(t *testing.T) {
	cl := newClientLimiters(1, 2)
	now := time.Now()

	assert.True(t, cl.allow("10.0.0.1", now))
	assert.True(t, cl.allow("10.0.0.1", now))
	assert.False(t, cl.allow("10.0.0.1", now), "burst exhausted")
	assert.True(t, cl.allow("10.0.0.2", now), "buckets are per ip")
	assert.True(t, cl.allow("10.0.0.1", now.Add(time.Second)), "one token refilled")

	cl.evict(now.Add(500 * time.Millisecond))
	assert.NotContains(t, cl.clients, "10.0.0.2")
	assert.Contains(t, cl.clients, "10.0.0.1")
}

func TestRateLimit(t *testing.T) {
	app := newTestApp(t, newMemoryBooks())
	app.config.limiter.enabled = true
	app.config.limiter.rps = 0.001
	app.config.limiter.burst = 2
	t.Cleanup(app.stopRateLimiter)

	h := app.routes()

	for i := 0; i < 2; i++ {
		rr, _ := do(t, h, http.MethodGet, "/books", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	rr, body := do(t, h, http.MethodGet, "/books", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "rate limit exceeded", body["error"])
}

func TestRateLimitDisabled(t *testing.T) {
	app := newTestApp(t, newMemoryBooks())
	app.config.limiter.burst = 1

	h := app.routes()
	for i := 0; i < 5; i++ {
		rr, _ := do(t, h, http.MethodGet, "/books", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestClientLimitersSweepStops(t *testing.T) {
	cl := newClientLimiters(1, 1)
	cl.allow("10.0.0.1", time.Now().Add(-time.Hour))

	finished := make(chan struct{})
	go func() {
		cl.sweep(time.Millisecond, time.Minute)
		close(finished)
	}()

	assert.Eventually(t, func() bool {
		cl.mu.Lock()
		defer cl.mu.Unlock()
		return len(cl.clients) == 0
	}, time.Second, 5*time.Millisecond)

	cl.stop()
	cl.stop()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("sweep did not return after stop")
	}
}

func TestRateLimitSharedAcrossRoutes(t *testing.T) {
	app := newTestApp(t, newMemoryBooks())
	app.config.limiter.enabled = true
	app.config.limiter.rps = 0.001
	app.config.limiter.burst = 1
	t.Cleanup(app.stopRateLimiter)

	first := app.routes()
	limiters := app.limiters
	second := app.routes()
	assert.Same(t, limiters, app.limiters)

	rr, _ := do(t, first, http.MethodGet, "/books", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, _ = do(t, second, http.MethodGet, "/books", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code, "the bucket is shared by both handlers")
}
