// cmd/api/middleware.go
// This file contains HTTP middleware used to wrap the router.
package main

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// recoverPanic turns a panic in any downstream handler into a 500 response
// and closes the connection afterwards.
func (app *applicationDependencies) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// clientLimiters hands out one token bucket per client IP.
type clientLimiters struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	clients map[string]*client

	done     chan struct{}
	stopOnce sync.Once
}

// client holds a per-IP rate limiter and the time it was last seen.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiters(rps float64, burst int) *clientLimiters {
	return &clientLimiters{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*client),
		done:    make(chan struct{}),
	}
}

// allow consumes one token from ip's bucket, creating the bucket on first use.
func (cl *clientLimiters) allow(ip string, now time.Time) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	c, found := cl.clients[ip]
	if !found {
		c = &client{limiter: rate.NewLimiter(cl.rps, cl.burst)}
		cl.clients[ip] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

// evict drops clients not seen since before cutoff so the map stays bounded.
func (cl *clientLimiters) evict(cutoff time.Time) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	for ip, c := range cl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(cl.clients, ip)
		}
	}
}

// sweep evicts clients idle for longer than idle every interval until stop is called.
func (cl *clientLimiters) sweep(interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-cl.done:
			return
		case now := <-ticker.C:
			cl.evict(now.Add(-idle))
		}
	}
}

// stop ends the sweep loop. It is safe to call more than once.
func (cl *clientLimiters) stop() {
	cl.stopOnce.Do(func() { close(cl.done) })
}

// rateLimit applies per-IP token-bucket limiting when enabled in config.
// The buckets and their sweeper are created once per application, so every
// call to routes() shares them. Entries idle for three minutes are swept
// once a minute.
func (app *applicationDependencies) rateLimit(next http.Handler) http.Handler {
	if !app.config.limiter.enabled {
		return next
	}

	app.limiterOnce.Do(func() {
		app.limiters = newClientLimiters(app.config.limiter.rps, app.config.limiter.burst)
		go app.limiters.sweep(time.Minute, 3*time.Minute)
	})
	limiters := app.limiters

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		if !limiters.allow(ip, time.Now()) {
			app.rateLimitExceededResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
