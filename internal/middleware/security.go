package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/patobeur/inouttracker/pkg/clientip"
)

const (
	headerXContentTypeOptions     = "X-Content-Type-Options"
	headerXFrameOptions           = "X-Frame-Options"
	headerContentSecurityPolicy   = "Content-Security-Policy"
	headerReferrerPolicy          = "Referrer-Policy"
	headerStrictTransportSecurity = "Strict-Transport-Security"

	contentSecurityPolicy = "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:;"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set(headerXContentTypeOptions, "nosniff")
		h.Set(headerXFrameOptions, "DENY")
		h.Set(headerContentSecurityPolicy, contentSecurityPolicy)
		h.Set(headerReferrerPolicy, "same-origin")
		if r.TLS != nil {
			h.Set(headerStrictTransportSecurity, "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

// --- Flood guard (per-IP token bucket) ---

const (
	floodRPS           = 5
	floodBurst         = 20
	floodCleanupEvery  = 5 * time.Minute
	floodLimiterMaxAge = 30 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// FloodGuard hands out one token bucket per client address. It sits in front
// of the per-action limits and only stops request floods.
type FloodGuard struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
}

func NewFloodGuard(rps float64, burst int) *FloodGuard {
	return &FloodGuard{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

func (g *FloodGuard) allow(ip string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(g.limit, g.burst)}
		g.entries[ip] = e
	}
	e.lastUse = time.Now()
	return e.limiter.Allow()
}

// sweep drops buckets idle for longer than maxAge.
func (g *FloodGuard) sweep(maxAge time.Duration) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for ip, e := range g.entries {
		if e.lastUse.Before(cutoff) {
			delete(g.entries, ip)
			removed++
		}
	}
	return removed
}

// Run sweeps idle buckets until done is closed.
func (g *FloodGuard) Run(done <-chan struct{}) {
	ticker := time.NewTicker(floodCleanupEvery)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			g.sweep(floodLimiterMaxAge)
		}
	}
}

// Middleware answers 429 once the caller's bucket is empty.
func (g *FloodGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.allow(clientip.RealClientIP(r)) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"Too many requests. Please slow down."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ProductionSecurity returns the production chain: SecurityHeaders then the flood guard.
func ProductionSecurity(guard *FloodGuard) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		SecurityHeaders,
		guard.Middleware,
	}
}

// NewDefaultFloodGuard uses the production rate and burst.
func NewDefaultFloodGuard() *FloodGuard {
	return NewFloodGuard(floodRPS, floodBurst)
}
