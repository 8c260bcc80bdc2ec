package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"memoir/backend/pkg/clientip"
)

const (
	headerXContentTypeOptions     = "X-Content-Type-Options"
	headerXFrameOptions           = "X-Frame-Options"
	headerXXSSProtection          = "X-XSS-Protection"
	headerContentSecurityPolicy   = "Content-Security-Policy"
	headerStrictTransportSecurity = "Strict-Transport-Security"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerXContentTypeOptions, "nosniff")
		w.Header().Set(headerXFrameOptions, "DENY")
		w.Header().Set(headerXXSSProtection, "1; mode=block")
		w.Header().Set(headerContentSecurityPolicy, "default-src 'self'")
		w.Header().Set(headerStrictTransportSecurity, "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// --- Global rate limiting (per-IP, 1/s, burst 10) ---

var (
	globalEntries    = make(map[string]*limiterEntry)
	globalEntriesMu  sync.Mutex
	globalCleanupRun bool
)

const (
	globalRateLimitRPS    = 1
	globalRateLimitBurst  = 10
	globalCleanupInterval = 5 * time.Minute
	globalLimiterTTL      = 30 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

func getGlobalLimiter(ip string) *rate.Limiter {
	globalEntriesMu.Lock()
	defer globalEntriesMu.Unlock()
	startGlobalCleanupOnce()
	e, ok := globalEntries[ip]
	if !ok {
		e = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(globalRateLimitRPS), globalRateLimitBurst),
			lastUse: time.Now(),
		}
		globalEntries[ip] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func startGlobalCleanupOnce() {
	if globalCleanupRun {
		return
	}
	globalCleanupRun = true
	go func() {
		ticker := time.NewTicker(globalCleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			globalEntriesMu.Lock()
			now := time.Now()
			for ip, e := range globalEntries {
				if now.Sub(e.lastUse) > globalLimiterTTL {
					delete(globalEntries, ip)
				}
			}
			globalEntriesMu.Unlock()
		}
	}()
}

// GlobalRateLimit limits each IP to 1 req/s, burst 10. Returns 429 when exceeded.
func GlobalRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientip.RealClientIP(r)
		if !getGlobalLimiter(ip).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"Too many requests. Please slow down."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- Enhancement route rate limiting (1 req/5s, burst 2) ---
// Model inference is by far the most expensive call in the service, so the
// enhance route gets a stricter per-IP limit than the rest of the API.

var (
	enhanceEntries    = make(map[string]*limiterEntry)
	enhanceEntriesMu  sync.Mutex
	enhanceCleanupRun bool
)

const (
	enhanceRateLimitEvery  = 5 * time.Second
	enhanceRateLimitBurst  = 2
	enhanceCleanupInterval = 5 * time.Minute
	enhanceLimiterTTL      = 30 * time.Minute
)

func getEnhanceLimiter(ip string) *rate.Limiter {
	enhanceEntriesMu.Lock()
	defer enhanceEntriesMu.Unlock()
	startEnhanceCleanupOnce()
	e, ok := enhanceEntries[ip]
	if !ok {
		e = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(enhanceRateLimitEvery), enhanceRateLimitBurst),
			lastUse: time.Now(),
		}
		enhanceEntries[ip] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func startEnhanceCleanupOnce() {
	if enhanceCleanupRun {
		return
	}
	enhanceCleanupRun = true
	go func() {
		ticker := time.NewTicker(enhanceCleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			enhanceEntriesMu.Lock()
			now := time.Now()
			for ip, e := range enhanceEntries {
				if now.Sub(e.lastUse) > enhanceLimiterTTL {
					delete(enhanceEntries, ip)
				}
			}
			enhanceEntriesMu.Unlock()
		}
	}()
}

// EnhanceRateLimit applies the stricter limit to the enhance route only.
// Use after GlobalRateLimit.
func EnhanceRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/enhance" {
			next.ServeHTTP(w, r)
			return
		}
		ip := clientip.RealClientIP(r)
		if !getEnhanceLimiter(ip).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"Too many enhancement requests. Please try again shortly."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ProductionSecurity returns the middleware chain used when ENV=production.
func ProductionSecurity() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		SecurityHeaders,
		GlobalRateLimit,
		EnhanceRateLimit,
	}
}
