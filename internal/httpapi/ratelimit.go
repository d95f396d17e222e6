package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/marcus-qen/hragent/internal/auth"
	"github.com/marcus-qen/hragent/internal/config"
	"github.com/marcus-qen/hragent/internal/envelope"
	"github.com/marcus-qen/hragent/internal/metrics"
)

// limiterTTL controls idle limiter eviction.
const limiterTTL = 30 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter throttles each caller credential independently. Callers are
// keyed by a fingerprint of their token so raw credentials are never held.
type rateLimiter struct {
	rpm   int
	burst int
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]*limiterEntry
}

func newRateLimiter(cfg config.RateLimitConfig, now func() time.Time) *rateLimiter {
	if now == nil {
		now = time.Now
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &rateLimiter{
		rpm:     cfg.RequestsPerMinute,
		burst:   burst,
		now:     now,
		entries: map[string]*limiterEntry{},
	}
}

func (l *rateLimiter) enabled() bool {
	return l != nil && l.rpm > 0
}

// middleware must run after auth.Middleware; surface labels blocked requests.
func (l *rateLimiter) middleware(surface string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.enabled() {
			next.ServeHTTP(w, r)
			return
		}

		key := tokenFingerprint(auth.TokenFromContext(r.Context()))
		if l.allow(key) {
			next.ServeHTTP(w, r)
			return
		}

		retryAfter := retryAfterSeconds(l.rpm)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		metrics.RecordRateLimitBlock(surface)
		writeJSON(w, http.StatusTooManyRequests, envelope.Failure{
			Error:   "TooManyRequests",
			Message: fmt.Sprintf("rate limit reached, retry in %d seconds", retryAfter),
			Details: map[string]int{
				"retryAfterSeconds": retryAfter,
				"requestsPerMinute": l.rpm,
				"burst":             l.burst,
			},
		})
	})
}

func (l *rateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	entry, ok := l.entries[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.rpm)), l.burst),
		}
		l.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *rateLimiter) prune(now time.Time) {
	for k, v := range l.entries {
		if now.Sub(v.lastSeen) > limiterTTL {
			delete(l.entries, k)
		}
	}
}

func tokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

func retryAfterSeconds(rpm int) int {
	if rpm <= 0 {
		return 1
	}
	seconds := int(math.Ceil(60.0 / float64(rpm)))
	if seconds < 1 {
		return 1
	}
	return seconds
}
