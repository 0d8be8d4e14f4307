package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	appErrors "retroboard/pkg/errors"

	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long a client limiter survives without requests
const idleLimiterTTL = 10 * time.Minute

// RateLimiter throttles requests per client IP with a token bucket
type RateLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*clientLimiter
	limit       rate.Limit
	burst       int
	errors      *appErrors.ErrorHandler
	now         func() time.Time
	lastCleanup time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per client with the given burst
func NewRateLimiter(perMinute, burst int, errorHandler *appErrors.ErrorHandler) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters:    make(map[string]*clientLimiter),
		limit:       rate.Limit(float64(perMinute) / 60),
		burst:       burst,
		errors:      errorHandler,
		now:         time.Now,
		lastCleanup: time.Now(),
	}
}

// Handler rejects requests over the limit with 429
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := l.limiterFor(clientKey(r))

		reservation := limiter.ReserveN(l.now(), 1)
		if delay := reservation.DelayFrom(l.now()); delay > 0 {
			reservation.CancelAt(l.now())
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			l.errors.Handle(w, r, appErrors.NewRateLimitError(delay))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastCleanup) > idleLimiterTTL {
		for k, c := range l.limiters {
			if now.Sub(c.lastSeen) > idleLimiterTTL {
				delete(l.limiters, k)
			}
		}
		l.lastCleanup = now
	}

	c, ok := l.limiters[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = c
	}
	c.lastSeen = now
	return c.limiter
}

// clientKey uses the address set by chi's RealIP, without the port
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
