package httpserver

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	identityhttp "caregate/contexts/identity-access/identity-service/transport/http"
)

// ipLimiter throttles the open auth endpoints per client IP so
// credential stuffing and registration floods are slowed at the edge.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPLimiter() *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(5),
		burst:    10,
	}
}

func (l *ipLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

func (l *ipLimiter) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.limiterFor(resolveClientIP(r)).Allow() {
			writeJSON(w, http.StatusTooManyRequests, identityhttp.ErrorResponse{
				Code:    "rate_limited",
				Message: "too many requests",
			})
			return
		}
		next(w, r)
	}
}
