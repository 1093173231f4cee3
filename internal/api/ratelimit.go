package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// minIdle is the shortest time a bucket is kept after its last request
const minIdle = time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client address
type IPRateLimiter struct {
	ips   map[string]*visitor
	mu    sync.Mutex
	r     rate.Limit
	b     int
	idle  time.Duration
	swept time.Time
	now   func() time.Time
}

// NewIPRateLimiter allows each client address r requests per second with
// bursts of b. Buckets idle long enough to refill completely are dropped.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	idle := minIdle
	if r > 0 && r != rate.Inf {
		idle = max(idle, time.Duration(float64(b)/float64(r)*float64(time.Second)))
	}
	return &IPRateLimiter{
		ips:  make(map[string]*visitor),
		r:    r,
		b:    b,
		idle: idle,
		now:  time.Now,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.swept) >= i.idle {
		i.prune(now)
	}

	v, exists := i.ips[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// prune drops buckets unused for the idle period; a full bucket behaves
// like a new one. Callers hold mu.
func (i *IPRateLimiter) prune(now time.Time) {
	for ip, v := range i.ips {
		if now.Sub(v.lastSeen) >= i.idle {
			delete(i.ips, ip)
		}
	}
	i.swept = now
}

// clientIP strips the port so that one client shares a bucket across
// connections
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LimitMiddleware rejects requests beyond the client's rate with 429
func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !i.getLimiter(clientIP(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "too many requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}
