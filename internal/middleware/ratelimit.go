package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ClientIP returns the address of the caller. With trustProxy set,
// CF-Connecting-IP and then the left-most X-Forwarded-For hop win over
// RemoteAddr. Without it those headers are client-controlled and ignored.
func ClientIP(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return remoteHost(r)
	}
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type visitor struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// Limiter hands each client a token bucket holding limit tokens that
// refills completely over period.
type Limiter struct {
	limit  int
	period time.Duration
	every  rate.Limit
	now    func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewLimiter allows bursts of limit requests per key, refilled over period.
func NewLimiter(limit int, period time.Duration) *Limiter {
	limit = max(limit, 1)
	return &Limiter{
		limit:    limit,
		period:   period,
		every:    rate.Every(period / time.Duration(limit)),
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// Allow takes a token for key and reports whether one was available.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{bucket: rate.NewLimiter(l.every, l.limit)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.bucket.AllowN(now, 1)
}

// Prune forgets clients idle for at least one period, whose buckets are
// full again anyway. It returns how many were dropped.
func (l *Limiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	n := 0
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) >= l.period {
			delete(l.visitors, key)
			n++
		}
	}
	return n
}

// PerClient limits requests by ClientIP. Programmatic callers (those that
// send X-Requested-With) get a JSON error body.
func PerClient(l *Limiter, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.Allow(ClientIP(r, trustProxy)) {
				next.ServeHTTP(w, r)
				return
			}
			const msg = "Too many requests. Please try again later."
			w.Header().Set("Retry-After", retryAfter(l.period))
			if r.Header.Get("X-Requested-With") != "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": msg})
				return
			}
			http.Error(w, msg, http.StatusTooManyRequests)
		})
	}
}

func retryAfter(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	return strconv.Itoa(max(secs, 1))
}
