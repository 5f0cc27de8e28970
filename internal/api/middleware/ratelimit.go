package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/devpatel-io/taskflow/internal/utils"
	"golang.org/x/time/rate"
)

// IPRateLimiter keeps a token bucket per client address. Entries idle for
// an hour are dropped on the cleanup pass.
type IPRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	message string
	done    chan struct{}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(limit rate.Limit, burst int, message string) *IPRateLimiter {
	l := &IPRateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		burst:   burst,
		message: message,
		done:    make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Stop ends the cleanup goroutine.
func (l *IPRateLimiter) Stop() {
	close(l.done)
}

// General, auth and todo-create tiers mirror the production limits:
// 100 requests / 15 min, 5 auth attempts / 15 min, 10 creations / min.
func GeneralLimiter() *IPRateLimiter {
	return NewIPRateLimiter(rate.Every(15*time.Minute/100), 100,
		"Too many requests from this IP, please try again later.")
}

func AuthLimiter() *IPRateLimiter {
	return NewIPRateLimiter(rate.Every(15*time.Minute/5), 5,
		"Too many authentication attempts, please try again later.")
}

func TodoCreateLimiter() *IPRateLimiter {
	return NewIPRateLimiter(rate.Every(time.Minute/10), 10,
		"Too many todo creation attempts, please slow down.")
}

func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			utils.JSONResponse(w, http.StatusTooManyRequests, utils.Payload{
				Success: false,
				Message: l.message,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *IPRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

func (l *IPRateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.mu.Lock()
			for ip, c := range l.clients {
				if time.Since(c.lastSeen) > time.Hour {
					delete(l.clients, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

// clientIP keys the bucket. Only the first X-Forwarded-For hop counts; the
// rest of the header is client-controlled and must not mint fresh buckets.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
