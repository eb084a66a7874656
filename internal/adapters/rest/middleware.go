package rest

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/olprod/backend/internal/core/domain"
	"github.com/olprod/backend/internal/logger"
)

// authedHandler is a handler that runs for a verified artist.
type authedHandler func(w http.ResponseWriter, r *http.Request, user domain.User)

// auth verifies the bearer token before calling next.
func (h *Handler) auth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			logger.Security(logger.EventInvalidToken, "missing authorization header", logger.Fields("ip", h.clientIP(r), "path", r.URL.Path))
			writeErrorWithCode(w, http.StatusUnauthorized, "authorization header required", errCodeUnauthorized)
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			logger.Security(logger.EventInvalidToken, "invalid authorization header format", logger.Fields("ip", h.clientIP(r)))
			writeErrorWithCode(w, http.StatusUnauthorized, "invalid authorization header format", errCodeUnauthorized)
			return
		}

		user, err := h.svc.Sessions.Verify(strings.TrimSpace(token))
		if err != nil {
			logger.Security(logger.EventInvalidToken, "access attempt with invalid token", logger.Fields("ip", h.clientIP(r)))
			writeErrorWithCode(w, http.StatusUnauthorized, "invalid or expired token", errCodeUnauthorized)
			return
		}

		next(w, r, user)
	}
}

func (h *Handler) allow(w http.ResponseWriter, r *http.Request) bool {
	ip := h.clientIP(r)
	if h.limiter.allow(ip) {
		return true
	}
	logger.Security(logger.EventRateLimited, "rate limit exceeded", logger.Fields("ip", ip, "path", r.URL.Path))
	w.Header().Set("Retry-After", "1")
	writeErrorWithCode(w, http.StatusTooManyRequests, "rate limit exceeded", errCodeRateLimited)
	return false
}

// clientIP is the peer address. The first X-Forwarded-For hop is used only
// behind a trusted proxy; otherwise a client could pick its own rate-limit
// key.
func (h *Handler) clientIP(r *http.Request) string {
	if !h.trustProxy {
		return remoteHost(r)
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
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

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps one token bucket per client and forgets clients idle for
// longer than ttl.
type ipLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiter(rps float64, burst int, ttl time.Duration) *ipLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &ipLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.ttl {
		for key, c := range l.clients {
			if now.Sub(c.lastSeen) > l.ttl {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}
