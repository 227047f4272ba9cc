// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// Config holds the per-client request budget.
type Config struct {
	Requests int
	Window   time.Duration
	Logger   *zap.Logger
}

// PerClient limits requests per signed-in user, falling back to client IP
// for anonymous callers. Run it after the auth middleware.
// A non-positive Requests disables limiting.
func PerClient(cfg Config) func(http.Handler) http.Handler {
	if cfg.Requests <= 0 || cfg.Window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(ClientKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			key, _ := ClientKey(r)
			log.Warn("rate limit exceeded",
				zap.String("client", key),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
		}),
	)
}

// ClientKey is the rate-limit bucket for r.
func ClientKey(r *http.Request) (string, error) {
	if id, ok := auth.UserID(r); ok {
		return "user:" + id, nil
	}
	return "ip:" + ClientIP(r), nil
}

// ClientIP extracts the client IP from an HTTP request.
// It checks X-Forwarded-For and X-Real-IP headers first (for proxied requests),
// then falls back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}
