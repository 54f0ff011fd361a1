package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	h "eventflow/internal/delivery/http/helpers"
	"eventflow/internal/domain"
)

// RateLimit throttles requests per client address under the given scope.
// Limiter failures let the request through.
func RateLimit(limiter domain.RateLimiter, scope string, trustForwarded bool, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":" + ClientIP(r, trustForwarded)
			ok, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.WarnContext(r.Context(), "rate limiter unavailable", "scope", scope, "err", err)
				next(w, r)
				return
			}
			if !ok {
				h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeRateLimited, "too many requests, try again later")
				return
			}
			next(w, r)
		}
	}
}

// ClientIP returns the caller's address. The first X-Forwarded-For hop is used
// only when trustForwarded is set, i.e. when a proxy in front overwrites it.
func ClientIP(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
