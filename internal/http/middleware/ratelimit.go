package middleware

import (
	"net"
	"net/http"
	"strconv"

	"venuecatalog/backend/internal/rate"
)

// RateLimit throttles requests per client IP. It expects chi's RealIP to have run first.
func RateLimit(limiter *rate.KeyedLimiter, retryAfterSeconds int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || limiter.Allow(ClientIP(r)) {
				next.ServeHTTP(w, r)
				return
			}
			if retryAfterSeconds > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
			}
			writeDetail(w, http.StatusTooManyRequests, "Too many requests")
		})
	}
}

// ClientIP strips the port from RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
