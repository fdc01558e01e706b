package handlers

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"brew-and-board/internal/core/services"
)

// WithRateLimit gates a handler behind the named limiter profile. Denials
// answer 429 with a Retry-After header in seconds.
func (h *CheckoutHandler) WithRateLimit(profile string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		decision := h.limiter.Check(key, profile)
		if !decision.Allowed {
			seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
			h.logger.Warn("", "rate_limit_denied", "Request denied by rate limiter", map[string]interface{}{
				"profile": profile, "retry_after_seconds": seconds, "endpoint": r.URL.Path,
			})
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			services.WriteJSON(w, map[string]interface{}{
				"error":               "rate limit exceeded",
				"retry_after_seconds": seconds,
			}, http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
