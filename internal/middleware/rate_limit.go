package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// DefaultAuthRateLimit caps each caller at 5 requests per 15-minute window
// on the authentication endpoints. Independent of the login lockout.
func DefaultAuthRateLimit() RateLimitConfig {
	return RateLimitConfig{
		Requests: 5,
		Window:   15 * time.Minute,
	}
}

// RateLimitByIP creates a middleware that rate limits requests by client IP
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.Requests,
		config.Window,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate_limit_exceeded","message":"Too many requests. Try again later."}`))
		}),
	)
}
