// File: internal/middleware/ratelimit.go
package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/iyunix/go-chatnest/internal/ratelimit"
)

// RateLimiter is the subset of ratelimit.MemoryRateLimiter the middleware needs.
type RateLimiter interface {
	Allow(identifier string) (bool, *ratelimit.RateLimitInfo)
	RecordSuccess(identifier string)
}

// RateLimitMiddleware limits requests per client IP. name scopes the counter so
// login and register attempts are tracked separately.
func RateLimitMiddleware(limiter RateLimiter, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := ratelimit.GetClientIP(r)
			identifier := name + ":" + clientIP

			allowed, info := limiter.Allow(identifier)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))

			if !allowed {
				log.Printf("[RateLimit] Blocked %s request from %s", name, clientIP)

				retryAfter := int(info.RetryAfter.Seconds())
				if retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"error":      fmt.Sprintf("Too many attempts. Try again in %d minutes.", (retryAfter+59)/60),
					"retryAfter": retryAfter,
				})
				return
			}

			wrapper := newResponseWriter(w)
			next.ServeHTTP(wrapper, r)

			// A successful attempt resets the counter for this client.
			if wrapper.statusCode >= 200 && wrapper.statusCode < 300 {
				limiter.RecordSuccess(identifier)
			}
		})
	}
}
