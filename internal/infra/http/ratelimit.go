package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"

	"github.com/gin-gonic/gin"
)

// clientIP resolves the logical identifier to count against: the single-value
// real-IP header first, else the first hop of the forwarded chain, else the
// sentinel "unknown".
func clientIP(r *http.Request) string {
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}
	return "unknown"
}

func (s *Server) rateLimit(scope string, cfg domain.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil || cfg.MaxRequests <= 0 {
			c.Next()
			return
		}
		key := scope + ":" + clientIP(c.Request)
		result, err := s.limiter.Check(c.Request.Context(), key, cfg)
		if err != nil {
			// The fallback limiter absorbs backend failures; anything
			// surfacing here still fails open.
			s.log.Warn("rate limit check failed", "scope", scope, "error", err)
			c.Next()
			return
		}
		writeRateLimitHeaders(c, result)
		if !result.Success {
			writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}

func writeRateLimitHeaders(c *gin.Context, result domain.RateLimitResult) {
	if result.Remaining >= 0 {
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	}
	if !result.ResetAt.IsZero() {
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
		if !result.Success {
			retryAfter := int64(time.Until(result.ResetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
}
