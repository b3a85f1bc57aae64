package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"returns-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		fields := map[string]any{
			"request_id": reqID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": latency.Milliseconds(),
		}
		if userID, ok := c.Get(userIDKey); ok {
			fields["user_id"] = userID
		}
		if claimID, ok := c.Get("claimId"); ok {
			fields["claim_id"] = claimID
		}
		if decision, ok := c.Get("decision"); ok {
			fields["decision"] = decision
		}

		if status >= 500 {
			telemetry.Error("http.request", fields)
			return
		}
		telemetry.Info("http.request", fields)
	}
}
