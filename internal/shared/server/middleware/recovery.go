package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"returns-backend/internal/shared/server/respond"
	"returns-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a standardized 500 instead of tearing
// down the connection mid-analysis.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logPanic(c, rec)
				respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
				c.Abort()
			}
		}()
		c.Next()
	}
}

func logPanic(c *gin.Context, rec any) {
	telemetry.Error("panic", map[string]any{
		"request_id": RequestIDFromContext(c),
		"error":      rec,
		"stack":      string(debug.Stack()),
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
	})
}
