package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kiiromate/JATA-V1/internal/shared/metrics"
	"github.com/kiiromate/JATA-V1/internal/shared/telemetry"
)

// Logging emits a structured log per request and records its duration.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		durationMs := metrics.Since(start)
		metrics.ObserveRequestDurationMs(durationMs)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": durationMs,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if id := c.GetString("applicationId"); id != "" {
			fields["application_id"] = id
		}
		telemetry.Info("request.complete", fields)
	}
}
