package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiiromate/JATA-V1/internal/shared/telemetry"
)

// ErrorResponse is the generic failure body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationResponse lists field violations.
type ValidationResponse struct {
	Errors interface{} `json:"errors"`
}

// Error sends a generic error response and logs it.
func Error(c *gin.Context, status int, message string) {
	logError(c, status, message)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// Validation sends a 400 response carrying the violated fields.
func Validation(c *gin.Context, violations interface{}) {
	logError(c, http.StatusBadRequest, "validation failed")
	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationResponse{Errors: violations})
}

func logError(c *gin.Context, status int, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
		return
	}
	telemetry.Warn("http.error", fields)
}
