package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-coach/internal/shared/telemetry"
)

// ErrorResponse is the body of every failed request. The landing page reads
// the human-readable message from "error".
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string) {
	telemetry.Error("http.error", map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	})

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
