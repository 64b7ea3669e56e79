package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-coach/internal/shared/server/respond"
	"resume-coach/internal/shared/telemetry"
)

// Recovery is the catch-all error boundary: any panic below it becomes a 500
// carrying the panic description.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				respond.Error(c, http.StatusInternalServerError, "internal", InternalErrorMessage(rec))
			}
		}()
		c.Next()
	}
}

// InternalErrorMessage formats the body message for an unhandled fault.
func InternalErrorMessage(cause any) string {
	return fmt.Sprintf("An internal server error occurred: %v. Please check the server logs for more details.", cause)
}
