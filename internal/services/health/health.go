package health

import (
	"github.com/gin-gonic/gin"

	"resume-coach/internal/shared/server/respond"
)

// Service reports liveness along with the configured model.
type Service struct {
	model string
}

// NewService constructs a new health service.
func NewService(model string) *Service {
	return &Service{model: model}
}

// Status returns the health payload.
func (s *Service) Status() gin.H {
	return gin.H{"ok": true, "model": s.model}
}

// Handle serves GET /healthz.
func (s *Service) Handle(c *gin.Context) {
	respond.OK(c, s.Status())
}
