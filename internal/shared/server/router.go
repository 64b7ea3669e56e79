package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-coach/internal/coach"
	"resume-coach/internal/services/health"
	"resume-coach/internal/shared/config"
	"resume-coach/internal/shared/metrics"
	"resume-coach/internal/shared/server/middleware"
	"resume-coach/internal/shared/server/respond"
	"resume-coach/internal/web"
)

// Deps are the handlers mounted by NewRouter.
type Deps struct {
	Coach  *coach.Handler
	Health *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/", web.Index)
	r.GET("/healthz", deps.Health.Handle)
	r.GET("/metrics", metrics.Handler())
	deps.Coach.RegisterRoutes(r)

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "The requested URL was not found on the server.")
	})
	r.NoMethod(func(c *gin.Context) {
		respond.Error(c, http.StatusMethodNotAllowed, "method_not_allowed", "The method is not allowed for the requested URL.")
	})
	r.HandleMethodNotAllowed = true

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
