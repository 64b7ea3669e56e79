package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"resume-coach/internal/coach"
	"resume-coach/internal/llm"
	"resume-coach/internal/llm/gemini"
	"resume-coach/internal/services/health"
	"resume-coach/internal/shared/config"
	"resume-coach/internal/shared/server"
)

// App holds shared dependencies.
type App struct {
	Config       config.Config
	Router       *gin.Engine
	LLM          llm.Client
	CoachService *coach.Service
	CoachHandler *coach.Handler
	Health       *health.Service
}

// Build validates the configuration, connects the Gemini client and wires
// the router. It fails before anything listens when the credential is missing.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	return BuildWithClient(cfg, client), nil
}

// BuildWithClient wires the app around an existing model client.
func BuildWithClient(cfg config.Config, client llm.Client) *App {
	app := &App{
		Config: cfg,
		LLM:    client,
		Health: health.NewService(cfg.GeminiModel),
	}
	app.CoachService = coach.NewService(client)
	app.CoachHandler = coach.NewHandler(app.CoachService)

	app.Router = server.NewRouter(cfg, server.Deps{
		Coach:  app.CoachHandler,
		Health: app.Health,
	})

	return app
}
