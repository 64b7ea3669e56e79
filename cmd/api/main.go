package main

import (
	"context"
	"os"

	"resume-coach/internal/bootstrap"
	"resume-coach/internal/shared/config"
	"resume-coach/internal/shared/server"
	"resume-coach/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Configure(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		telemetry.Error("startup.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	addr := server.Addr(cfg.Port)
	telemetry.Info("server.start", map[string]any{
		"addr":  addr,
		"env":   cfg.Env,
		"model": cfg.GeminiModel,
	})

	if err := app.Router.Run(addr); err != nil {
		telemetry.Error("server.error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
