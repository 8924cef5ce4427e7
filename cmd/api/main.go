package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/flightcore/crawl/internal/api"
	"github.com/flightcore/crawl/internal/bootstrap"
	"github.com/flightcore/crawl/internal/config"
)

const gracefullShutdownTimeout = 10 * time.Second

// refreshSweepSpec runs the same popularity-driven background refresh
// as cmd/core. A single cmd/api process is a complete deployment on its
// own; this process always starts its own scheduler, and there is no
// option to run it without one — see bootstrap.Build for the wiring
// both share.
const refreshSweepSpec = "*/5 * * * *"

func main() {
	cfg := config.MustLoad()
	api.SetupLogger(cfg)

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Msg("configuration loaded")

	pipeline := bootstrap.Build(cfg)

	if err := pipeline.Scheduler.Start(refreshSweepSpec); err != nil {
		log.Fatal().Err(err).Msg("failed to start refresh scheduler")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	api.SetupMiddleware(e)
	api.SetupRouter(e, cfg, pipeline.Service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Str("address", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	gracefullShutdown(e, pipeline)
}

func gracefullShutdown(e *echo.Echo, pipeline *bootstrap.Pipeline) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("shutting down server")

	pipeline.Scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), gracefullShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	log.Info().Msg("server stopped")
}
