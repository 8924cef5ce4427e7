// Command core runs the search-core pipeline with no HTTP surface: it
// wires every adapter through the Router, Fan-out Executor, Merger and
// Cache, and keeps the popularity-driven refresh scheduler of §4.6
// ticking so cache entries for popular routes stay warm even with no
// inbound HTTP traffic. cmd/api is the separate, thin collaborator that
// exposes this pipeline over HTTP.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/flightcore/crawl/internal/api"
	"github.com/flightcore/crawl/internal/bootstrap"
	"github.com/flightcore/crawl/internal/config"
)

const refreshSweepSpec = "*/5 * * * *"

func main() {
	cfg := config.MustLoad()
	api.SetupLogger(cfg)

	log.Info().Str("env", cfg.App.Env).Msg("search-core starting")

	pipeline := bootstrap.Build(cfg)

	if err := pipeline.Scheduler.Start(refreshSweepSpec); err != nil {
		log.Fatal().Err(err).Msg("failed to start refresh scheduler")
	}
	log.Info().Str("spec", refreshSweepSpec).Msg("refresh scheduler started")

	waitForShutdown()

	log.Info().Msg("shutting down search-core")
	pipeline.Scheduler.Stop()
	log.Info().Msg("search-core stopped")
}

func waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
}
