package api

import (
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/flightcore/crawl/internal/api/httputil"
	"github.com/flightcore/crawl/internal/config"
	"github.com/flightcore/crawl/internal/service"
)

// SetupLogger configures the global zerolog logger from config,
// exactly as the teacher's internal/api.SetupLogger does.
func SetupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if cfg.Logging.Format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	switch cfg.Logging.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// SetupMiddleware installs the process-wide middleware stack: panic
// recovery, request ID propagation, and a zerolog-backed access log,
// mirroring the teacher's SetupMiddleware.
func SetupMiddleware(e *echo.Echo) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("http request")
			return nil
		},
	}))
}

// SetupRouter registers routes and the route-scoped middleware
// (CORS, per-request timeout) on the /api/v1 group.
func SetupRouter(e *echo.Echo, cfg *config.Config, svc *service.Service) {
	e.GET("/health", func(c echo.Context) error { return httputil.HealthCheck(c) })

	handler := NewSearchHandler(svc, &log.Logger)

	v1 := e.Group("/api/v1")
	v1.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))
	v1.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: cfg.Executor.InteractiveDeadline + 500*time.Millisecond,
	}))

	v1.POST("/search", handler.HandleSearch)
}
