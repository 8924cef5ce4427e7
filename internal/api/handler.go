package api

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/flightcore/crawl/core"
	"github.com/flightcore/crawl/internal/api/httputil"
	"github.com/flightcore/crawl/internal/executor"
	"github.com/flightcore/crawl/internal/service"
)

// SearchHandler adapts HTTP requests onto the service.Service search
// contract, following the shape of the teacher's flight.FlightHandler.
type SearchHandler struct {
	service *service.Service
	logger  *zerolog.Logger
}

// NewSearchHandler builds a SearchHandler.
func NewSearchHandler(svc *service.Service, logger *zerolog.Logger) *SearchHandler {
	return &SearchHandler{service: svc, logger: logger}
}

// HandleSearch processes POST /api/v1/search.
func (h *SearchHandler) HandleSearch(c echo.Context) error {
	start := time.Now()
	ctx := c.Request().Context()

	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn().Err(err).Msg("failed to parse search request")
		return httputil.BadRequest(c, "request body could not be parsed")
	}
	req.Normalize()

	if err := req.Validate(); err != nil {
		h.logger.Warn().Err(err).Interface("request", req).Msg("search request failed validation")
		return httputil.ValidationError(c, err.Error())
	}

	q, err := ToQuery(req)
	if err != nil {
		return httputil.BadRequest(c, err.Error())
	}

	h.logger.Info().
		Str("origin", q.Origin).Str("destination", q.Destination).
		Str("departure_date", q.DepartureDate.Format("2006-01-02")).
		Msg("processing search request")

	result, err := h.service.Search(ctx, q, executor.ModeInteractive, ToOptions(req))
	if err != nil {
		return h.handleError(c, err, start)
	}

	resp := NewSearchResponse(q, result)
	h.logger.Info().
		Int("total_results", resp.Metadata.TotalResults).
		Str("cache_state", resp.Metadata.CacheState).
		Dur("latency", time.Since(start)).
		Msg("search request completed")

	return httputil.SearchResult(c, resp)
}

func (h *SearchHandler) handleError(c echo.Context, err error, start time.Time) error {
	latency := time.Since(start)

	switch {
	case errors.Is(err, core.ErrInvalidQuery):
		h.logger.Warn().Err(err).Dur("latency", latency).Msg("invalid query")
		return httputil.BadRequest(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, core.ErrTimeout):
		h.logger.Error().Err(err).Dur("latency", latency).Msg("search timeout")
		return httputil.GatewayTimeout(c)
	case errors.Is(err, core.ErrAllSourcesFailed), errors.Is(err, core.ErrNoRoute):
		h.logger.Error().Err(err).Dur("latency", latency).Msg("no source could serve this route")
		return httputil.ServiceUnavailable(c)
	default:
		h.logger.Error().Err(err).Dur("latency", latency).Msg("unexpected search error")
		return httputil.InternalError(c)
	}
}
