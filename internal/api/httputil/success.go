package httputil

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status string `json:"status"`
}

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, &HealthResponse{Status: "healthy"})
}

func SearchResult(c echo.Context, result interface{}) error {
	return c.JSON(http.StatusOK, result)
}
