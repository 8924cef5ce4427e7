// Package httputil renders the uniform error/success envelope for the
// HTTP collaborator, following the teacher's
// internal/handler/httputil package.
package httputil

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error codes carried in ErrorDetail.Code.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeTimeout            = "TIMEOUT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// ErrorDetail is the JSON body of every non-2xx response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func BadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, &ErrorDetail{Code: CodeInvalidRequest, Message: message})
}

func ValidationError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, &ErrorDetail{Code: CodeValidationError, Message: message})
}

func ServiceUnavailable(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, &ErrorDetail{
		Code: CodeServiceUnavailable, Message: "all sources failed to respond",
	})
}

func GatewayTimeout(c echo.Context) error {
	return c.JSON(http.StatusGatewayTimeout, &ErrorDetail{Code: CodeTimeout, Message: "search timed out"})
}

func InternalError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, &ErrorDetail{
		Code: CodeInternalError, Message: "unexpected internal error",
	})
}
