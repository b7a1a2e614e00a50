package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/docvault/internal/service"
)

// httpError maps a service outcome onto a status code. Internal failures get
// a generic message so nothing leaks past the boundary.
func httpError(err error) *echo.HTTPError {
	switch service.KindOf(err) {
	case service.KindUnauthorized:
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case service.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case service.KindConflict:
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
