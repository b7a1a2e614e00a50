package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/docvault/internal/middleware"
	"github.com/Skotchmaster/docvault/internal/search"
)

type SearchHTTP struct {
	Indexer *search.Indexer
}

func (h *SearchHTTP) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query error")
	}

	ctx := c.Request().Context()
	hits, err := h.Indexer.Search(ctx, middleware.UserID(c), q)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": len(hits), "documents": hits})
}
