package httpserver

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/docvault/internal/logging"
	"github.com/Skotchmaster/docvault/internal/middleware"
	"github.com/Skotchmaster/docvault/internal/service"
)

type ShareHTTP struct {
	Svc *service.ShareService
}

func (h *ShareHTTP) Share(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "document_share")

	var req struct {
		Email      string `json:"email"`
		DocumentID string `json:"document_id"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("share_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "document not found")
	}

	grant, err := h.Svc.Share(ctx, middleware.UserID(c), req.Email, docID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("document shared to %s", grant.SharedTo),
	})
}

func (h *ShareHTTP) SharedWith(c echo.Context) error {
	ctx := c.Request().Context()

	views, err := h.Svc.ListSharedWith(ctx, middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, views)
}
