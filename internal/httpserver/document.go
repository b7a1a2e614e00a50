package httpserver

import (
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/docvault/internal/logging"
	"github.com/Skotchmaster/docvault/internal/middleware"
	"github.com/Skotchmaster/docvault/internal/service"
)

type DocumentHTTP struct {
	Svc *service.DocumentService
}

func (h *DocumentHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "document_upload")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		l.Warn("upload_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "file field is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		l.Error("upload_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		l.Error("upload_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	in := service.UploadInput{
		OriginalName: fileHeader.Filename,
		Encoding:     fileHeader.Header.Get("Content-Transfer-Encoding"),
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Size:         int64(len(data)),
		Data:         data,
	}

	doc, err := h.Svc.Upload(ctx, middleware.UserID(c), in)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":     "file uploaded successfully",
		"document_id": doc.ID,
	})
}

func (h *DocumentHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	summaries, err := h.Svc.List(ctx, middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, summaries)
}

func (h *DocumentHTTP) Download(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := documentID(c)
	if err != nil {
		return err
	}

	doc, data, err := h.Svc.Download(ctx, middleware.UserID(c), id)
	if err != nil {
		return httpError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment;filename=%s", doc.OriginalName))
	return c.Blob(http.StatusOK, doc.MimeType, data)
}

func (h *DocumentHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := documentID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, middleware.UserID(c), id); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "document deleted successfully",
	})
}

func documentID(c echo.Context) (uuid.UUID, error) {
	raw := c.QueryParam("id")
	if raw == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, "id not found")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, "document not found")
	}
	return id, nil
}
