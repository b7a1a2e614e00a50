package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/docvault/internal/middleware"
)

type Deps struct {
	Auth      *AuthHTTP
	Documents *DocumentHTTP
	Shares    *ShareHTTP
	Search    *SearchHTTP
	Gate      *middleware.AccessGate
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	u := e.Group("/user")

	u.POST("/register", d.Auth.Register)
	u.POST("/login", d.Auth.Login)
	u.POST("/refresh", d.Auth.Refresh)
	u.POST("/logout", d.Auth.Logout)
	u.GET("/profile", d.Auth.Profile, d.Gate.RequireBearer)

	session := u.Group("", d.Gate.RequireSession)

	session.POST("/upload", d.Documents.Upload)
	session.GET("/documents", d.Documents.List)
	session.GET("/download", d.Documents.Download)
	session.DELETE("/delete", d.Documents.Delete)
	session.POST("/share", d.Shares.Share)
	session.GET("/sharedDoc", d.Shares.SharedWith)

	if d.Search != nil {
		session.GET("/search", d.Search.Search)
	}
}
