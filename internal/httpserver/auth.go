package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/docvault/internal/logging"
	"github.com/Skotchmaster/docvault/internal/middleware"
	"github.com/Skotchmaster/docvault/internal/service"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_register")

	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Svc.Register(ctx, req.FirstName, req.LastName, req.Email, req.Password); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "user created successfully",
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	c.SetCookie(CreateCookie(middleware.RefreshCookieName, res.RefreshToken, "/", res.RefreshExp))

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	cookie, err := c.Cookie(middleware.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token not found")
	}

	accessToken, _, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": accessToken,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_logout")

	if cookie, err := c.Cookie(middleware.RefreshCookieName); err == nil && cookie.Value != "" {
		if err := h.Svc.Logout(ctx, cookie.Value); err != nil {
			c.SetCookie(DeleteCookie(middleware.RefreshCookieName, "/"))
			l.Error("logout_failed", "error", err)
			return httpError(err)
		}
	}

	c.SetCookie(DeleteCookie(middleware.RefreshCookieName, "/"))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "logout success",
	})
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.Svc.Profile(ctx, middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, user)
}
