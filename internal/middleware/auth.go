package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/docvault/internal/service"
)

// RefreshCookieName is the HTTP-only cookie the refresh token travels in.
const RefreshCookieName = "refresh_token"

// AccessGate resolves an authenticated identity from the request before any
// document or sharing operation runs. A missing credential is always
// Unauthorized, never NotFound.
type AccessGate struct {
	Auth *service.AuthService
}

// RequireSession guards the document operations: the refresh-token cookie
// must be present and validly signed.
func (g *AccessGate) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(RefreshCookieName)
		if err != nil || cookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token not found")
		}

		userID, err := g.Auth.Verify(cookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired refresh token")
		}

		c.Set("user_id", userID)
		return next(c)
	}
}

// RequireBearer guards profile lookups with the short-lived access token.
func (g *AccessGate) RequireBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		userID, err := g.Auth.Verify(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired access token")
		}

		c.Set("user_id", userID)
		return next(c)
	}
}

// UserID pulls the identity the gate resolved for this request.
func UserID(c echo.Context) uuid.UUID {
	if id, ok := c.Get("user_id").(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
