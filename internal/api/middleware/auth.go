package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/draftforge/content-platform/internal/core/domain"
)

// SessionCookieName is the cookie carrying the session token for browser
// clients. API clients may use a bearer header instead.
const SessionCookieName = "df_session"

// SessionResolver validates a session token and returns the bound identity.
// Implemented by the auth service; resolution always checks the identity
// store so deleted users fail closed.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}

// Auth authenticates API requests and injects the identity into context.
// Missing or invalid sessions get a 401; redirects are the Guard's job.
func Auth(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}

			identity, err := resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			c.Set("identity", identity)
			c.Set("user_id", identity.ID)
			c.Set("email", identity.Email)

			return next(c)
		}
	}
}

// ExtractToken pulls the session token from the Authorization header or,
// failing that, the session cookie. Returns "" when neither is present.
func ExtractToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
