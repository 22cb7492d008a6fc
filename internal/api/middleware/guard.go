package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// RouteClass is the access classification of a request path.
type RouteClass int

const (
	// Public paths are served regardless of authentication.
	Public RouteClass = iota
	// AuthOnly paths (sign-in, sign-up) redirect authenticated callers away.
	AuthOnly
	// Protected paths require a valid session.
	Protected
)

const (
	// SignInPath receives unauthenticated callers of protected paths.
	SignInPath = "/auth/signin"
	// LandingPath receives authenticated callers of auth-only paths.
	LandingPath = "/dashboard"
	// CallbackParam preserves the originally requested path across sign-in.
	CallbackParam = "callbackUrl"
)

// RouteTable configures the guard's static prefix classification. Skip
// prefixes are never classified at all; they cover static assets, the
// guard's own session-check endpoint, and OAuth callback routes, which must
// stay reachable to avoid circular blocking.
type RouteTable struct {
	Protected []string
	AuthOnly  []string
	Skip      []string
}

// DefaultRouteTable returns the application's route classification.
func DefaultRouteTable() RouteTable {
	return RouteTable{
		Protected: []string{"/dashboard", "/generate", "/content", "/templates", "/settings", "/profile"},
		AuthOnly:  []string{"/auth/signin", "/auth/signup"},
		Skip: []string{
			"/static", "/assets", "/favicon.ico",
			"/api/internal/session-check",
			"/v1/auth", // login, register, OAuth redirect + callback
			"/health", "/metrics", "/swagger",
		},
	}
}

// Classify returns the access class for a path. Skipped prefixes classify
// as Public.
func (t RouteTable) Classify(path string) RouteClass {
	if matchPrefix(t.Skip, path) {
		return Public
	}
	if matchPrefix(t.Protected, path) {
		return Protected
	}
	if matchPrefix(t.AuthOnly, path) {
		return AuthOnly
	}
	return Public
}

func matchPrefix(prefixes []string, path string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Guard enforces the route table on page-style routes:
//   - Protected + unauthenticated → 302 to sign-in with the original path as
//     the callback parameter.
//   - AuthOnly + authenticated → 302 to the landing page.
//   - Otherwise → pass through.
//
// Authentication is decided by one in-process resolver call; any resolver
// error counts as unauthenticated (fail closed, never an error page).
func Guard(resolver SessionResolver, table RouteTable) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			class := table.Classify(path)
			if class == Public {
				return next(c)
			}

			authenticated := false
			if token := ExtractToken(c); token != "" {
				if _, err := resolver.Resolve(c.Request().Context(), token); err == nil {
					authenticated = true
				}
			}

			switch {
			case class == Protected && !authenticated:
				target := SignInPath + "?" + CallbackParam + "=" + url.QueryEscape(path)
				return c.Redirect(http.StatusFound, target)
			case class == AuthOnly && authenticated:
				return c.Redirect(http.StatusFound, LandingPath)
			}

			return next(c)
		}
	}
}
