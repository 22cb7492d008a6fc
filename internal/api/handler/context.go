package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/draftforge/content-platform/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. Its
// presence proves the middleware ran; a handler reached without it is a
// routing mistake, rejected with 401 rather than trusted.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity, _ := c.Get("identity").(*domain.Identity)
	if identity == nil || identity.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return identity, nil
}
