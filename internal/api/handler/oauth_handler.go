package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/draftforge/content-platform/internal/api/middleware"
	"github.com/draftforge/content-platform/internal/core/ports"
	"github.com/draftforge/content-platform/internal/infrastructure/oauth"
	"github.com/draftforge/content-platform/internal/metrics"
)

const (
	stateCookieName    = "df_oauth_state"
	redirectCookieName = "df_oauth_redirect"
	stateTTL           = 10 * time.Minute
)

// OAuthHandler drives the OAuth authorization-code flow for one provider.
type OAuthHandler struct {
	provider    oauth.Provider
	authService ports.AuthService
	cookieTTL   time.Duration
	log         zerolog.Logger
}

func NewOAuthHandler(provider oauth.Provider, authService ports.AuthService, cookieTTL time.Duration, log zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{
		provider:    provider,
		authService: authService,
		cookieTTL:   cookieTTL,
		log:         log,
	}
}

// Redirect sends the caller to the provider's consent page with a fresh
// anti-forgery state. An optional callbackUrl query parameter is preserved
// for after the round trip.
//
// @Summary      Start OAuth sign-in
// @Tags         auth
// @Param        callbackUrl  query  string  false  "Path to return to after sign-in"
// @Success      302  "redirect to the provider consent page"
// @Router       /v1/auth/oauth/google [get]
func (h *OAuthHandler) Redirect(c echo.Context) error {
	state := randomState()
	h.setFlowCookie(c, stateCookieName, state)

	if cb := c.QueryParam(middleware.CallbackParam); isLocalPath(cb) {
		h.setFlowCookie(c, redirectCookieName, cb)
	}

	return c.Redirect(http.StatusFound, h.provider.LoginURL(state))
}

// Callback completes the flow: state check, code exchange, identity binding,
// session cookie. Failures redirect to sign-in with an error query parameter
// instead of rendering an error page.
//
// @Summary      OAuth callback
// @Tags         auth
// @Param        code   query  string  true  "Authorization code"
// @Param        state  query  string  true  "Anti-forgery state"
// @Success      302  "redirect to the stored callback path or the dashboard"
// @Router       /v1/auth/oauth/google/callback [get]
func (h *OAuthHandler) Callback(c echo.Context) error {
	provider := h.provider.Name()

	cookie, err := c.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
		return h.fail(c, provider, "state_mismatch")
	}
	h.clearFlowCookie(c, stateCookieName)

	code := c.QueryParam("code")
	if code == "" {
		return h.fail(c, provider, "missing_code")
	}

	info, err := h.provider.Exchange(c.Request().Context(), code)
	if err != nil {
		h.log.Warn().Err(err).Str("provider", provider).Msg("oauth exchange failed")
		return h.fail(c, provider, "exchange_failed")
	}

	token, _, err := h.authService.OAuthSignIn(c.Request().Context(), *info)
	if err != nil {
		h.log.Error().Err(err).Str("provider", provider).Msg("oauth sign-in failed")
		return h.fail(c, provider, "signin_failed")
	}
	metrics.OAuthSignInsTotal.WithLabelValues(provider, "success").Inc()

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	target := middleware.LandingPath
	if rc, err := c.Cookie(redirectCookieName); err == nil && isLocalPath(rc.Value) {
		target = rc.Value
	}
	h.clearFlowCookie(c, redirectCookieName)

	return c.Redirect(http.StatusFound, target)
}

func (h *OAuthHandler) fail(c echo.Context, provider, reason string) error {
	metrics.OAuthSignInsTotal.WithLabelValues(provider, "error").Inc()
	return c.Redirect(http.StatusFound, middleware.SignInPath+"?error="+url.QueryEscape(reason))
}

func (h *OAuthHandler) setFlowCookie(c echo.Context, name, value string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *OAuthHandler) clearFlowCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// isLocalPath reports whether p is a same-origin path safe to redirect to.
// A single leading slash is required; "//host" is protocol-relative and would
// send the browser off-site.
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//")
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
