package handler

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/draftforge/content-platform/internal/api/middleware"
	"github.com/draftforge/content-platform/internal/core/domain"
	"github.com/draftforge/content-platform/internal/core/ports"
	"github.com/draftforge/content-platform/internal/metrics"
)

// EmailQueue re-queues verification emails whose first delivery failed.
type EmailQueue interface {
	Enqueue(email ports.PendingEmail)
}

type AuthHandler struct {
	authService ports.AuthService
	sender      ports.EmailSender
	queue       EmailQueue
	cookieTTL   time.Duration
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, sender ports.EmailSender, queue EmailQueue, cookieTTL time.Duration, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sender:      sender,
		queue:       queue,
		cookieTTL:   cookieTTL,
		log:         log,
	}
}

// Register creates a credential-backed account and attempts a verification
// email. Email delivery failure does not fail the registration.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()

	resp := registerResponse{Success: true, User: user}
	if h.sender != nil {
		token := verificationToken()
		if err := h.sender.SendVerification(c.Request().Context(), user.Email, token); err != nil {
			h.log.Warn().Err(err).Str("user_id", user.ID).Msg("verification email failed, queueing retry")
			resp.EmailError = "verification email could not be sent"
			if h.queue != nil {
				h.queue.Enqueue(ports.PendingEmail{Recipient: user.Email, Token: token, Attempt: 1})
			}
		}
	}

	return c.JSON(http.StatusCreated, resp)
}

// Login verifies credentials, issues a session token, and sets the session
// cookie for browser clients.
//
// @Summary      Login with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, c.RealIP())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		default:
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, sessionResponse{Token: token, User: user})
}

// Logout clears the session cookie. The token itself simply ages out.
//
// @Summary      Logout
// @Tags         auth
// @Success      204  "session cookie cleared"
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

// Refresh re-issues the caller's session token once it is past the update
// window, re-syncing profile fields from the identity store.
//
// @Summary      Refresh the session token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := middleware.ExtractToken(c)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}

	refreshed, err := h.authService.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}

	user, err := h.authService.Resolve(c.Request().Context(), refreshed)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, refreshed)
	return c.JSON(http.StatusOK, sessionResponse{Token: refreshed, User: user})
}

// Me returns the authenticated caller's identity.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  errorResponse
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}

// SessionCheck reports whether the presented session is valid. It always
// answers 200: transport or resolution failures read as unauthenticated.
//
// @Summary      Internal session check
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionCheckResponse
// @Router       /api/internal/session-check [get]
func (h *AuthHandler) SessionCheck(c echo.Context) error {
	token := middleware.ExtractToken(c)
	if token == "" {
		return c.JSON(http.StatusOK, sessionCheckResponse{})
	}

	user, err := h.authService.Resolve(c.Request().Context(), token)
	if err != nil {
		return c.JSON(http.StatusOK, sessionCheckResponse{})
	}
	return c.JSON(http.StatusOK, sessionCheckResponse{Authenticated: true, User: user})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func verificationToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
