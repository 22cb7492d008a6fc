package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/draftforge/content-platform/internal/core/domain"
	"github.com/draftforge/content-platform/internal/core/ports"
)

// PreferencesHandler serves per-user generation defaults. The repository is
// used directly: preferences are a pure upsert/read document with no
// business rules to host in a service.
type PreferencesHandler struct {
	repo ports.PreferencesRepository
}

func NewPreferencesHandler(repo ports.PreferencesRepository) *PreferencesHandler {
	return &PreferencesHandler{repo: repo}
}

type preferencesRequest struct {
	DefaultPlatform       string `json:"default_platform"         validate:"omitempty,max=60"`
	DefaultTemplateID     string `json:"default_template_id"      validate:"omitempty,max=120"`
	DefaultStyleProfileID string `json:"default_style_profile_id" validate:"omitempty,max=120"`
	Theme                 string `json:"theme"                    validate:"omitempty,oneof=light dark system"`
}

// Get handles GET /v1/preferences. A user who never saved preferences gets
// an empty document, not a 404.
//
// @Summary      Get preferences
// @Tags         preferences
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Preferences
// @Failure      401  {object}  errorResponse
// @Router       /v1/preferences [get]
func (h *PreferencesHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	prefs, err := h.repo.Get(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}

// Put handles PUT /v1/preferences — whole-document upsert, last write wins.
//
// @Summary      Save preferences
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      preferencesRequest  true  "Preferences"
// @Success      200   {object}  domain.Preferences
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/preferences [put]
func (h *PreferencesHandler) Put(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req preferencesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	prefs := &domain.Preferences{
		UserID:                identity.ID,
		DefaultPlatform:       req.DefaultPlatform,
		DefaultTemplateID:     req.DefaultTemplateID,
		DefaultStyleProfileID: req.DefaultStyleProfileID,
		Theme:                 req.Theme,
	}
	if err := h.repo.Upsert(c.Request().Context(), prefs); err != nil {
		return err
	}

	saved, err := h.repo.Get(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saved)
}
