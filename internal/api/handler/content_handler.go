package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/draftforge/content-platform/internal/core/domain"
	"github.com/draftforge/content-platform/internal/core/ports"
)

// ContentHandler serves template, style-profile, and content routes as typed
// proxies to the generation backend. The backend owns all content state.
type ContentHandler struct {
	backend ports.GenerationBackend
}

func NewContentHandler(backend ports.GenerationBackend) *ContentHandler {
	return &ContentHandler{backend: backend}
}

type listTemplatesResponse struct {
	Templates []domain.Template `json:"templates"`
}

type listStyleProfilesResponse struct {
	StyleProfiles []domain.StyleProfile `json:"style_profiles"`
}

type listContentResponse struct {
	Content []domain.ContentItem `json:"content"`
}

// ListTemplates handles GET /v1/templates.
//
// @Summary      List content templates
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listTemplatesResponse
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/templates [get]
func (h *ContentHandler) ListTemplates(c echo.Context) error {
	templates, err := h.backend.ListTemplates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listTemplatesResponse{Templates: templates})
}

// ListStyleProfiles handles GET /v1/style-profiles.
//
// @Summary      List style profiles
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listStyleProfilesResponse
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/style-profiles [get]
func (h *ContentHandler) ListStyleProfiles(c echo.Context) error {
	profiles, err := h.backend.ListStyleProfiles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listStyleProfilesResponse{StyleProfiles: profiles})
}

// ListContent handles GET /v1/content — the caller's generated content.
//
// @Summary      List generated content
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listContentResponse
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/content [get]
func (h *ContentHandler) ListContent(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	items, err := h.backend.ListContent(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listContentResponse{Content: items})
}

// Publish handles POST /v1/content/:id/publish.
//
// @Summary      Publish a content item
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Content id"
// @Success      200  {object}  domain.ContentItem
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/content/{id}/publish [post]
func (h *ContentHandler) Publish(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content id is required")
	}

	item, err := h.backend.PublishContent(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}
