package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/draftforge/content-platform/internal/core/domain"
	"github.com/draftforge/content-platform/internal/core/ports"
)

const (
	defaultAwait = 30 * time.Second
	maxAwait     = 60 * time.Second
)

// GenerationHandler handles generation submission and status polling.
type GenerationHandler struct {
	service ports.GenerationService
}

func NewGenerationHandler(service ports.GenerationService) *GenerationHandler {
	return &GenerationHandler{service: service}
}

// Submit handles POST /v1/generations — forwards a validated submission to
// the backend and returns the assigned request id. Validation failures never
// reach the backend.
//
// @Summary      Submit a generation request
// @Tags         generations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitGenerationRequest  true  "Generation request"
// @Success      202   {object}  submitGenerationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/generations [post]
func (h *GenerationHandler) Submit(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req submitGenerationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	requestID, err := h.service.Submit(c.Request().Context(), ports.SubmitInput{
		TemplateID:     req.TemplateID,
		StyleProfileID: req.StyleProfileID,
		Parameters:     req.DynamicParameters,
		Platform:       req.Platform,
		UserID:         identity.ID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, submitGenerationResponse{
		RequestID: requestID,
		Status:    string(domain.StatusPending),
	})
}

// Status handles GET /v1/generations/:request_id — one poll of the backend's
// view, with the configured degraded-mode fallbacks applied.
//
// @Summary      Poll generation status
// @Tags         generations
// @Produce      json
// @Security     BearerAuth
// @Param        request_id  path      string  true  "Request id"
// @Success      200         {object}  generationStatusResponse
// @Failure      401         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /v1/generations/{request_id} [get]
func (h *GenerationHandler) Status(c echo.Context) error {
	requestID := c.Param("request_id")
	if requestID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "request_id is required")
	}

	gen, err := h.service.Status(c.Request().Context(), requestID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatusResponse(gen))
}

// Wait handles GET /v1/generations/:request_id/wait — long-polls until the
// request reaches a terminal state or the wait budget runs out, returning
// the last observed snapshot either way.
//
// @Summary      Wait for a generation to finish
// @Tags         generations
// @Produce      json
// @Security     BearerAuth
// @Param        request_id  path      string  true   "Request id"
// @Param        timeout     query     string  false  "Maximum wait (e.g. 30s, capped at 60s)"
// @Success      200         {object}  generationStatusResponse
// @Failure      401         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /v1/generations/{request_id}/wait [get]
func (h *GenerationHandler) Wait(c echo.Context) error {
	requestID := c.Param("request_id")
	if requestID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "request_id is required")
	}

	wait := defaultAwait
	if raw := c.QueryParam("timeout"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid timeout")
		}
		wait = d
	}
	if wait > maxAwait {
		wait = maxAwait
	}

	gen, err := h.service.Await(c.Request().Context(), requestID, wait)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatusResponse(gen))
}
