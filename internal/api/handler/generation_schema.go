package handler

import "github.com/draftforge/content-platform/internal/core/domain"

type submitGenerationRequest struct {
	TemplateID        string         `json:"template_id"        validate:"required"`
	StyleProfileID    string         `json:"style_profile_id"   validate:"required"`
	DynamicParameters map[string]any `json:"dynamic_parameters" validate:"omitempty"`
	Platform          string         `json:"platform"           validate:"omitempty,max=60"`
}

type submitGenerationResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

type generationStatusResponse struct {
	RequestID string         `json:"request_id"`
	Status    string         `json:"status"`
	Progress  int            `json:"progress"`
	Content   string         `json:"content,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Message   string         `json:"message,omitempty"`
}

func toStatusResponse(gen *domain.Generation) generationStatusResponse {
	return generationStatusResponse{
		RequestID: gen.RequestID,
		Status:    string(gen.Status),
		Progress:  gen.Progress,
		Content:   gen.Content,
		Metadata:  gen.Metadata,
		Message:   gen.Message,
	}
}
