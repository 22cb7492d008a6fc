package handler

import "github.com/draftforge/content-platform/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"     validate:"omitempty,max=120"`
}

// registerResponse reports success even when the verification email could
// not be delivered; EmailError carries the warning in that case.
type registerResponse struct {
	Success    bool             `json:"success"`
	User       *domain.Identity `json:"user"`
	EmailError string           `json:"email_error,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token string           `json:"token"`
	User  *domain.Identity `json:"user"`
}

// sessionCheckResponse is the payload of the internal session-check
// endpoint. It always accompanies HTTP 200: an invalid session is reported
// as authenticated=false, never as an error.
type sessionCheckResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *domain.Identity `json:"user"`
}
