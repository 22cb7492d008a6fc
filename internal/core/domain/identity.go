package domain

import (
	"errors"
	"strings"
	"time"
)

// Auth methods recorded when a session is issued.
const (
	MethodCredentials = "credentials"
	MethodOAuth       = "oauth"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTooManyAttempts = errors.New("too many failed login attempts")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrSessionExpired = errors.New("session expired")
var ErrSessionInvalid = errors.New("session invalid")

// Identity is a stable user record, independent of how the user authenticated.
// Created on first successful OAuth sign-in or credential registration;
// name/image are re-synced on subsequent OAuth sign-ins. Never deleted here.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Credential holds the password hash for a credential-based account.
// Absent for pure-OAuth accounts. The email of a credential always matches
// exactly one Identity.
type Credential struct {
	IdentityID   string
	PasswordHash string
}

// NormalizeEmail canonicalizes an email for lookup and storage: trimmed and
// lower-cased. All identity lookups key on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
