package ports

import (
	"context"

	"github.com/draftforge/content-platform/internal/core/domain"
)

// OAuthUserInfo is the profile returned by an external identity provider
// after a successful code exchange.
type OAuthUserInfo struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
	Image      string
}

type AuthService interface {
	// Register creates a credential-backed identity. The returned identity
	// carries the persisted record's id.
	Register(ctx context.Context, email, password, name string) (*domain.Identity, error)
	// Login verifies credentials and issues a session token. clientIP feeds
	// the failed-attempt throttle.
	Login(ctx context.Context, email, password, clientIP string) (string, *domain.Identity, error)
	// OAuthSignIn binds the provider identity to an existing identity with
	// the same normalized email, or creates one, then issues a session token.
	OAuthSignIn(ctx context.Context, info OAuthUserInfo) (string, *domain.Identity, error)
	// Resolve validates a session token and returns the bound identity.
	// Fails closed: expired tokens, bad signatures, and identities that no
	// longer exist all return an error.
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
	// Refresh re-issues a token whose age exceeds the update window,
	// re-syncing name/image from the identity store. Returns the input token
	// unchanged when it is still inside the window.
	Refresh(ctx context.Context, token string) (string, error)
}
