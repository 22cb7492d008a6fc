package ports

import (
	"context"

	"github.com/draftforge/content-platform/internal/core/domain"
)

// IdentityRepository defines the persistence interface for identities and
// their optional credential records. All email parameters are expected to be
// normalized by the caller.
type IdentityRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	// Create inserts a new identity. passwordHash is empty for pure-OAuth
	// accounts. Duplicate normalized emails return domain.ErrUserExists.
	Create(ctx context.Context, identity *domain.Identity, passwordHash string) (*domain.Identity, error)
	// UpdateProfile re-syncs provider-supplied fields on an existing identity.
	UpdateProfile(ctx context.Context, id, name, image string) error
	// FindCredential returns the credential record bound to the email, or
	// domain.ErrUserNotFound when the account has none.
	FindCredential(ctx context.Context, email string) (*domain.Credential, error)
}
