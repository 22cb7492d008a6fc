package ports

import (
	"context"

	"github.com/draftforge/content-platform/internal/core/domain"
)

// PreferencesRepository persists per-user generation defaults.
type PreferencesRepository interface {
	Get(ctx context.Context, userID string) (*domain.Preferences, error)
	// Upsert replaces the whole preferences document keyed by user id.
	Upsert(ctx context.Context, prefs *domain.Preferences) error
}
