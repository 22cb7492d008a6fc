package domain

import "time"

// Preferences stores a user's default generation settings. Upserted as a
// whole document keyed by user id; last write wins.
type Preferences struct {
	UserID                string    `json:"user_id"`
	DefaultPlatform       string    `json:"default_platform,omitempty"`
	DefaultTemplateID     string    `json:"default_template_id,omitempty"`
	DefaultStyleProfileID string    `json:"default_style_profile_id,omitempty"`
	Theme                 string    `json:"theme,omitempty"`
	UpdatedAt             time.Time `json:"updated_at"`
}
