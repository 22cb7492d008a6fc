package domain

import "time"

// Template describes a content template offered by the backend.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Platform    string `json:"platform,omitempty"`
}

// StyleProfile describes a writing-style profile offered by the backend.
type StyleProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tone string `json:"tone,omitempty"`
}

// ContentItem is a generated piece of content owned by the backend.
type ContentItem struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id,omitempty"`
	Title       string    `json:"title,omitempty"`
	Body        string    `json:"body,omitempty"`
	Platform    string    `json:"platform,omitempty"`
	Published   bool      `json:"published"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}
