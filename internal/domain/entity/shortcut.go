// Package entity defines the core domain types for nexus.
package entity

import "github.com/google/uuid"

// Shortcut represents a single website tile on the start page.
// CustomIcon, when set, holds a self-contained data URI produced by the
// icon ingestion pipeline; empty means "resolve a favicon instead".
type Shortcut struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	CustomIcon string `json:"customIcon,omitempty"`
}

// NewShortcut creates a shortcut with a freshly generated id.
// IDs are generated, never user-supplied; they stay immutable for the
// lifetime of the record.
func NewShortcut(title, url string) Shortcut {
	return Shortcut{
		ID:    uuid.NewString(),
		Title: title,
		URL:   url,
	}
}

// HasCustomIcon reports whether a user-uploaded icon is attached.
func (s Shortcut) HasCustomIcon() bool {
	return s.CustomIcon != ""
}

// DefaultShortcuts returns the seed set shown to first-time users.
func DefaultShortcuts() []Shortcut {
	return []Shortcut{
		{ID: "1", Title: "ChatGPT", URL: "https://chat.openai.com"},
		{ID: "2", Title: "Gemini", URL: "https://gemini.google.com"},
		{ID: "3", Title: "GitHub", URL: "https://github.com"},
		{ID: "4", Title: "X", URL: "https://x.com"},
		{ID: "5", Title: "BiliBili", URL: "https://bilibili.com"},
	}
}
