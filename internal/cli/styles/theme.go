// Package styles provides reusable lipgloss-based TUI components.
package styles

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds lipgloss colors and styles for the TUI surfaces.
type Theme struct {
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Accent lipgloss.Color
	Border lipgloss.Color

	Error   lipgloss.Color
	Warning lipgloss.Color
	Success lipgloss.Color

	Title        lipgloss.Style
	Normal       lipgloss.Style
	Subtle       lipgloss.Style
	ErrorStyle   lipgloss.Style
	SuccessStyle lipgloss.Style

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style

	Badge      lipgloss.Style
	BadgeMuted lipgloss.Style

	Box lipgloss.Style
}

// NewTheme creates a Theme for the given theme name (light or dark).
func NewTheme(name string) *Theme {
	t := &Theme{
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#909090"),
		Accent:  lipgloss.Color("#4ade80"),
		Border:  lipgloss.Color("#333333"),
		Error:   lipgloss.Color("#f87171"),
		Warning: lipgloss.Color("#fbbf24"),
		Success: lipgloss.Color("#4ade80"),
	}
	if name == "light" {
		t.Text = lipgloss.Color("#1a1a1b")
		t.Muted = lipgloss.Color("#6b6b6b")
		t.Border = lipgloss.Color("#cccccc")
	}

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.Normal = lipgloss.NewStyle().Foreground(t.Text)
	t.Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	t.SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)

	t.ListItem = lipgloss.NewStyle().PaddingLeft(2)
	t.ListItemSelected = lipgloss.NewStyle().PaddingLeft(0).
		Foreground(t.Accent).Bold(true)

	t.Badge = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#0a0a0b")).
		Background(t.Accent).
		Padding(0, 1)
	t.BadgeMuted = lipgloss.NewStyle().
		Foreground(t.Muted).
		Padding(0, 1)

	t.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return t
}

// SourceBadge renders the resolution source of an icon as a badge.
func (t *Theme) SourceBadge(kind string) string {
	switch kind {
	case "custom", "cached", "provider":
		return t.Badge.Render(kind)
	default:
		return t.BadgeMuted.Render(kind)
	}
}

// CountBadge renders an "n entries" badge.
func (t *Theme) CountBadge(n int, noun string) string {
	text := fmt.Sprintf("%d %ss", n, noun)
	if n == 1 {
		text = fmt.Sprintf("1 %s", noun)
	}
	return t.BadgeMuted.Render(text)
}

// RelativeTime formats a time as a human-readable relative string.
func RelativeTime(tm time.Time) string {
	diff := time.Since(tm)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
