// Package ui provides terminal styling for dunders CLI output.
// Colors follow the Ayu theme and adapt to light and dark terminals.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mcoding/dunders/internal/types"
)

var (
	ColorPass  = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	ColorWarn  = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	ColorFail  = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	ColorMuted = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	ColorInfo  = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

var (
	passStyle     = lipgloss.NewStyle().Foreground(ColorPass)
	warnStyle     = lipgloss.NewStyle().Foreground(ColorWarn)
	failStyle     = lipgloss.NewStyle().Foreground(ColorFail)
	mutedStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	infoStyle     = lipgloss.NewStyle().Foreground(ColorInfo)
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorInfo)

	// keyStyle pads labels in key/value listings; wide enough for every group label.
	keyStyle = lipgloss.NewStyle().Width(30)
)

// Summary icons.
const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
	IconInfo = "ℹ"
)

func RenderPassIcon() string { return passStyle.Render(IconPass) }
func RenderWarnIcon() string { return warnStyle.Render(IconWarn) }
func RenderFailIcon() string { return failStyle.Render(IconFail) }
func RenderInfoIcon() string { return infoStyle.Render(IconInfo) }

// RenderFail renders text in the failure color.
func RenderFail(s string) string { return failStyle.Render(s) }

// RenderMuted renders secondary text.
func RenderMuted(s string) string { return mutedStyle.Render(s) }

// RenderCategory renders a section header in uppercase.
func RenderCategory(s string) string {
	return categoryStyle.Render(strings.ToUpper(s))
}

// RenderStatus renders a dunder status: done green, in review blue,
// in progress yellow, todo gray.
func RenderStatus(s types.Status) string {
	switch s {
	case types.StatusDone:
		return passStyle.Render(string(s))
	case types.StatusInReview:
		return infoStyle.Render(string(s))
	case types.StatusInProgress:
		return warnStyle.Render(string(s))
	default:
		return mutedStyle.Render(string(s))
	}
}

// RenderKeyValue renders one "key  value" line of a settings listing.
func RenderKeyValue(key string, value interface{}) string {
	return keyStyle.Render(key) + fmt.Sprint(value)
}
