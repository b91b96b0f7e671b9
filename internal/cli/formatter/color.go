package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// presetColors gives each preset category a fixed palette color.
var presetColors = map[domain.PresetCategory]lipgloss.Color{
	domain.PresetWork:     ColorBlue,
	domain.PresetSport:    ColorGreen,
	domain.PresetReading:  ColorYellow,
	domain.PresetLearning: ColorPurple,
	domain.PresetWorship:  ColorHeader,
}

// PriorityStyle maps a task priority to its color.
func PriorityStyle(p domain.Priority) lipgloss.Style {
	switch p {
	case domain.PriorityHigh:
		return StyleRed
	case domain.PriorityMedium:
		return StyleYellow
	case domain.PriorityLow:
		return StyleGreen
	default:
		return StyleDim
	}
}

// PriorityBadge returns a colored marker such as "▲ high".
func PriorityBadge(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render("▲ high")
	case domain.PriorityMedium:
		return StyleYellow.Render("● medium")
	case domain.PriorityLow:
		return StyleGreen.Render("▼ low")
	default:
		return StyleDim.Render(string(p))
	}
}

// CategoryBadge renders the category name in its color. Custom categories
// use their own hex color.
func CategoryBadge(c domain.Category) string {
	if c.Name == "" {
		return StyleDim.Render("--")
	}
	color, ok := presetColors[domain.PresetCategory(c.Name)]
	if c.Kind == domain.CategoryCustom {
		color, ok = lipgloss.Color(c.Color), c.Color != ""
	}
	if !ok {
		return StyleFg.Render(c.Label())
	}
	return lipgloss.NewStyle().Foreground(color).Render(c.Label())
}

// PhaseBadge labels the timer phase.
func PhaseBadge(p domain.Phase) string {
	if p == domain.PhaseBreak {
		return StyleGreen.Render("☕ BREAK")
	}
	return StyleRed.Render("● FOCUS")
}

// Header renders an upper-cased section title with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
