package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Iron-Ham/taskrank/internal/scoring"
)

// Colors meet WCAG AA contrast on dark terminals.
var (
	primaryColor = lipgloss.Color("#A78BFA") // Purple
	highColor    = lipgloss.Color("#F87171") // Red
	mediumColor  = lipgloss.Color("#F59E0B") // Amber
	lowColor     = lipgloss.Color("#10B981") // Green
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray
)

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	muted   lipgloss.Style
	warning lipgloss.Style
	high    lipgloss.Style
	medium  lipgloss.Style
	low     lipgloss.Style
}

// newStyles binds the palette to a renderer so the color profile decided for
// the output stream applies to every style.
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(primaryColor),
		header:  r.NewStyle().Bold(true).Underline(true),
		muted:   r.NewStyle().Foreground(mutedColor),
		warning: r.NewStyle().Foreground(mediumColor),
		high:    r.NewStyle().Bold(true).Foreground(highColor),
		medium:  r.NewStyle().Foreground(mediumColor),
		low:     r.NewStyle().Foreground(lowColor),
	}
}

func (s styles) level(l scoring.Level) lipgloss.Style {
	switch l {
	case scoring.LevelHigh:
		return s.high
	case scoring.LevelMedium:
		return s.medium
	default:
		return s.low
	}
}

// Truncate shortens s to maxWidth visual columns, ending with "..." when cut.
// Escape codes and wide characters are measured correctly.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "...")
}

// pad right-pads s with spaces to width visual columns.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// StrategyTitle turns a strategy name into a display title:
// "deadline_driven" becomes "Deadline Driven".
func StrategyTitle(s scoring.Strategy) string {
	words := strings.ReplaceAll(string(s), "_", " ")
	return cases.Title(language.English).String(words)
}
