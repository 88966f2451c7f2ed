// Package render writes analysis results, suggestions, validation reports and
// strategy listings as styled text, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/taskrank/internal/analyzer"
	"github.com/Iron-Ham/taskrank/internal/errors"
	"github.com/Iron-Ham/taskrank/internal/scoring"
)

// Format is an output format.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ColorMode controls ANSI styling of text output.
type ColorMode string

// Supported color modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// DefaultTitleWidth is the title column width used when none is configured.
const DefaultTitleWidth = 40

// ValidFormats returns the accepted output format names.
func ValidFormats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML)}
}

// ValidColorModes returns the accepted color mode names.
func ValidColorModes() []string {
	return []string{string(ColorAuto), string(ColorAlways), string(ColorNever)}
}

// ParseFormat resolves an output format name. Empty means text.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("output format %q: %w", name, errors.ErrUnsupportedFormat)
}

// ParseColorMode resolves a color mode name. Empty means auto.
func ParseColorMode(name string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(name))) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	}
	return "", fmt.Errorf("color mode %q: %w", name, errors.ErrUnsupportedFormat)
}

// Options configures a Renderer.
type Options struct {
	Format     Format
	Color      ColorMode
	TitleWidth int
}

// Renderer writes one kind of output to w.
type Renderer struct {
	w          io.Writer
	format     Format
	titleWidth int
	styles     styles
}

// New returns a Renderer writing to w. Zero-valued options fall back to text
// output, automatic color and the default title width.
func New(w io.Writer, opts Options) *Renderer {
	format := opts.Format
	if format == "" {
		format = FormatText
	}
	width := opts.TitleWidth
	if width <= 0 {
		width = DefaultTitleWidth
	}

	lr := lipgloss.NewRenderer(w)
	switch {
	case !colorEnabled(w, opts.Color):
		lr.SetColorProfile(termenv.Ascii)
	case opts.Color == ColorAlways && lr.ColorProfile() == termenv.Ascii:
		lr.SetColorProfile(termenv.ANSI256)
	}

	return &Renderer{
		w:          w,
		format:     format,
		titleWidth: width,
		styles:     newStyles(lr),
	}
}

// colorEnabled decides whether text output is styled. In auto mode only
// terminals get color.
func colorEnabled(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Format returns the renderer's output format.
func (r *Renderer) Format() Format {
	return r.format
}

// SourcedResult labels an analysis result with the batch it came from.
type SourcedResult struct {
	Source          string `json:"source" yaml:"source"`
	analyzer.Result `yaml:",inline"`
}

// Analysis writes one or more analysis results. A single result is encoded
// as an object; several are encoded as a list labeled by source.
func (r *Renderer) Analysis(results ...SourcedResult) error {
	switch r.format {
	case FormatJSON, FormatYAML:
		if len(results) == 1 {
			return r.encode(results[0].Result)
		}
		if results == nil {
			results = []SourcedResult{}
		}
		return r.encode(results)
	}

	var b strings.Builder
	for i, res := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		r.writeResult(&b, res, len(results) > 1)
	}
	return r.flush(&b)
}

// Suggestions writes the top recommendations of a batch.
func (r *Renderer) Suggestions(s analyzer.Suggestions) error {
	if r.format != FormatText {
		return r.encode(s)
	}
	var b strings.Builder
	r.writeSuggestions(&b, s)
	return r.flush(&b)
}

// Validation writes a dry-run validation report.
func (r *Renderer) Validation(report analyzer.ValidationReport) error {
	if r.format != FormatText {
		return r.encode(report)
	}
	var b strings.Builder
	r.writeValidation(&b, report)
	return r.flush(&b)
}

// StrategyListing is the structured form of the strategies command output.
type StrategyListing struct {
	Strategies     []scoring.StrategyInfo `json:"strategies" yaml:"strategies"`
	Default        scoring.Strategy       `json:"default" yaml:"default"`
	ScoringFactors []string               `json:"scoring_factors" yaml:"scoring_factors"`
}

// Strategies writes the available scoring strategies.
func (r *Renderer) Strategies(listing StrategyListing) error {
	if r.format != FormatText {
		return r.encode(listing)
	}
	var b strings.Builder
	r.writeStrategies(&b, listing)
	return r.flush(&b)
}

func (r *Renderer) encode(v any) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("output format %q: %w", r.format, errors.ErrUnsupportedFormat)
}

func (r *Renderer) flush(b *strings.Builder) error {
	_, err := io.WriteString(r.w, b.String())
	return err
}
