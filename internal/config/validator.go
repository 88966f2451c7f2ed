package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Iron-Ham/taskrank/internal/errors"
	"github.com/Iron-Ham/taskrank/internal/logging"
	"github.com/Iron-Ham/taskrank/internal/render"
	"github.com/Iron-Ham/taskrank/internal/scoring"
	"github.com/Iron-Ham/taskrank/internal/task"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "output.title_width")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Is reports every validation failure as ErrInvalidConfig.
func (e ValidationErrors) Is(target error) bool {
	return target == errors.ErrInvalidConfig
}

// Bounds for numeric settings.
const (
	minTitleWidth  = 10
	maxTitleWidth  = 200
	maxParallelCap = 64
	maxLogSizeMB   = 1000 // 1GB
)

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	errs = append(errs, c.validateAnalysis()...)
	errs = append(errs, c.validateSuggest()...)
	errs = append(errs, c.validateOutput()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

// validateAnalysis validates the AnalysisConfig
func (c *Config) validateAnalysis() []ValidationError {
	var errs []ValidationError

	if c.Analysis.Strategy != "" {
		if _, ok := scoring.ParseStrategy(c.Analysis.Strategy); !ok {
			errs = append(errs, ValidationError{
				Field:   "analysis.strategy",
				Value:   c.Analysis.Strategy,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(scoring.StrategyNames(), ", ")),
			})
		}
	}

	if c.Analysis.ReferenceDate != "" {
		if _, err := task.ParseDate(c.Analysis.ReferenceDate); err != nil {
			errs = append(errs, ValidationError{
				Field:   "analysis.reference_date",
				Value:   c.Analysis.ReferenceDate,
				Message: "must be a date in YYYY-MM-DD format",
			})
		}
	}

	if len(c.Analysis.Weights) > 0 {
		if _, err := scoring.ParseWeightOverride(c.Analysis.Weights); err != nil {
			errs = append(errs, ValidationError{
				Field:   "analysis.weights",
				Value:   c.Analysis.Weights,
				Message: err.Error(),
			})
		}
	}

	if c.Analysis.MaxParallel < 1 || c.Analysis.MaxParallel > maxParallelCap {
		errs = append(errs, ValidationError{
			Field:   "analysis.max_parallel",
			Value:   c.Analysis.MaxParallel,
			Message: fmt.Sprintf("must be between 1 and %d", maxParallelCap),
		})
	}

	return errs
}

// validateSuggest validates the SuggestConfig
func (c *Config) validateSuggest() []ValidationError {
	var errs []ValidationError

	if c.Suggest.Count < 1 || c.Suggest.Count > 10 {
		errs = append(errs, ValidationError{
			Field:   "suggest.count",
			Value:   c.Suggest.Count,
			Message: "must be between 1 and 10",
		})
	}

	return errs
}

// validateOutput validates the OutputConfig
func (c *Config) validateOutput() []ValidationError {
	var errs []ValidationError

	if c.Output.Format != "" {
		if _, err := render.ParseFormat(c.Output.Format); err != nil {
			errs = append(errs, ValidationError{
				Field:   "output.format",
				Value:   c.Output.Format,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(render.ValidFormats(), ", ")),
			})
		}
	}

	if c.Output.Color != "" {
		if _, err := render.ParseColorMode(c.Output.Color); err != nil {
			errs = append(errs, ValidationError{
				Field:   "output.color",
				Value:   c.Output.Color,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(render.ValidColorModes(), ", ")),
			})
		}
	}

	if c.Output.TitleWidth < minTitleWidth || c.Output.TitleWidth > maxTitleWidth {
		errs = append(errs, ValidationError{
			Field:   "output.title_width",
			Value:   c.Output.TitleWidth,
			Message: fmt.Sprintf("must be between %d and %d", minTitleWidth, maxTitleWidth),
		})
	}

	return errs
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errs []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(logging.ValidLevels(), c.Logging.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(logging.ValidLevels(), ", ")),
		})
	}

	// Max size must be positive
	if c.Logging.MaxSizeMB <= 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	// Max backups must be non-negative
	if c.Logging.MaxBackups < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errs
}
