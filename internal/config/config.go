package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/taskrank/internal/logging"
	"github.com/Iron-Ham/taskrank/internal/task"
)

// Config represents the complete taskrank configuration
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Suggest  SuggestConfig  `mapstructure:"suggest"`
	Output   OutputConfig   `mapstructure:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AnalysisConfig controls how batches are scored
type AnalysisConfig struct {
	// Strategy is the scoring strategy (default: "smart_balance")
	// Options: "smart_balance", "fastest_wins", "high_impact", "deadline_driven"
	Strategy string `mapstructure:"strategy"`
	// ReferenceDate is the "today" used for urgency, as YYYY-MM-DD.
	// Empty means the current local date.
	ReferenceDate string `mapstructure:"reference_date"`
	// Weights overrides the strategy's weight vector. Keys are urgency,
	// importance, effort and dependency; missing keys take the defaults.
	Weights map[string]any `mapstructure:"weights"`
	// MaxParallel bounds how many input files are decoded at once (default: 4)
	MaxParallel int `mapstructure:"max_parallel"`
}

// SuggestConfig controls the suggest command
type SuggestConfig struct {
	// Count is the number of suggestions returned, 1-10 (default: 3)
	Count int `mapstructure:"count"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	// Format is the output format: "text", "json" or "yaml" (default: "text")
	Format string `mapstructure:"format"`
	// Color controls styling of text output: "auto", "always" or "never" (default: "auto")
	Color string `mapstructure:"color"`
	// TitleWidth is the width of the title column in text output (default: 40, min: 10, max: 200)
	TitleWidth int `mapstructure:"title_width"`
}

// LoggingConfig controls diagnostic logging
type LoggingConfig struct {
	// Enabled controls whether diagnostic logging is written (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// File is the log file path. Empty logs to stderr.
	File string `mapstructure:"file"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Strategy:      "smart_balance",
			ReferenceDate: "",
			MaxParallel:   4,
		},
		Suggest: SuggestConfig{
			Count: 3,
		},
		Output: OutputConfig{
			Format:     "text",
			Color:      "auto",
			TitleWidth: 40,
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Reference returns the configured reference date, or today when none is set.
func (c *AnalysisConfig) Reference() (task.Date, error) {
	if c.ReferenceDate == "" {
		return task.Today(), nil
	}
	return task.ParseDate(c.ReferenceDate)
}

// Rotation returns the log rotation settings.
func (c *LoggingConfig) Rotation() logging.RotationConfig {
	return logging.RotationConfig{
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Analysis defaults
	viper.SetDefault("analysis.strategy", defaults.Analysis.Strategy)
	viper.SetDefault("analysis.reference_date", defaults.Analysis.ReferenceDate)
	viper.SetDefault("analysis.max_parallel", defaults.Analysis.MaxParallel)

	// Suggest defaults
	viper.SetDefault("suggest.count", defaults.Suggest.Count)

	// Output defaults
	viper.SetDefault("output.format", defaults.Output.Format)
	viper.SetDefault("output.color", defaults.Output.Color)
	viper.SetDefault("output.title_width", defaults.Output.TitleWidth)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskrank")
	}
	// Fall back to ~/.config/taskrank
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskrank"
	}
	return filepath.Join(home, ".config", "taskrank")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
