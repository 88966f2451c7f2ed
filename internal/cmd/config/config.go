// Package config provides CLI commands for managing taskrank configuration.
package config

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appconfig "github.com/Iron-Ham/taskrank/internal/config"
)

// fs is where the config file is created. Replaced in tests.
var fs = afero.NewOsFs()

// Register adds all config-related commands to the given parent command.
// This is the main entry point for integrating the config subpackage with
// the root command.
func Register(parent *cobra.Command) {
	parent.AddCommand(newConfigCmd())
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or modify taskrank configuration",
		Long: `View or modify taskrank configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
		RunE: runConfigShow,
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE:  runConfigShow,
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  taskrank config set analysis.strategy deadline_driven
  taskrank config set suggest.count 5
  taskrank config set output.color never

Valid keys:
` + keyHelp(),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default config file",
		Long:  `Create a default config file at ~/.config/taskrank/config.yaml with all available options.`,
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	})

	return configCmd
}

// settableKeys lists the keys accepted by "config set" with their value kind.
var settableKeys = map[string]string{
	"analysis.strategy":       "string",
	"analysis.reference_date": "string",
	"analysis.max_parallel":   "int",
	"suggest.count":           "int",
	"output.format":           "string",
	"output.color":            "string",
	"output.title_width":      "int",
	"logging.enabled":         "bool",
	"logging.level":           "string",
	"logging.file":            "string",
	"logging.max_size_mb":     "int",
	"logging.max_backups":     "int",
}

func keyHelp() string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %-24s (%s)\n", k, settableKeys[k])
	}
	return sb.String()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := appconfig.Get()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	// Analysis settings
	fmt.Fprintln(out, "analysis:")
	fmt.Fprintf(out, "  strategy: %s\n", cfg.Analysis.Strategy)
	fmt.Fprintf(out, "  reference_date: %s\n", orDefault(cfg.Analysis.ReferenceDate, "(today)"))
	if len(cfg.Analysis.Weights) > 0 {
		fmt.Fprintln(out, "  weights:")
		keys := make([]string, 0, len(cfg.Analysis.Weights))
		for k := range cfg.Analysis.Weights {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "    %s: %v\n", k, cfg.Analysis.Weights[k])
		}
	} else {
		fmt.Fprintln(out, "  weights: (strategy defaults)")
	}
	fmt.Fprintf(out, "  max_parallel: %d\n", cfg.Analysis.MaxParallel)

	// Suggest settings
	fmt.Fprintln(out, "suggest:")
	fmt.Fprintf(out, "  count: %d\n", cfg.Suggest.Count)

	// Output settings
	fmt.Fprintln(out, "output:")
	fmt.Fprintf(out, "  format: %s\n", cfg.Output.Format)
	fmt.Fprintf(out, "  color: %s\n", cfg.Output.Color)
	fmt.Fprintf(out, "  title_width: %d\n", cfg.Output.TitleWidth)

	// Logging settings
	fmt.Fprintln(out, "logging:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  file: %s\n", orDefault(cfg.Logging.File, "(stderr)"))
	fmt.Fprintf(out, "  max_size_mb: %d\n", cfg.Logging.MaxSizeMB)
	fmt.Fprintf(out, "  max_backups: %d\n", cfg.Logging.MaxBackups)

	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(args[0])
	value := args[1]

	keyType, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'taskrank config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue any
	switch keyType {
	case "string":
		typedValue = value
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = b
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		typedValue = n
	}

	previous := viper.Get(key)
	viper.Set(key, typedValue)

	// Range and enum checks live in the config validator.
	if _, err := appconfig.Load(); err != nil {
		viper.Set(key, previous)
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = appconfig.ConfigFile()
	}
	if err := fs.MkdirAll(filepath.Dir(configFile), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write to config file
	viper.SetFs(fs)
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)

	return nil
}

// configTemplate is the commented file written by "config init".
const configTemplate = `# taskrank configuration

analysis:
  # Scoring strategy
  # Options: smart_balance, fastest_wins, high_impact, deadline_driven
  strategy: smart_balance
  # Date treated as "today" when computing urgency (YYYY-MM-DD).
  # Leave empty to use the current date.
  reference_date: ""
  # Custom weights override the strategy. Missing keys use the defaults
  # (urgency 0.30, importance 0.35, effort 0.15, dependency 0.20) and the
  # result is rescaled to sum to 1.
  # weights:
  #   urgency: 0.5
  #   importance: 0.3
  # Maximum number of input files decoded at once
  max_parallel: 4

suggest:
  # Number of suggestions returned (1-10)
  count: 3

output:
  # Output format: text, json, yaml
  format: text
  # Color for text output: auto, always, never
  color: auto
  # Width of the title column in text output
  title_width: 40

logging:
  # Write diagnostic logs
  enabled: false
  # Log level: debug, info, warn, error
  level: info
  # Log file path; empty logs to stderr
  file: ""
  # Rotate the log file past this size
  max_size_mb: 10
  # Rotated files to keep
  max_backups: 3
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	// Check if config file already exists
	if exists, _ := afero.Exists(fs, configFile); exists {
		return fmt.Errorf("config file already exists at %s\nUse 'taskrank config set' to modify values", configFile)
	}

	// Create config directory
	if err := fs.MkdirAll(appconfig.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := afero.WriteFile(fs, configFile, []byte(configTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize taskrank's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	printPaths(out)
	return nil
}

func printPaths(out io.Writer) {
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", appconfig.ConfigFile())
	fmt.Fprintf(out, "  2. $HOME/.config/taskrank/config.yaml\n")
	fmt.Fprintf(out, "  3. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: TASKRANK_* (e.g., TASKRANK_ANALYSIS_STRATEGY)")
	fmt.Fprintln(out, "A .env file in the current directory is loaded first.")
}
