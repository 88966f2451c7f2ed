package cmd

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cfgcmd "github.com/Iron-Ham/taskrank/internal/cmd/config"
	"github.com/Iron-Ham/taskrank/internal/config"
	"github.com/Iron-Ham/taskrank/internal/errors"
	"github.com/Iron-Ham/taskrank/internal/logging"
	"github.com/Iron-Ham/taskrank/internal/render"
)

// flagKeys maps command-line flags onto the configuration keys they override.
var flagKeys = map[string]string{
	"strategy":     "analysis.strategy",
	"date":         "analysis.reference_date",
	"max-parallel": "analysis.max_parallel",
	"format":       "output.format",
	"color":        "output.color",
	"title-width":  "output.title_width",
	"log-level":    "logging.level",
	"log-file":     "logging.file",
}

// fs is the filesystem task documents and log files are read from.
var fs = afero.NewOsFs()

var rootCmd = newRootCmd()

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskrank",
		Short: "Rank tasks by computed priority",
		Long: `taskrank scores a batch of tasks on urgency, importance, effort and
dependency impact, then ranks them under a chosen strategy.

Tasks are read from JSON, YAML or TOML documents, or from standard input.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return initConfig(cmd) },
	}

	// Global flags
	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "config file (default is $HOME/.config/taskrank/config.yaml)")
	pf.StringP("format", "o", "", "output format: "+strings.Join(render.ValidFormats(), ", "))
	pf.String("color", "", "color output: "+strings.Join(render.ValidColorModes(), ", "))
	pf.Int("title-width", 0, "width of the title column in text output")
	pf.String("log-level", "", "enable logging at this level: "+strings.Join(logging.ValidLevels(), ", "))
	pf.String("log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newSuggestCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newStrategiesCmd())
	cfgcmd.Register(root)

	return root
}

// initConfig layers configuration: defaults, config file, .env and
// environment, then flags.
func initConfig(cmd *cobra.Command) error {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	flags := cmd.Flags()
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
	if flags.Changed("log-level") || flags.Changed("log-file") {
		viper.Set("logging.enabled", true)
	}

	// Variables already present in the environment take precedence over .env
	_ = godotenv.Load()

	viper.SetEnvPrefix("TASKRANK")
	// Replace dots with underscores for nested keys in env vars
	// e.g., TASKRANK_ANALYSIS_STRATEGY for analysis.strategy
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile, _ := flags.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.Wrapf(errors.Join(errors.ErrInvalidConfig, err), "reading %s", cfgFile)
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(config.ConfigDir())
	viper.AddConfigPath("$HOME/.config/taskrank")
	viper.AddConfigPath(".")

	// Read config file if it exists (ignore error if not found)
	var notFound viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return errors.Wrap(errors.Join(errors.ErrInvalidConfig, err), "reading config")
	}
	return nil
}

// newLogger builds the command logger from the logging section. Logging is
// off unless enabled; an empty file logs to the command's stderr.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*logging.Logger, error) {
	lc := cfg.Logging
	if !lc.Enabled {
		return logging.NopLogger(), nil
	}
	if lc.File == "" {
		return logging.NewLogger(cmd.ErrOrStderr(), lc.Level).WithCommand(cmd.Name()), nil
	}
	logger, err := logging.NewFileLogger(fs, lc.File, lc.Level, lc.Rotation())
	if err != nil {
		return nil, err
	}
	return logger.WithCommand(cmd.Name()), nil
}

// newRenderer builds the output renderer from the output section.
func newRenderer(cmd *cobra.Command, cfg *config.Config) (*render.Renderer, error) {
	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	color, err := render.ParseColorMode(cfg.Output.Color)
	if err != nil {
		return nil, err
	}
	return render.New(cmd.OutOrStdout(), render.Options{
		Format:     format,
		Color:      color,
		TitleWidth: cfg.Output.TitleWidth,
	}), nil
}

// runEnv is what every ranking command needs once configuration is loaded.
type runEnv struct {
	cfg      *config.Config
	logger   *logging.Logger
	renderer *render.Renderer
}

func setup(cmd *cobra.Command) (*runEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}
	renderer, err := newRenderer(cmd, cfg)
	if err != nil {
		logger.Close()
		return nil, err
	}
	return &runEnv{cfg: cfg, logger: logger, renderer: renderer}, nil
}
