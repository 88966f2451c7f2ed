package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskrank/internal/analyzer"
	"github.com/Iron-Ham/taskrank/internal/errors"
	"github.com/Iron-Ham/taskrank/internal/ingest"
)

func newValidateCmd() *cobra.Command {
	var sf scoringFlags

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a batch and report the corrections the validator would make",
		Long: `Check a batch and report the corrections the validator would make.

Nothing is scored. Field problems are reported as warnings and never fail
the command; only a malformed document does.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, &sf)
		},
	}

	cmd.Flags().StringVarP(&sf.inputFormat, "input-format", "i", "", "input format, overriding file extensions: json, yaml, toml")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string, sf *scoringFlags) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.logger.Close()

	path := ingest.StdinPath
	if len(args) == 1 {
		path = args[0]
	}
	batches, err := loadBatches(cmd, rt, sf, []string{path})
	if err != nil {
		return err
	}
	batch := batches[0]
	if len(batch.Tasks) == 0 {
		return errors.Wrapf(errors.ErrNoTasks, "%s", batch.Source)
	}

	report := analyzer.ValidateOnly(batch.Tasks)
	rt.logger.Info("validation complete",
		"tasks", report.TotalTasks,
		"with_warnings", report.TasksWithWarnings,
	)
	return rt.renderer.Validation(report)
}
