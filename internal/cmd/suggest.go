package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskrank/internal/analyzer"
	"github.com/Iron-Ham/taskrank/internal/errors"
	"github.com/Iron-Ham/taskrank/internal/ingest"
)

func newSuggestCmd() *cobra.Command {
	var sf scoringFlags
	var count int

	cmd := &cobra.Command{
		Use:   "suggest [file]",
		Short: "Recommend the tasks to work on next",
		Long: `Recommend the tasks to work on next.

The batch is ranked as in "analyze" and the top tasks are returned with the
reason they were picked and a short actionable insight. The count is clamped
to between 1 and 10.`,
		Example: `  taskrank suggest tasks.json
  taskrank suggest --count 5 --strategy fastest-wins tasks.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd, args, &sf, count)
		},
	}

	sf.register(cmd.Flags())
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of suggestions (default from config, 3)")

	return cmd
}

func runSuggest(cmd *cobra.Command, args []string, sf *scoringFlags, count int) error {
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

	// Flag, then envelope, then configuration.
	n := rt.cfg.Suggest.Count
	switch {
	case cmd.Flags().Changed("count"):
		n = count
	case batch.Count != nil:
		n = *batch.Count
	}

	a, err := analyzerFor(cmd, rt, sf, &batch)
	if err != nil {
		return err
	}
	suggestions := a.Suggest(batch.Tasks, n)

	rt.logger.Info("suggestions complete", "requested", n, "returned", len(suggestions.Suggestions))
	if n != analyzer.ClampCount(n) {
		rt.logger.Warn("suggestion count clamped", "requested", n, "used", analyzer.ClampCount(n))
	}
	return rt.renderer.Suggestions(suggestions)
}
