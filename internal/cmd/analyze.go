package cmd

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskrank/internal/analyzer"
	"github.com/Iron-Ham/taskrank/internal/ingest"
	"github.com/Iron-Ham/taskrank/internal/render"
	"github.com/Iron-Ham/taskrank/internal/task"
)

func newAnalyzeCmd() *cobra.Command {
	var sf scoringFlags

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Score and rank every task in one or more batches",
		Long: `Score and rank every task in one or more batches.

Each file is an independent batch: dependencies and cycles are only
resolved within a file. With no files, or "-", a batch is read from
standard input as JSON.

A batch may be a bare list of tasks or an object with a "tasks" list and
optional "strategy", "custom_weights" and "count" keys. Flags given on the
command line take precedence over those keys.`,
		Example: `  taskrank analyze tasks.json
  taskrank analyze --strategy deadline-driven sprint.yaml backlog.toml
  cat tasks.json | taskrank analyze --weights 0.4,0.4,0.1,0.1 -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, &sf)
		},
	}

	sf.register(cmd.Flags())
	cmd.Flags().Int("max-parallel", 0, "maximum number of files decoded at once")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, sf *scoringFlags) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.logger.Close()

	paths := args
	if len(paths) == 0 {
		paths = []string{ingest.StdinPath}
	}
	batches, err := loadBatches(cmd, rt, sf, paths)
	if err != nil {
		return err
	}

	results := make([]render.SourcedResult, len(batches))
	envelopes := slices.ContainsFunc(batches, func(b ingest.Batch) bool {
		return b.Strategy != "" || len(b.CustomWeights) > 0
	})

	if envelopes {
		// Batches disagree on scoring settings, so each gets its own analyzer.
		for i := range batches {
			a, err := analyzerFor(cmd, rt, sf, &batches[i])
			if err != nil {
				return err
			}
			results[i] = render.SourcedResult{Source: batches[i].Source, Result: a.Analyze(batches[i].Tasks)}
		}
	} else {
		a, err := analyzerFor(cmd, rt, sf, nil)
		if err != nil {
			return err
		}
		raws := make([][]task.Raw, len(batches))
		for i, b := range batches {
			raws[i] = b.Tasks
		}
		for i, res := range a.AnalyzeAll(raws) {
			results[i] = render.SourcedResult{Source: batches[i].Source, Result: res}
		}
	}

	rt.logger.Info("analysis complete", "batches", len(results))
	return rt.renderer.Analysis(results...)
}

// loadBatches reads every path through an ingest loader configured from the
// runtime and flags.
func loadBatches(cmd *cobra.Command, rt *runEnv, sf *scoringFlags, paths []string) ([]ingest.Batch, error) {
	format, err := sf.format()
	if err != nil {
		return nil, err
	}
	loader := ingest.NewLoader(fs,
		ingest.WithStdin(cmd.InOrStdin()),
		ingest.WithFormat(format),
		ingest.WithMaxParallel(rt.cfg.Analysis.MaxParallel),
		ingest.WithLogger(rt.logger),
	)
	return loader.LoadAll(paths)
}

// analyzerFor builds the analyzer for a batch. Explicit flags beat the
// batch's envelope, which beats the configuration file. A nil batch uses
// flags and configuration only.
func analyzerFor(cmd *cobra.Command, rt *runEnv, sf *scoringFlags, batch *ingest.Batch) (*analyzer.Analyzer, error) {
	strategy := rt.cfg.Analysis.Strategy
	weights := rt.cfg.Analysis.Weights
	if batch != nil {
		if batch.Strategy != "" && !cmd.Flags().Changed("strategy") {
			strategy = batch.Strategy
		}
		if len(batch.CustomWeights) > 0 {
			weights = batch.CustomWeights
		}
	}

	flagWeights, err := sf.customWeights()
	if err != nil {
		return nil, err
	}
	if flagWeights != nil {
		weights = flagWeights
	}

	ref, err := rt.cfg.Analysis.Reference()
	if err != nil {
		return nil, err
	}

	return analyzer.New(
		analyzer.WithStrategy(strategy),
		analyzer.WithCustomWeights(weights),
		analyzer.WithReferenceDate(ref),
		analyzer.WithLogger(rt.logger),
		analyzer.WithMaxParallel(rt.cfg.Analysis.MaxParallel),
	)
}
