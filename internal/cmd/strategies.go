package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskrank/internal/render"
	"github.com/Iron-Ham/taskrank/internal/scoring"
)

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the scoring strategies and their weights",
		Args:  cobra.NoArgs,
		RunE:  runStrategies,
	}
}

func runStrategies(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.logger.Close()

	return rt.renderer.Strategies(render.StrategyListing{
		Strategies:     scoring.Strategies(),
		Default:        scoring.DefaultStrategy,
		ScoringFactors: scoring.ScoringFactors,
	})
}
