package main

import (
	"fmt"

	"github.com/contentops/benchconsole/internal/models"
	"github.com/spf13/cobra"
)

func newCompareCommand(a *app) *cobra.Command {
	var (
		days       int
		local      bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare models across runs over a trailing window",
		Long: `Compare every model's results across the runs of a trailing window.

By default the service computes the comparison. With --local the runs kept
in the local result store are reduced instead, which works offline.
--days 0 covers every run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("days") {
				days = a.cfg.History.WindowDays
			}
			if days < 0 {
				return fmt.Errorf("--days must not be negative, got %d", days)
			}

			orch, err := a.orchestrator()
			if err != nil {
				return err
			}

			var stats []models.ModelComparisonStats
			if local {
				store, err := a.results()
				if err != nil {
					return err
				}
				defer store.Close()
				runs, err := store.HistoricalRuns()
				if err != nil {
					return fmt.Errorf("reading local results: %w", err)
				}
				stats = orch.CompareRuns(runs, days)
			} else {
				stats, err = orch.Compare(cmd.Context(), days)
				if err != nil {
					return fmt.Errorf("fetching comparison: %w", err)
				}
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				if stats == nil {
					stats = []models.ModelComparisonStats{}
				}
				return writeJSON(w, stats)
			}
			printComparison(w, stats)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Trailing window in days (default from config, 0 = all runs)")
	cmd.Flags().BoolVar(&local, "local", false, "Reduce locally stored results instead of asking the service")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the rows as JSON")
	return cmd
}
