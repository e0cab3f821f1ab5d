package main

import (
	"fmt"
	"log/slog"

	"github.com/contentops/benchconsole/internal/benchmark"
	"github.com/contentops/benchconsole/internal/models"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds parallel result downloads.
const maxConcurrentFetches = 4

func newResultCommand(a *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "result <jobId> [jobId ...]",
		Short: "Fetch, store and print the results of completed jobs",
		Long: `Fetch the results of one or more completed jobs concurrently, keep them in
the local store and print the aggregated view of each, in argument order.
A result that cannot be stored is still printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.newBackend(a.cfg)
			if err != nil {
				return err
			}
			classifier, err := a.classifier()
			if err != nil {
				return err
			}
			agg := a.aggregator()

			var save func(*models.BenchmarkResult) error
			if !opts.noSave {
				store, err := a.results()
				if err != nil {
					return err
				}
				defer store.Close()
				save = saveTo(store)
			}

			views := make([]*benchmark.View, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(maxConcurrentFetches)
			for i, jobID := range args {
				g.Go(func() error {
					res, err := backend.Result(ctx, jobID)
					if err != nil {
						return fetchError("result", jobID, err)
					}
					if res.JobID == "" {
						res.JobID = jobID
					}
					if save != nil {
						if err := save(res); err != nil {
							slog.Warn("result not saved", "job_id", jobID, "error", err)
						}
					}
					views[i] = benchmark.BuildView(agg, classifier, res)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.jsonOutput {
				if len(views) == 1 {
					return writeJSON(w, views[0])
				}
				return writeJSON(w, views)
			}
			for i, v := range views {
				if i > 0 {
					fmt.Fprintln(w) //nolint:errcheck
				}
				if err := printResult(w, v, opts); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the aggregated views as JSON")
	cmd.Flags().BoolVar(&opts.interpret, "interpret", false, "Append a plain-language interpretation")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "Do not keep the results in the local store")
	return cmd
}
