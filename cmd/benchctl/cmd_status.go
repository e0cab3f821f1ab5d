package main

import (
	"fmt"
	"time"

	"github.com/contentops/benchconsole/internal/api"
	"github.com/contentops/benchconsole/internal/models"
	"github.com/spf13/cobra"
)

func newStatusCommand(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status <jobId>",
		Short: "Show the current state of a benchmark job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.newBackend(a.cfg)
			if err != nil {
				return err
			}
			resp, err := backend.Status(cmd.Context(), args[0])
			if err != nil {
				return fetchError("status", args[0], err)
			}

			job := models.NewBenchmarkJob(args[0])
			job.Apply(*resp, time.Now())

			w := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(w, job)
			}
			fmt.Fprintf(w, "%s  %s\n", job.JobID, job.Status) //nolint:errcheck
			fmt.Fprintln(w, formatProgress(job))              //nolint:errcheck
			if job.ErrorMessage != "" {
				fmt.Fprintf(w, "error: %s\n", job.ErrorMessage) //nolint:errcheck
			}
			for _, pr := range job.PartialResults {
				fmt.Fprintf(w, "  partial: %s, %d questions\n", pr.Model, len(pr.Questions)) //nolint:errcheck
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the job snapshot as JSON")
	return cmd
}

// fetchError names the job in a 404 instead of the endpoint.
func fetchError(what, jobID string, err error) error {
	if api.IsNotFound(err) {
		return fmt.Errorf("job %s not found: %w", jobID, err)
	}
	return fmt.Errorf("fetching %s of %s: %w", what, jobID, err)
}
