package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/contentops/benchconsole/internal/benchmark"
	"github.com/contentops/benchconsole/internal/models"
	"github.com/contentops/benchconsole/internal/reporting"
	"github.com/contentops/benchconsole/internal/resultstore"
	"github.com/contentops/benchconsole/internal/runspec"
	"github.com/contentops/benchconsole/internal/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type runOptions struct {
	jsonOutput bool
	interpret  bool
	noSave     bool
}

func newRunCommand(a *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <run.yaml>",
		Short: "Submit a benchmark run and wait for its result",
		Long: `Submit a benchmark run described by a run spec and follow it to completion.

The run spec names the purchase, the number of questions per model and the
models to compare. Progress is shown while the job runs; Ctrl-C stops
following the job without cancelling it on the service, and the job id is
printed so the result can be fetched later with "benchctl result".

Exit codes: 0 when the job completed, 1 when the job failed, 2 for any
other error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommandE(cmd, a, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the aggregated view as JSON")
	cmd.Flags().BoolVar(&opts.interpret, "interpret", false, "Append a plain-language interpretation")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "Do not keep the result in the local store")

	return cmd
}

func runCommandE(cmd *cobra.Command, a *app, specPath string, opts runOptions) error {
	spec, err := runspec.Load(specPath)
	if err != nil {
		return err
	}

	var extra []benchmark.Option
	if !opts.noSave {
		store, err := a.results()
		if err != nil {
			return err
		}
		defer store.Close()
		extra = append(extra, benchmark.WithResultHook(saveTo(store)))
	}

	orch, err := a.orchestrator(extra...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	progress := newProgressReporter(cmd.ErrOrStderr())
	jobID, view, err := orch.Run(ctx, spec.StartRequest(), progress.update)
	progress.done()

	if jobID != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "job %s\n", jobID) //nolint:errcheck
	}
	if errors.Is(err, context.Canceled) && jobID != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "stopped following job %s; it keeps running on the service.\nFetch it later with: benchctl result %s\n", jobID, jobID) //nolint:errcheck
		return nil
	}
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), view, opts)
}

// saveTo returns a result hook that keeps every completed result in store.
func saveTo(store *resultstore.Store) func(*models.BenchmarkResult) error {
	return func(res *models.BenchmarkResult) error {
		if err := store.Put(res.JobID, res); err != nil {
			return err
		}
		slog.Debug("result saved", "job_id", res.JobID, "dir", store.Dir())
		return nil
	}
}

func printResult(w io.Writer, view *benchmark.View, opts runOptions) error {
	if opts.jsonOutput {
		return writeJSON(w, view)
	}
	printView(w, view)
	if opts.interpret {
		fmt.Fprintln(w)                                 //nolint:errcheck
		fmt.Fprint(w, reporting.FormatViewReport(view)) //nolint:errcheck
	}
	return nil
}

// progressReporter shows job progress as a spinner on a terminal and as
// one line per change otherwise.
type progressReporter struct {
	w    io.Writer
	spin *spinner.Spinner

	mu   sync.Mutex
	last string
}

func newProgressReporter(w io.Writer) *progressReporter {
	p := &progressReporter{w: w}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.spin = spinner.Start(w, "submitting")
	}
	return p
}

func (p *progressReporter) update(j models.BenchmarkJob) {
	line := formatProgress(j)
	if p.spin != nil {
		p.spin.Update(line)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if line == p.last {
		return
	}
	p.last = line
	fmt.Fprintln(p.w, line) //nolint:errcheck
}

func (p *progressReporter) done() {
	if p.spin != nil {
		p.spin.Stop()
	}
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <run.yaml>",
		Short: "Check a run spec without submitting it",
		Args:  cobra.ExactArgs(1),
		// Needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := runspec.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d models, %d questions each\n", args[0], len(spec.Models), spec.QuestionCount) //nolint:errcheck
			return nil
		},
	}
}
