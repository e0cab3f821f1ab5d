package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/contentops/benchconsole/internal/aggregate"
	"github.com/contentops/benchconsole/internal/api"
	"github.com/contentops/benchconsole/internal/benchmark"
	"github.com/contentops/benchconsole/internal/duplicates"
	"github.com/contentops/benchconsole/internal/jobs"
	"github.com/contentops/benchconsole/internal/projectconfig"
	"github.com/contentops/benchconsole/internal/resultstore"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

// app carries what every subcommand needs once the root has loaded the
// configuration.
type app struct {
	configPath string
	envFile    string
	cfg        *projectconfig.ProjectConfig
	lookupEnv  func(string) (string, bool)
	// newBackend builds the job service client; tests replace it.
	newBackend func(cfg *projectconfig.ProjectConfig) (api.Backend, error)
}

func newApp() *app {
	return &app{
		envFile:    ".env",
		lookupEnv:  os.LookupEnv,
		newBackend: clientFromConfig,
	}
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "benchctl",
		Short: "benchctl - drive and compare LLM interview-question benchmarks",
		Long: `benchctl submits benchmark jobs to the question-generation service,
follows them to completion, and aggregates the per-model results into
comparison tables, rankings and duplicate reports.

Fetched results are kept locally so they can be compared over time and
served over a local REST API.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to "+projectconfig.FileName+" (default: search upward from the working directory)")
	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", a.envFile, "Dotenv file to load before reading the environment")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
		return a.load()
	}

	// Add subcommands
	cmd.AddCommand(newRunCommand(a))
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newStatusCommand(a))
	cmd.AddCommand(newResultCommand(a))
	cmd.AddCommand(newHistoryCommand(a))
	cmd.AddCommand(newCompareCommand(a))
	cmd.AddCommand(newServeCommand(a))

	return cmd
}

func execute() error {
	return newRootCommand(newApp()).ExecuteContext(context.Background())
}

// load reads the dotenv file, the project configuration and the
// environment overrides, in that order.
func (a *app) load() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", a.envFile, err)
		}
	}

	var err error
	if a.configPath != "" {
		a.cfg, err = projectconfig.LoadFile(a.configPath)
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return fmt.Errorf("getting working directory: %w", wdErr)
		}
		a.cfg, err = projectconfig.Load(wd)
	}
	if err != nil {
		return err
	}
	a.cfg.ApplyEnv(a.lookupEnv)
	return nil
}

func clientFromConfig(cfg *projectconfig.ProjectConfig) (api.Backend, error) {
	return api.NewClient(cfg.Backend.BaseURL,
		api.WithToken(cfg.Backend.Token),
		api.WithTimeout(cfg.Backend.Timeout()),
	)
}

func (a *app) classifier() (*duplicates.Classifier, error) {
	t := duplicates.DefaultThresholds()
	if v := a.cfg.Duplicates.ModerateThreshold; v != nil {
		t.Moderate = *v
	}
	if v := a.cfg.Duplicates.HighThreshold; v != nil {
		t.High = *v
	}
	c, err := duplicates.NewClassifier(t)
	if err != nil {
		return nil, fmt.Errorf("duplicates config: %w", err)
	}
	return c, nil
}

func (a *app) aggregator() *aggregate.Aggregator {
	p := aggregate.Pricing{Models: map[string]aggregate.Rate{}}
	if d := a.cfg.Pricing.Default; d != nil {
		p.Default = aggregate.Rate{InputPerMillion: d.InputPerMillion, OutputPerMillion: d.OutputPerMillion}
	}
	for k, r := range a.cfg.Pricing.Models {
		p.Models[k] = aggregate.Rate{InputPerMillion: r.InputPerMillion, OutputPerMillion: r.OutputPerMillion}
	}
	return aggregate.New(aggregate.WithCostEstimator(p))
}

func (a *app) results() (*resultstore.Store, error) {
	return resultstore.New(a.cfg.Paths.Results)
}

// orchestrator wires the backend, aggregation and polling policy from the
// configuration. Extra options are applied last.
func (a *app) orchestrator(extra ...benchmark.Option) (*benchmark.Orchestrator, error) {
	backend, err := a.newBackend(a.cfg)
	if err != nil {
		return nil, err
	}
	classifier, err := a.classifier()
	if err != nil {
		return nil, err
	}
	opts := []benchmark.Option{
		benchmark.WithAggregator(a.aggregator()),
		benchmark.WithClassifier(classifier),
		benchmark.WithControllerOptions(
			jobs.WithInterval(a.cfg.Polling.Interval()),
			jobs.WithMaxConsecutiveFailures(a.cfg.Polling.MaxConsecutiveFailures),
		),
	}
	return benchmark.New(backend, append(opts, extra...)...), nil
}
