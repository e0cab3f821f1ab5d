// Package benchmark is the entry point for submitting benchmark jobs,
// following them to completion and turning their results into views.
package benchmark

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/contentops/benchconsole/internal/aggregate"
	"github.com/contentops/benchconsole/internal/api"
	"github.com/contentops/benchconsole/internal/duplicates"
	"github.com/contentops/benchconsole/internal/jobs"
	"github.com/contentops/benchconsole/internal/models"
)

// SubmissionError is returned by Submit when the request is structurally
// invalid. No job is created.
type SubmissionError struct {
	Reason string
}

func (e *SubmissionError) Error() string {
	return "invalid benchmark submission: " + e.Reason
}

// Observer receives the events of an observed job. OnComplete only ever
// sees the aggregated view. Callbacks must not cancel or replace their own
// observation.
type Observer struct {
	OnProgress func(models.BenchmarkJob)
	OnComplete func(*View)
	OnError    func(error)
}

// CancelFunc stops an observation. It is idempotent and silent, and it
// returns only after a running callback has finished.
type CancelFunc func()

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithAggregator replaces the default aggregator.
func WithAggregator(a *aggregate.Aggregator) Option {
	return func(o *Orchestrator) {
		if a != nil {
			o.agg = a
		}
	}
}

// WithClassifier replaces the default duplicate classifier.
func WithClassifier(c *duplicates.Classifier) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.classifier = c
		}
	}
}

// WithControllerOptions forwards options to the job controller.
func WithControllerOptions(opts ...jobs.Option) Option {
	return func(o *Orchestrator) {
		o.controllerOpts = append(o.controllerOpts, opts...)
	}
}

// WithResultHook registers fn to receive every completed result, with its
// job id filled in, before the view is built. A hook error is logged and
// does not stop delivery.
func WithResultHook(fn func(*models.BenchmarkResult) error) Option {
	return func(o *Orchestrator) {
		o.resultHook = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// Orchestrator ties the backend, the job controller and the aggregation
// together. At most one job is observed at a time.
type Orchestrator struct {
	backend    api.Backend
	agg        *aggregate.Aggregator
	classifier *duplicates.Classifier
	controller *jobs.Controller
	logger     *slog.Logger

	controllerOpts []jobs.Option
	resultHook     func(*models.BenchmarkResult) error
	now            func() time.Time
}

// New creates an Orchestrator on top of backend.
func New(backend api.Backend, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backend:    backend,
		agg:        aggregate.New(),
		classifier: duplicates.DefaultClassifier(),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.controller = jobs.NewController(backend, append([]jobs.Option{jobs.WithLogger(o.logger)}, o.controllerOpts...)...)
	return o
}

// Submit starts a new job and returns its id. Only structural
// preconditions are checked here; business rules belong to the backend.
// The active observation is cancelled once the backend has accepted the
// job, so a rejected submission leaves it running.
func (o *Orchestrator) Submit(ctx context.Context, req models.StartRequest) (string, error) {
	if err := validateSubmission(req); err != nil {
		return "", err
	}

	resp, err := o.backend.StartBenchmark(ctx, req)
	if err != nil {
		return "", fmt.Errorf("starting benchmark: %w", err)
	}
	o.controller.Cancel()
	o.logger.Info("benchmark submitted", "job_id", resp.JobID, "models", len(req.Models), "questions", req.QuestionCount)
	return resp.JobID, nil
}

func validateSubmission(req models.StartRequest) error {
	if len(req.Models) == 0 {
		return &SubmissionError{Reason: "no models selected"}
	}
	for i, m := range req.Models {
		if strings.TrimSpace(m.Name) == "" {
			return &SubmissionError{Reason: fmt.Sprintf("model %d has no name", i+1)}
		}
	}
	if req.QuestionCount < 1 {
		return &SubmissionError{Reason: fmt.Sprintf("question count must be positive, got %d", req.QuestionCount)}
	}
	return nil
}

// Observe follows jobID until it reaches a terminal state. A previous
// observation is cancelled first.
func (o *Orchestrator) Observe(ctx context.Context, jobID string, obs Observer) CancelFunc {
	stop := o.controller.Start(ctx, jobID, jobs.Handlers{
		OnProgress: obs.OnProgress,
		OnComplete: func(res *models.BenchmarkResult) {
			if res.JobID == "" {
				cp := *res
				cp.JobID = jobID
				res = &cp
			}
			if o.resultHook != nil {
				if err := o.resultHook(res); err != nil {
					o.logger.Warn("result hook failed", "job_id", jobID, "error", err)
				}
			}
			view := o.AggregatedView(res)
			if obs.OnComplete != nil {
				obs.OnComplete(view)
			}
		},
		OnError: func(err error) {
			o.logger.Debug("benchmark observation ended with error", "job_id", jobID, "error", err)
			if obs.OnError != nil {
				obs.OnError(err)
			}
		},
	})
	return CancelFunc(stop)
}

// Cancel stops the active observation, if any.
func (o *Orchestrator) Cancel() {
	o.controller.Cancel()
}

// Snapshot returns the latest progress of the observed job.
func (o *Orchestrator) Snapshot() models.BenchmarkJob {
	return o.controller.Snapshot()
}

// AggregatedView derives the render-ready view of a completed result.
func (o *Orchestrator) AggregatedView(result *models.BenchmarkResult) *View {
	return BuildView(o.agg, o.classifier, result)
}

// Await blocks until jobID finishes. If ctx ends first the observation is
// dropped without notifying the backend and ctx.Err() is returned.
func (o *Orchestrator) Await(ctx context.Context, jobID string, onProgress func(models.BenchmarkJob)) (*View, error) {
	type outcome struct {
		view *View
		err  error
	}
	done := make(chan outcome, 1)

	stop := o.Observe(ctx, jobID, Observer{
		OnProgress: onProgress,
		OnComplete: func(v *View) { done <- outcome{view: v} },
		OnError:    func(err error) { done <- outcome{err: err} },
	})
	defer stop()

	select {
	case out := <-done:
		return out.view, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run submits req and waits for the job. The job id is returned even when
// waiting fails so the caller can resume later.
func (o *Orchestrator) Run(ctx context.Context, req models.StartRequest, onProgress func(models.BenchmarkJob)) (string, *View, error) {
	jobID, err := o.Submit(ctx, req)
	if err != nil {
		return "", nil, err
	}
	view, err := o.Await(ctx, jobID, onProgress)
	return jobID, view, err
}

// History lists past jobs.
func (o *Orchestrator) History(ctx context.Context, page, size int) (*models.Page[models.BenchmarkJobSummary], error) {
	return o.backend.History(ctx, page, size)
}

// Compare returns the service's per-model statistics over the last days.
func (o *Orchestrator) Compare(ctx context.Context, days int) ([]models.ModelComparisonStats, error) {
	return o.backend.Compare(ctx, days)
}

// CompareRuns reduces locally stored runs over the last days. days <= 0
// keeps every run.
func (o *Orchestrator) CompareRuns(runs []models.HistoricalRun, days int) []models.ModelComparisonStats {
	window := time.Duration(days) * 24 * time.Hour
	return o.agg.CompareWindow(runs, o.now(), window)
}
