// Package jobs drives a submitted benchmark job to a terminal state by
// polling the backend and reporting progress through callbacks.
package jobs

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/contentops/benchconsole/internal/models"
)

const (
	// DefaultInterval is the delay between two status requests.
	DefaultInterval = 2 * time.Second
	// DefaultMaxConsecutiveFailures is how many status requests in a row may
	// fail before the job is reported unreachable.
	DefaultMaxConsecutiveFailures = 30
)

// StatusSource is the part of the backend the controller talks to.
type StatusSource interface {
	Status(ctx context.Context, jobID string) (*models.JobStatusResponse, error)
	Result(ctx context.Context, jobID string) (*models.BenchmarkResult, error)
}

// Handlers receive the events of one observed job. Any of them may be nil.
// Exactly one of OnComplete or OnError fires, unless the run is cancelled,
// in which case neither does.
type Handlers struct {
	OnProgress func(models.BenchmarkJob)
	OnComplete func(*models.BenchmarkResult)
	OnError    func(error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithMaxConsecutiveFailures sets the transient failure ceiling. n <= 0
// retries forever.
func WithMaxConsecutiveFailures(n int) Option {
	return func(c *Controller) {
		c.maxFailures = n
	}
}

// WithLogger sets the logger for transient poll failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// Controller polls one job at a time. Starting a new job stops the
// previous one first.
type Controller struct {
	source      StatusSource
	interval    time.Duration
	maxFailures int
	logger      *slog.Logger
	now         func() time.Time

	mu       sync.Mutex
	active   *run
	snapshot models.BenchmarkJob
}

// NewController creates a Controller polling source.
func NewController(source StatusSource, opts ...Option) *Controller {
	c := &Controller{
		source:      source,
		interval:    DefaultInterval,
		maxFailures: DefaultMaxConsecutiveFailures,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start begins polling jobID. The first status request is issued right
// away. A previous run is stopped first and its in-flight handler, if any,
// finishes before Start returns, so Start must not be called from inside
// one of that run's handlers. The returned func cancels this run only and
// waits like Cancel; it is safe to call any number of times.
func (c *Controller) Start(ctx context.Context, jobID string, h Handlers) func() {
	runCtx, cancel := context.WithCancel(ctx)
	r := &run{
		jobID:    jobID,
		ctx:      runCtx,
		cancel:   cancel,
		handlers: h,
		done:     make(chan struct{}),
	}

	c.mu.Lock()
	prev := c.active
	c.active = r
	c.snapshot = models.NewBenchmarkJob(jobID)
	c.mu.Unlock()

	if prev != nil {
		prev.stop()
	}

	go c.loop(r)
	return r.stop
}

// Cancel stops the active run without notifying the backend. A handler
// already running is waited for and none starts after Cancel returns, so
// Cancel must not be called from inside a handler. Calling it when nothing
// is running is a no-op.
func (c *Controller) Cancel() {
	c.mu.Lock()
	r := c.active
	c.mu.Unlock()
	if r != nil {
		r.stop()
	}
}

// polling reports whether a run is still polling.
func (c *Controller) polling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil && !c.active.stopped.Load()
}

// Snapshot returns the latest progress of the most recently started job.
func (c *Controller) Snapshot() models.BenchmarkJob {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

func (c *Controller) loop(r *run) {
	defer close(r.done)
	defer r.stopped.Store(true)

	timer := time.NewTimer(0)
	defer timer.Stop()

	failures := 0
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-timer.C:
		}

		resp, err := c.source.Status(r.ctx, r.jobID)
		if r.ctx.Err() != nil {
			return
		}
		if err == nil {
			switch {
			case resp == nil:
				err = fmt.Errorf("%w: empty response", ErrUnknownStatus)
			case !resp.Status.Valid():
				err = fmt.Errorf("%w: %q", ErrUnknownStatus, resp.Status)
			}
		}

		if err != nil {
			failures++
			c.logger.Debug("status request failed", "job_id", r.jobID, "attempt", failures, "error", err)
			if c.maxFailures > 0 && failures >= c.maxFailures {
				c.logger.Warn("job status unreachable", "job_id", r.jobID, "attempts", failures)
				r.finish(func() {
					r.fail(&UnreachableError{JobID: r.jobID, Attempts: failures, Err: err})
				})
				return
			}
			timer.Reset(c.interval)
			continue
		}
		failures = 0

		job := c.record(r, resp)
		r.deliver(func() {
			if r.handlers.OnProgress != nil {
				r.handlers.OnProgress(job)
			}
		})

		switch resp.Status {
		case models.JobStatusCompleted:
			c.complete(r)
			return
		case models.JobStatusFailed:
			msg := cmp.Or(resp.ErrorMessage, DefaultFailureMessage)
			r.finish(func() {
				r.fail(&JobFailedError{JobID: r.jobID, Message: msg})
			})
			return
		}
		timer.Reset(c.interval)
	}
}

func (c *Controller) complete(r *run) {
	result, err := c.source.Result(r.ctx, r.jobID)
	if r.ctx.Err() != nil {
		return
	}
	if err == nil && result == nil {
		err = errors.New("empty result")
	}
	if err != nil {
		r.finish(func() {
			r.fail(&RetrievalError{JobID: r.jobID, Err: err})
		})
		return
	}
	r.finish(func() {
		if r.handlers.OnComplete != nil {
			r.handlers.OnComplete(result)
		}
	})
}

// record applies resp to the snapshot if r is still the active run.
func (c *Controller) record(r *run, resp *models.JobStatusResponse) models.BenchmarkJob {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != r {
		job := models.NewBenchmarkJob(r.jobID)
		job.Apply(*resp, c.now())
		return job
	}
	c.snapshot.Apply(*resp, c.now())
	return c.snapshot
}

// run is one polling session. deliverMu is held for every handler call, so
// once stop has acquired it no handler is running and none will start.
type run struct {
	jobID    string
	ctx      context.Context
	cancel   context.CancelFunc
	handlers Handlers
	done     chan struct{}

	deliverMu sync.Mutex
	stopped   atomic.Bool
}

func (r *run) deliver(fn func()) {
	r.deliverMu.Lock()
	defer r.deliverMu.Unlock()
	if r.stopped.Load() {
		return
	}
	fn()
}

// finish delivers the terminal event at most once.
func (r *run) finish(fn func()) {
	r.deliverMu.Lock()
	defer r.deliverMu.Unlock()
	if r.stopped.Swap(true) {
		return
	}
	r.cancel()
	fn()
}

func (r *run) fail(err error) {
	if r.handlers.OnError != nil {
		r.handlers.OnError(err)
	}
}

// stop cancels the run and then waits out an in-flight delivery.
func (r *run) stop() {
	r.stopped.Store(true)
	r.cancel()
	r.deliverMu.Lock()
	r.deliverMu.Unlock()
}
