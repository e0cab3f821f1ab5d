// Package aggregate reduces raw per-question scores into per-model summaries,
// cross-model comparison rows and trailing-window history statistics.
//
// Everything here is pure: inputs are never modified and no I/O happens.
package aggregate

import (
	"github.com/contentops/benchconsole/internal/metrics"
	"github.com/contentops/benchconsole/internal/models"
	"github.com/contentops/benchconsole/internal/statistics"
)

// DefaultConfidenceLevel is used for the total-score bootstrap interval.
const DefaultConfidenceLevel = 0.95

// Aggregator holds the external constants the reductions depend on.
type Aggregator struct {
	cost       CostEstimator
	bootstrap  statistics.Bootstrap
	confidence float64
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithCostEstimator sets how token usage is priced.
func WithCostEstimator(c CostEstimator) Option {
	return func(a *Aggregator) {
		if c != nil {
			a.cost = c
		}
	}
}

// WithBootstrap overrides the bootstrap resampler and confidence level.
func WithBootstrap(b statistics.Bootstrap, level float64) Option {
	return func(a *Aggregator) {
		a.bootstrap = b
		if level > 0 && level < 1 {
			a.confidence = level
		}
	}
}

// New creates an Aggregator. Without a cost estimator all costs are zero.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		cost:       noCost{},
		bootstrap:  statistics.NewBootstrap(),
		confidence: DefaultConfidenceLevel,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Summarize reduces one model's questions. A question counts as a success
// iff it has an evaluation; averages cover evaluated questions only and are
// nil when there are none.
func (a *Aggregator) Summarize(model models.ModelConfig, questions []models.QuestionResult) models.Summary {
	var acc accumulator
	for i := range questions {
		acc.add(a.cost, model, &questions[i])
	}
	return acc.summary()
}

// SummarizeResult is Summarize for a ModelResult. A model that failed as a
// whole yields an empty summary with one model-level failure.
func (a *Aggregator) SummarizeResult(r *models.ModelResult) models.Summary {
	if r.Failed() {
		return models.Summary{FailureCount: 1}
	}
	return a.Summarize(r.Model, r.Questions)
}

// totalScores returns the evaluated total scores in question order.
func totalScores(questions []models.QuestionResult) []float64 {
	var scores []float64
	for i := range questions {
		if q := &questions[i]; q.Evaluated() {
			scores = append(scores, q.Evaluation.TotalScore)
		}
	}
	return scores
}

type accumulator struct {
	totals    []float64
	dims      map[models.Dimension][]float64
	latencies []float64

	inputTokens  int
	outputTokens int
	cost         float64

	success int
	failure int
}

func (acc *accumulator) add(cost CostEstimator, model models.ModelConfig, q *models.QuestionResult) {
	acc.latencies = append(acc.latencies, float64(q.LatencyMs))
	acc.inputTokens += q.InputTokens
	acc.outputTokens += q.OutputTokens
	acc.cost += cost.EstimateCost(model, q.InputTokens, q.OutputTokens)

	if !q.Evaluated() {
		acc.failure++
		return
	}
	acc.success++
	acc.totals = append(acc.totals, q.Evaluation.TotalScore)
	if acc.dims == nil {
		acc.dims = make(map[models.Dimension][]float64, len(models.Dimensions))
	}
	for _, d := range models.Dimensions {
		v, _ := d.Score(q.Evaluation)
		acc.dims[d] = append(acc.dims[d], v)
	}
}

func (acc *accumulator) summary() models.Summary {
	s := models.Summary{
		AvgTotalScore:     metrics.MeanPtr(acc.totals),
		AvgLatencyMs:      metrics.MeanPtr(acc.latencies),
		TotalInputTokens:  acc.inputTokens,
		TotalOutputTokens: acc.outputTokens,
		TotalCostUsd:      acc.cost,
		SuccessCount:      acc.success,
		FailureCount:      acc.failure,
	}
	for _, d := range models.Dimensions {
		d.SetAverage(&s, metrics.MeanPtr(acc.dims[d]))
	}
	return s
}
