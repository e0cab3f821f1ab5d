package webapi

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/contentops/benchconsole/internal/aggregate"
	"github.com/contentops/benchconsole/internal/benchmark"
	"github.com/contentops/benchconsole/internal/duplicates"
	"github.com/contentops/benchconsole/internal/models"
	"github.com/contentops/benchconsole/internal/resultstore"
)

// ErrRunNotFound is returned when a run ID does not match any stored run.
var ErrRunNotFound = errors.New("run not found")

// RunStore provides access to benchmark run data.
type RunStore interface {
	// ListRuns returns all runs, sorted by the given field and order.
	ListRuns(sortField, order string) ([]RunSummary, error)
	// GetRun returns a single run with its aggregated view.
	GetRun(id string) (*RunDetail, error)
	// Summary returns aggregate metrics across all runs.
	Summary() (*SummaryResponse, error)
	// Compare reduces the runs of the last days per model. days <= 0
	// covers every run.
	Compare(days int) ([]models.ModelComparisonStats, error)
}

// FileStore serves runs kept in a result store.
type FileStore struct {
	results    *resultstore.Store
	agg        *aggregate.Aggregator
	classifier *duplicates.Classifier
	now        func() time.Time
}

// NewFileStore creates a FileStore over results.
func NewFileStore(results *resultstore.Store, agg *aggregate.Aggregator, classifier *duplicates.Classifier) *FileStore {
	if agg == nil {
		agg = aggregate.New()
	}
	if classifier == nil {
		classifier = duplicates.DefaultClassifier()
	}
	return &FileStore{results: results, agg: agg, classifier: classifier, now: time.Now}
}

func (fs *FileStore) view(rec *resultstore.Record) *benchmark.View {
	res := rec.Result
	if res.JobID == "" {
		res.JobID = rec.JobID
	}
	return benchmark.BuildView(fs.agg, fs.classifier, &res)
}

func recordToSummary(rec *resultstore.Record, view *benchmark.View) RunSummary {
	s := RunSummary{
		ID:         rec.JobID,
		PurchaseID: view.PurchaseInfo.PurchaseID,
		Company:    view.PurchaseInfo.Company,
		Position:   view.PurchaseInfo.Position,
		Models:     make([]string, 0, len(view.Summaries)),
		Timestamp:  rec.SavedAt,
	}
	for _, mv := range view.Summaries {
		s.Models = append(s.Models, mv.Model.String())
		if mv.Failed {
			s.FailedModels++
			continue
		}
		s.Questions += len(mv.Questions)
		s.Evaluated += mv.Summary.SuccessCount
		s.Tokens += mv.Summary.TotalInputTokens + mv.Summary.TotalOutputTokens
		s.Cost += mv.Summary.TotalCostUsd
	}
	if len(view.Ranking) > 0 && view.Ranking[0].Rank == 1 {
		top := view.Ranking[0].Row
		s.TopModel = top.Model.String()
		s.TopScore = top.Summary.AvgTotalScore
	}
	return s
}

// ListRuns returns all runs sorted by the given field and order.
func (fs *FileStore) ListRuns(sortField, order string) ([]RunSummary, error) {
	records, err := fs.results.Records()
	if err != nil {
		return nil, err
	}
	runs := make([]RunSummary, 0, len(records))
	for _, rec := range records {
		runs = append(runs, recordToSummary(rec, fs.view(rec)))
	}
	sortRuns(runs, sortField, order)
	return runs, nil
}

// GetRun returns a single run with its aggregated view.
func (fs *FileStore) GetRun(id string) (*RunDetail, error) {
	rec, err := fs.results.Get(id)
	if err != nil {
		if errors.Is(err, resultstore.ErrNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	view := fs.view(rec)
	return &RunDetail{RunSummary: recordToSummary(rec, view), View: view}, nil
}

// Summary returns aggregate metrics across all runs.
func (fs *FileStore) Summary() (*SummaryResponse, error) {
	runs, err := fs.ListRuns("", "")
	if err != nil {
		return nil, err
	}
	return summarize(runs), nil
}

// Compare reduces the stored runs of the last days per model.
func (fs *FileStore) Compare(days int) ([]models.ModelComparisonStats, error) {
	runs, err := fs.results.HistoricalRuns()
	if err != nil {
		return nil, err
	}
	window := time.Duration(max(days, 0)) * 24 * time.Hour
	return fs.agg.CompareWindow(runs, fs.now(), window), nil
}

func summarize(runs []RunSummary) *SummaryResponse {
	resp := &SummaryResponse{TotalRuns: len(runs)}
	if len(runs) == 0 {
		return resp
	}

	totalTokens := 0
	totalCost := 0.0
	evaluated := 0
	for _, r := range runs {
		resp.TotalModels += len(r.Models)
		resp.FailedModels += r.FailedModels
		resp.TotalQuestions += r.Questions
		evaluated += r.Evaluated
		totalTokens += r.Tokens
		totalCost += r.Cost
	}
	if resp.TotalQuestions > 0 {
		resp.EvaluatedRate = float64(evaluated) / float64(resp.TotalQuestions) * 100.0
	}
	resp.AvgTokens = float64(totalTokens) / float64(resp.TotalRuns)
	resp.AvgCost = totalCost / float64(resp.TotalRuns)
	return resp
}

func sortRuns(runs []RunSummary, field, order string) {
	compare := func(a, b RunSummary) int {
		switch field {
		case "tokens":
			return cmp.Compare(a.Tokens, b.Tokens)
		case "cost":
			return cmp.Compare(a.Cost, b.Cost)
		case "questions":
			return cmp.Compare(a.Questions, b.Questions)
		case "score":
			return compareScore(a.TopScore, b.TopScore)
		default: // "timestamp" or empty
			return a.Timestamp.Compare(b.Timestamp)
		}
	}

	slices.SortStableFunc(runs, func(a, b RunSummary) int {
		c := compare(a, b)
		if order != "asc" {
			c = -c
		}
		return cmp.Or(c, strings.Compare(a.ID, b.ID))
	})
}

// compareScore orders undefined scores below every defined one.
func compareScore(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}

// Ensure FileStore satisfies RunStore.
var _ RunStore = (*FileStore)(nil)
