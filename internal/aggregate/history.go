package aggregate

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/contentops/benchconsole/internal/models"
)

// DefaultHistoryWindow is the trailing window used by comparison-over-time.
const DefaultHistoryWindow = 30 * 24 * time.Hour

// CompareWindow groups every model result of runs created within the
// trailing window by (provider, name) and reduces each group across all of
// its historical questions. A window <= 0 keeps every run.
//
// The result is sorted by provider then name and does not depend on the
// order of runs.
func (a *Aggregator) CompareWindow(runs []models.HistoricalRun, now time.Time, window time.Duration) []models.ModelComparisonStats {
	ordered := slices.Clone(runs)
	slices.SortFunc(ordered, func(x, y models.HistoricalRun) int {
		if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(x.JobID, y.JobID)
	})

	cutoff := now.Add(-window)
	groups := map[models.ModelKey]*historyGroup{}
	for i := range ordered {
		run := &ordered[i]
		if window > 0 && run.CreatedAt.Before(cutoff) {
			continue
		}
		for j := range run.Results {
			r := &run.Results[j]
			key := r.Model.Key()
			g, ok := groups[key]
			if !ok {
				g = &historyGroup{}
				groups[key] = g
			}
			g.runs++
			if r.Failed() {
				g.failedRuns++
				continue
			}
			for k := range r.Questions {
				g.acc.add(a.cost, r.Model, &r.Questions[k])
			}
		}
	}

	out := make([]models.ModelComparisonStats, 0, len(groups))
	for key, g := range groups {
		s := g.acc.summary()
		out = append(out, models.ModelComparisonStats{
			ModelProvider:       key.Provider,
			ModelName:           key.Name,
			RunCount:            g.runs,
			FailedRuns:          g.failedRuns,
			QuestionCount:       g.acc.success + g.acc.failure,
			AvgTotalScore:       s.AvgTotalScore,
			AvgResumeRelevance:  s.AvgResumeRelevance,
			AvgQuestionDepth:    s.AvgQuestionDepth,
			AvgPracticalRealism: s.AvgPracticalRealism,
			AvgGuideQuality:     s.AvgGuideQuality,
			AvgDiversity:        s.AvgDiversity,
			AvgLatencyMs:        s.AvgLatencyMs,
			TotalInputTokens:    s.TotalInputTokens,
			TotalOutputTokens:   s.TotalOutputTokens,
			TotalCostUsd:        s.TotalCostUsd,
		})
	}
	slices.SortFunc(out, func(x, y models.ModelComparisonStats) int {
		return cmp.Or(
			strings.Compare(x.ModelProvider, y.ModelProvider),
			strings.Compare(x.ModelName, y.ModelName),
		)
	})
	return out
}

type historyGroup struct {
	runs       int
	failedRuns int
	acc        accumulator
}
