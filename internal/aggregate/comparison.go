package aggregate

import (
	"slices"

	"github.com/contentops/benchconsole/internal/metrics"
	"github.com/contentops/benchconsole/internal/models"
	"github.com/contentops/benchconsole/internal/statistics"
)

// ComparisonRow is one model's line in the cross-model comparison.
type ComparisonRow struct {
	Model   models.ModelConfig `json:"model"`
	Summary models.Summary     `json:"summary"`
	Failed  bool               `json:"failed"`
	Error   string             `json:"error,omitempty"`

	// TotalScoreStdDev and TotalScoreCI are nil below two evaluated questions.
	TotalScoreStdDev *float64                       `json:"totalScoreStdDev,omitempty"`
	TotalScoreCI     *statistics.ConfidenceInterval `json:"totalScoreCi,omitempty"`
}

// ComparisonRows builds one row per model, in submission order. Failed
// models keep their row with Failed set; they are never dropped.
func (a *Aggregator) ComparisonRows(results []models.ModelResult) []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(results))
	for i := range results {
		rows = append(rows, a.comparisonRow(&results[i]))
	}
	return rows
}

func (a *Aggregator) comparisonRow(r *models.ModelResult) ComparisonRow {
	row := ComparisonRow{
		Model:   r.Model,
		Summary: a.SummarizeResult(r),
		Failed:  r.Failed(),
		Error:   r.Error,
	}
	if row.Failed {
		return row
	}
	if scores := totalScores(r.Questions); len(scores) >= 2 {
		sd := metrics.StdDev(scores)
		ci := a.bootstrap.MeanCI(scores, a.confidence)
		row.TotalScoreStdDev = &sd
		row.TotalScoreCI = &ci
	}
	return row
}

// RankedRow is a comparison row with its position in the ranking.
type RankedRow struct {
	// Rank is 1-based; rows sharing a score share a rank. Zero means the
	// row is unranked (failed or no evaluated questions).
	Rank int           `json:"rank"`
	Row  ComparisonRow `json:"row"`
	Tied bool          `json:"tied,omitempty"`
	// SeparatedFromNext is set when this row's CI lies entirely above the
	// next ranked row's CI.
	SeparatedFromNext bool `json:"separatedFromNext,omitempty"`
}

// Rank orders rows by average total score, highest first. Equal scores keep
// their submission order. Unranked rows follow, also in submission order.
func Rank(rows []ComparisonRow) []RankedRow {
	var ranked, unranked []RankedRow
	for _, row := range rows {
		if row.Failed || row.Summary.AvgTotalScore == nil {
			unranked = append(unranked, RankedRow{Row: row})
			continue
		}
		ranked = append(ranked, RankedRow{Row: row})
	}

	slices.SortStableFunc(ranked, func(a, b RankedRow) int {
		x, y := *a.Row.Summary.AvgTotalScore, *b.Row.Summary.AvgTotalScore
		switch {
		case x > y:
			return -1
		case x < y:
			return 1
		}
		return 0
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
		if i == 0 {
			continue
		}
		prev := &ranked[i-1]
		if *prev.Row.Summary.AvgTotalScore == *ranked[i].Row.Summary.AvgTotalScore {
			ranked[i].Rank = prev.Rank
			ranked[i].Tied = true
			prev.Tied = true
		}
		if prev.Row.TotalScoreCI != nil && ranked[i].Row.TotalScoreCI != nil {
			prev.SeparatedFromNext = !prev.Row.TotalScoreCI.Overlaps(*ranked[i].Row.TotalScoreCI)
		}
	}

	return append(ranked, unranked...)
}
