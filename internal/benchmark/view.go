package benchmark

import (
	"slices"

	"github.com/contentops/benchconsole/internal/aggregate"
	"github.com/contentops/benchconsole/internal/duplicates"
	"github.com/contentops/benchconsole/internal/models"
)

// ModelView is one model's entry in a View. Failed models keep their entry
// with Failed set and an empty summary carrying one failure.
type ModelView struct {
	Model      models.ModelConfig           `json:"model"`
	Summary    models.Summary               `json:"summary"`
	Failed     bool                         `json:"failed"`
	Error      string                       `json:"error,omitempty"`
	Questions  []models.QuestionResult      `json:"questions,omitempty"`
	Verdicts   []duplicates.QuestionVerdict `json:"verdicts,omitempty"`
	Duplicates duplicates.Summary           `json:"duplicates"`
}

// View is the render-ready form of a completed job.
type View struct {
	JobID          string                    `json:"jobId"`
	PurchaseInfo   models.PurchaseInfo       `json:"purchaseInfo"`
	Summaries      []ModelView               `json:"summaries"`
	ComparisonRows []aggregate.ComparisonRow `json:"comparisonRows"`
	Radar          []aggregate.RadarSeries   `json:"radar"`
	Ranking        []aggregate.RankedRow     `json:"ranking"`
}

// Populated returns the entries of models that did not fail.
func (v *View) Populated() []ModelView {
	var out []ModelView
	for _, s := range v.Summaries {
		if !s.Failed {
			out = append(out, s)
		}
	}
	return out
}

// BuildView derives the aggregated view of result. It never modifies
// result and returns nil for a nil result.
func BuildView(agg *aggregate.Aggregator, classifier *duplicates.Classifier, result *models.BenchmarkResult) *View {
	if result == nil {
		return nil
	}

	rows := agg.ComparisonRows(result.Results)
	view := &View{
		JobID:          result.JobID,
		PurchaseInfo:   result.PurchaseInfo,
		Summaries:      make([]ModelView, 0, len(result.Results)),
		ComparisonRows: rows,
		Radar:          aggregate.Radar(rows),
		Ranking:        aggregate.Rank(rows),
	}

	for i := range result.Results {
		r := &result.Results[i]
		mv := ModelView{
			Model:   r.Model,
			Summary: rows[i].Summary,
			Failed:  r.Failed(),
			Error:   r.Error,
		}
		if !mv.Failed {
			mv.Questions = viewQuestions(r.Questions)
			mv.Verdicts = classifier.ClassifyQuestions(r.Questions)
		}
		mv.Duplicates = duplicates.Summarize(mv.Verdicts)
		view.Summaries = append(view.Summaries, mv)
	}
	return view
}

// viewQuestions copies qs with every duplicate flag derived from its match
// list, the rule the verdicts follow.
func viewQuestions(qs []models.QuestionResult) []models.QuestionResult {
	out := slices.Clone(qs)
	for i := range out {
		d := out[i].DuplicateScore
		if d == nil {
			continue
		}
		cp := *d
		cp.HasDuplicate = len(d.Matches) > 0
		cp.Matches = slices.Clone(d.Matches)
		out[i].DuplicateScore = &cp
	}
	return out
}
