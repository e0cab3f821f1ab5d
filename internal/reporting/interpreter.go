package reporting

import (
	"fmt"
	"strings"

	"github.com/contentops/benchconsole/internal/benchmark"
	"github.com/contentops/benchconsole/internal/duplicates"
	"github.com/contentops/benchconsole/internal/models"
)

// InterpretScore returns a plain-language label for an average total score (0–100).
func InterpretScore(score float64) string {
	switch {
	case score > 90:
		return "Excellent (>90)"
	case score >= 70:
		return "Good (70-90)"
	case score >= 50:
		return "Needs Work (50-70)"
	default:
		return "Poor (<50)"
	}
}

// InterpretSeverity explains a duplicate severity band.
func InterpretSeverity(s duplicates.Severity) string {
	switch s {
	case duplicates.SeverityHigh:
		return "likely duplicate of another question"
	case duplicates.SeverityModerate:
		return "overlaps noticeably with another question"
	case duplicates.SeverityLow:
		return "distinct"
	case duplicates.SeverityNotRun:
		return "duplicate detection did not run"
	default:
		return string(s)
	}
}

// InterpretEvaluated describes how many of a model's questions were scored.
func InterpretEvaluated(success, total int) string {
	if total == 0 {
		return "no questions generated"
	}
	if success == total {
		return fmt.Sprintf("all %d questions evaluated", total)
	}
	return fmt.Sprintf("%d of %d questions evaluated", success, total)
}

// FormatViewReport produces a plain-language report from an aggregated view.
func FormatViewReport(view *benchmark.View) string {
	var b strings.Builder

	b.WriteString("=== Interpretation ===\n\n")
	if view == nil {
		b.WriteString("No result.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Job:      %s\n", view.JobID))
	if p := view.PurchaseInfo; p.Company != "" || p.Position != "" {
		b.WriteString(fmt.Sprintf("Purchase: #%d %s %s\n", p.PurchaseID, p.Company, p.Position))
	}
	b.WriteString(fmt.Sprintf("Models:   %d of %d produced results\n", len(view.Populated()), len(view.Summaries)))

	if len(view.Ranking) > 0 {
		b.WriteString("\nRanking:\n")
		for _, rr := range view.Ranking {
			row := rr.Row
			if rr.Rank == 0 {
				reason := "no evaluated questions"
				if row.Failed {
					reason = "failed: " + row.Error
				}
				b.WriteString(fmt.Sprintf("   -  %s (%s)\n", row.Model, reason))
				continue
			}
			avg := *row.Summary.AvgTotalScore
			line := fmt.Sprintf("  %2d. %s  %.1f  %s", rr.Rank, row.Model, avg, InterpretScore(avg))
			if rr.Tied {
				line += "  [tied]"
			}
			if rr.SeparatedFromNext {
				line += "  [clear lead over next]"
			}
			b.WriteString(line + "\n")
		}
	}

	// Per-model interpretation
	if len(view.Summaries) > 0 {
		b.WriteString("\nPer-Model Interpretation:\n")
		for _, mv := range view.Summaries {
			if mv.Failed {
				b.WriteString(fmt.Sprintf("  ✗ %s: failed (%s)\n", mv.Model, mv.Error))
				continue
			}
			s := mv.Summary
			b.WriteString(fmt.Sprintf("  ✓ %s: %s\n", mv.Model, InterpretEvaluated(s.SuccessCount, s.SuccessCount+s.FailureCount)))
			b.WriteString(fmt.Sprintf("    Tokens: %d in / %d out, cost $%.4f\n", s.TotalInputTokens, s.TotalOutputTokens, s.TotalCostUsd))
			if w := weakestDimension(mv); w != "" {
				b.WriteString("    " + w + "\n")
			}
			b.WriteString("    " + formatDuplicates(mv.Duplicates) + "\n")
		}
	}

	return b.String()
}

func formatDuplicates(s duplicates.Summary) string {
	if s.Evaluated == 0 {
		return "Duplicates: " + InterpretSeverity(duplicates.SeverityNotRun)
	}
	high := s.BySeverity[duplicates.SeverityHigh]
	moderate := s.BySeverity[duplicates.SeverityModerate]
	if high == 0 && moderate == 0 {
		return fmt.Sprintf("Duplicates: all %d checked questions are distinct", s.Evaluated)
	}
	return fmt.Sprintf("Duplicates: %d high, %d moderate of %d checked", high, moderate, s.Evaluated)
}

// weakestDimension names the model's lowest dimension average and quotes the
// judge's reasoning from the question that scored worst on it.
func weakestDimension(mv benchmark.ModelView) string {
	var weakest models.Dimension
	var low float64
	for _, d := range models.Dimensions {
		avg := d.Average(&mv.Summary)
		if avg == nil {
			continue
		}
		if weakest == "" || *avg < low {
			weakest, low = d, *avg
		}
	}
	if weakest == "" {
		return ""
	}

	var worst *models.EvaluationScore
	var worstScore float64
	for i := range mv.Questions {
		e := mv.Questions[i].Evaluation
		v, ok := weakest.Score(e)
		if ok && (worst == nil || v < worstScore) {
			worst, worstScore = e, v
		}
	}

	line := fmt.Sprintf("Weakest: %s (%.1f)", weakest.Label(), low)
	if why := weakest.Reasoning(worst); why != "" {
		line += ", " + why
	}
	return line
}
