package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/contentops/benchconsole/internal/benchmark"
	"github.com/contentops/benchconsole/internal/duplicates"
	"github.com/contentops/benchconsole/internal/models"
	"github.com/mattn/go-runewidth"
)

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// truncateName shortens a name to maxLen cells, ending in "…" if cut.
func truncateName(name string, maxLen int) string {
	return runewidth.Truncate(name, maxLen, "…")
}

// formatAvg renders an average; undefined averages are never shown as zero.
func formatAvg(v *float64, decimals int) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}

// table collects rows and prints them with display-width aware columns.
type table struct {
	header []string
	rows   [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) write(w io.Writer) {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range t.rows {
		for i, c := range r {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	line := func(cells []string) {
		var b strings.Builder
		for i, c := range cells {
			if i == len(cells)-1 {
				b.WriteString(c)
				break
			}
			b.WriteString(padRight(c, widths[i]))
			b.WriteString("  ")
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " ")) //nolint:errcheck
	}

	line(t.header)
	sep := make([]string, len(widths))
	for i, n := range widths {
		sep[i] = strings.Repeat("─", n)
	}
	line(sep)
	for _, r := range t.rows {
		line(r)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

const modelColumnWidth = 32

// printView renders the ranking and per-model summary of a completed job.
func printView(w io.Writer, view *benchmark.View) {
	fmt.Fprintf(w, "Job %s", view.JobID) //nolint:errcheck
	if p := view.PurchaseInfo; p.PurchaseID != 0 {
		fmt.Fprintf(w, "  purchase #%d", p.PurchaseID) //nolint:errcheck
		if p.Company != "" {
			fmt.Fprintf(w, " %s", p.Company) //nolint:errcheck
		}
		if p.Position != "" {
			fmt.Fprintf(w, " / %s", p.Position) //nolint:errcheck
		}
	}
	fmt.Fprintln(w) //nolint:errcheck
	fmt.Fprintln(w) //nolint:errcheck

	t := &table{header: []string{"#", "MODEL", "AVG", "±SD", "REL", "DEPTH", "REAL", "GUIDE", "DIV", "OK/FAIL", "LATENCY", "TOKENS", "COST", "DUPS"}}
	for _, rr := range view.Ranking {
		row := rr.Row
		rank := "-"
		if rr.Rank > 0 {
			rank = strconv.Itoa(rr.Rank)
			if rr.Tied {
				rank += "="
			}
		}
		name := truncateName(row.Model.String(), modelColumnWidth)
		if row.Failed {
			t.add(rank, name, "failed: "+row.Error)
			continue
		}
		s := row.Summary
		cells := []string{rank, name, formatAvg(s.AvgTotalScore, 1), formatAvg(row.TotalScoreStdDev, 1)}
		for _, d := range models.Dimensions {
			cells = append(cells, formatAvg(d.Average(&s), 1))
		}
		cells = append(cells,
			fmt.Sprintf("%d/%d", s.SuccessCount, s.FailureCount),
			formatLatency(s.AvgLatencyMs),
			strconv.Itoa(s.TotalInputTokens+s.TotalOutputTokens),
			fmt.Sprintf("$%.4f", s.TotalCostUsd),
			duplicateCell(view, row.Model),
		)
		t.add(cells...)
	}
	t.write(w)
}

func formatLatency(ms *float64) string {
	if ms == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0fms", *ms)
}

// duplicateCell summarizes the model's duplicate verdicts as "high/moderate".
func duplicateCell(view *benchmark.View, model models.ModelConfig) string {
	for _, mv := range view.Summaries {
		if mv.Model != model {
			continue
		}
		if mv.Duplicates.Evaluated == 0 {
			return "n/a"
		}
		return fmt.Sprintf("%d/%d",
			mv.Duplicates.BySeverity[duplicates.SeverityHigh],
			mv.Duplicates.BySeverity[duplicates.SeverityModerate])
	}
	return "n/a"
}

// printComparison renders per-model statistics over a window.
func printComparison(w io.Writer, stats []models.ModelComparisonStats) {
	if len(stats) == 0 {
		fmt.Fprintln(w, "No runs in window.") //nolint:errcheck
		return
	}
	t := &table{header: []string{"MODEL", "RUNS", "FAILED", "QUESTIONS", "AVG", "REL", "DEPTH", "REAL", "GUIDE", "DIV", "LATENCY", "TOKENS", "COST"}}
	for i := range stats {
		s := &stats[i]
		t.add(
			truncateName(s.Key().String(), modelColumnWidth),
			strconv.Itoa(s.RunCount),
			strconv.Itoa(s.FailedRuns),
			strconv.Itoa(s.QuestionCount),
			formatAvg(s.AvgTotalScore, 1),
			formatAvg(s.AvgResumeRelevance, 1),
			formatAvg(s.AvgQuestionDepth, 1),
			formatAvg(s.AvgPracticalRealism, 1),
			formatAvg(s.AvgGuideQuality, 1),
			formatAvg(s.AvgDiversity, 1),
			formatLatency(s.AvgLatencyMs),
			strconv.Itoa(s.TotalInputTokens+s.TotalOutputTokens),
			fmt.Sprintf("$%.4f", s.TotalCostUsd),
		)
	}
	t.write(w)
}

// formatProgress renders one progress snapshot as a single line.
func formatProgress(j models.BenchmarkJob) string {
	msg := j.ProgressMessage
	if msg == "" {
		msg = strings.ToLower(string(j.Status))
	}
	line := fmt.Sprintf("[%3d%%] %s", j.ProgressPercentage, msg)
	if j.TotalModels > 0 {
		line += fmt.Sprintf(" (models %d/%d", j.CompletedModels, j.TotalModels)
		if j.TotalQuestionsPerModel > 0 {
			line += fmt.Sprintf(", questions %d/%d", j.CompletedQuestions, j.TotalQuestionsPerModel)
		}
		line += ")"
	}
	return line
}
