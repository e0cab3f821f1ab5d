package aggregate

import (
	"testing"
	"time"

	"github.com/contentops/benchconsole/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareWindowGroupsByModelIdentity(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	gpt4oHot := modelResult("openai", "gpt-4o", 80, 60)
	gpt4oHot.Model.Temperature = 1.0

	runs := []models.HistoricalRun{
		{
			JobID:     "job-1",
			CreatedAt: now.Add(-48 * time.Hour),
			Results: []models.ModelResult{
				modelResult("openai", "gpt-4o", 90),
				failedResult("anthropic", "claude", "boom"),
			},
		},
		{
			JobID:     "job-2",
			CreatedAt: now.Add(-24 * time.Hour),
			Results: []models.ModelResult{
				gpt4oHot,
				modelResult("anthropic", "claude", 70),
			},
		},
		{
			JobID:     "job-old",
			CreatedAt: now.Add(-40 * 24 * time.Hour),
			Results:   []models.ModelResult{modelResult("openai", "gpt-4o", 0)},
		},
	}

	stats := New(WithCostEstimator(Pricing{Default: Rate{InputPerMillion: 1, OutputPerMillion: 1}})).
		CompareWindow(runs, now, DefaultHistoryWindow)
	require.Len(t, stats, 2)

	claude := stats[0]
	assert.Equal(t, "anthropic", claude.ModelProvider)
	assert.Equal(t, 2, claude.RunCount)
	assert.Equal(t, 1, claude.FailedRuns)
	assert.Equal(t, 1, claude.QuestionCount)
	require.NotNil(t, claude.AvgTotalScore)
	assert.Equal(t, 70.0, *claude.AvgTotalScore)

	gpt := stats[1]
	assert.Equal(t, "gpt-4o", gpt.ModelName)
	assert.Equal(t, 2, gpt.RunCount)
	assert.Equal(t, 3, gpt.QuestionCount)
	require.NotNil(t, gpt.AvgTotalScore)
	assert.InDelta(t, (90.0+80+60)/3, *gpt.AvgTotalScore, 1e-9)
	assert.Equal(t, 3000, gpt.TotalInputTokens)
	assert.Equal(t, 1500, gpt.TotalOutputTokens)
	assert.InDelta(t, 0.0045, gpt.TotalCostUsd, 1e-12)
}

func TestCompareWindowOrderIndependent(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	runs := []models.HistoricalRun{
		{JobID: "a", CreatedAt: now.Add(-time.Hour), Results: []models.ModelResult{modelResult("openai", "gpt-4o", 81.3, 77.1)}},
		{JobID: "b", CreatedAt: now.Add(-2 * time.Hour), Results: []models.ModelResult{modelResult("openai", "gpt-4o", 64.9)}},
		{JobID: "c", CreatedAt: now.Add(-time.Hour), Results: []models.ModelResult{modelResult("openai", "gpt-4o", 12.7, 99.9), modelResult("google", "gemini", 50)}},
	}
	reversed := []models.HistoricalRun{runs[2], runs[1], runs[0]}
	shuffled := []models.HistoricalRun{runs[1], runs[2], runs[0]}

	agg := New()
	base := agg.CompareWindow(runs, now, DefaultHistoryWindow)
	assert.Equal(t, base, agg.CompareWindow(reversed, now, DefaultHistoryWindow))
	assert.Equal(t, base, agg.CompareWindow(shuffled, now, DefaultHistoryWindow))
}

func TestCompareWindowZeroKeepsEverything(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	runs := []models.HistoricalRun{
		{JobID: "ancient", CreatedAt: now.AddDate(-2, 0, 0), Results: []models.ModelResult{modelResult("openai", "gpt-4o", 50)}},
	}
	stats := New().CompareWindow(runs, now, 0)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].RunCount)

	assert.Empty(t, New().CompareWindow(runs, now, DefaultHistoryWindow))
}

func TestCompareWindowOnlyFailuresHasUndefinedAverages(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	runs := []models.HistoricalRun{
		{JobID: "x", CreatedAt: now, Results: []models.ModelResult{failedResult("openai", "gpt-4o", "boom")}},
	}
	stats := New().CompareWindow(runs, now, DefaultHistoryWindow)
	require.Len(t, stats, 1)
	assert.Nil(t, stats[0].AvgTotalScore)
	assert.Nil(t, stats[0].AvgLatencyMs)
	assert.Equal(t, 1, stats[0].FailedRuns)
}
