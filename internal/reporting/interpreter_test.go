package reporting

import (
	"testing"

	"github.com/contentops/benchconsole/internal/aggregate"
	"github.com/contentops/benchconsole/internal/benchmark"
	"github.com/contentops/benchconsole/internal/duplicates"
	"github.com/contentops/benchconsole/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestInterpretScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"excellent high", 95, "Excellent (>90)"},
		{"excellent boundary", 91, "Excellent (>90)"},
		{"good high", 90, "Good (70-90)"},
		{"good low", 70, "Good (70-90)"},
		{"needs work high", 69.9, "Needs Work (50-70)"},
		{"needs work low", 50, "Needs Work (50-70)"},
		{"poor high", 49, "Poor (<50)"},
		{"poor zero", 0, "Poor (<50)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterpretScore(tt.score))
		})
	}
}

func TestInterpretSeverity(t *testing.T) {
	tests := []struct {
		severity duplicates.Severity
		contains string
	}{
		{duplicates.SeverityHigh, "likely duplicate"},
		{duplicates.SeverityModerate, "overlaps"},
		{duplicates.SeverityLow, "distinct"},
		{duplicates.SeverityNotRun, "did not run"},
		{duplicates.Severity("odd"), "odd"},
	}
	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Contains(t, InterpretSeverity(tt.severity), tt.contains)
		})
	}
}

func TestInterpretEvaluated(t *testing.T) {
	assert.Equal(t, "no questions generated", InterpretEvaluated(0, 0))
	assert.Equal(t, "all 3 questions evaluated", InterpretEvaluated(3, 3))
	assert.Equal(t, "2 of 3 questions evaluated", InterpretEvaluated(2, 3))
}

func TestFormatViewReport(t *testing.T) {
	result := &models.BenchmarkResult{
		JobID:        "job-1",
		PurchaseInfo: models.PurchaseInfo{PurchaseID: 9, Company: "Acme", Position: "Backend Engineer"},
		Results: []models.ModelResult{
			{
				Model: models.ModelConfig{Provider: "openai", Name: "gpt-4o"},
				Questions: []models.QuestionResult{
					{
						QuestionNumber: 1,
						InputTokens:    100,
						OutputTokens:   40,
						Evaluation:     &models.EvaluationScore{TotalScore: 95},
						DuplicateScore: &models.DuplicateScore{OverallScore: 0.8, Matches: []models.DuplicateMatch{
							{MatchedModel: "anthropic/claude", MatchedQuestionNumber: 1, Similarity: 0.8},
						}},
					},
					{QuestionNumber: 2, Evaluation: &models.EvaluationScore{TotalScore: 85}},
				},
			},
			{
				Model:     models.ModelConfig{Provider: "mistral", Name: "large"},
				Questions: []models.QuestionResult{{QuestionNumber: 1, Evaluation: &models.EvaluationScore{TotalScore: 40}}, {QuestionNumber: 2}},
			},
			{Model: models.ModelConfig{Provider: "anthropic", Name: "claude"}, Error: "quota exceeded"},
		},
	}
	view := benchmark.BuildView(aggregate.New(), duplicates.DefaultClassifier(), result)

	report := FormatViewReport(view)

	assert.Contains(t, report, "=== Interpretation ===")
	assert.Contains(t, report, "Job:      job-1")
	assert.Contains(t, report, "Acme Backend Engineer")
	assert.Contains(t, report, " 1. openai/gpt-4o  90.0  Good (70-90)")
	assert.Contains(t, report, " 2. mistral/large  40.0  Poor (<50)")
	assert.Contains(t, report, "anthropic/claude (failed: quota exceeded)")
	assert.Contains(t, report, "✗ anthropic/claude: failed (quota exceeded)")
	assert.Contains(t, report, "all 2 questions evaluated")
	assert.Contains(t, report, "1 of 2 questions evaluated")
	assert.Contains(t, report, "Duplicates: 1 high, 0 moderate of 1 checked")
	assert.Contains(t, report, "Duplicates: duplicate detection did not run")
	assert.Contains(t, report, "Tokens: 100 in / 40 out")
	assert.Contains(t, report, "Models:   2 of 3 produced results")
}

func TestFormatViewReport_WeakestDimension(t *testing.T) {
	result := &models.BenchmarkResult{
		JobID: "job-2",
		Results: []models.ModelResult{{
			Model: models.ModelConfig{Provider: "openai", Name: "gpt-4o"},
			Questions: []models.QuestionResult{
				{QuestionNumber: 1, Evaluation: &models.EvaluationScore{
					ResumeRelevance: 9, QuestionDepth: 8, PracticalRealism: 8, GuideQuality: 6, Diversity: 7,
					Reasoning: models.EvaluationReasoning{GuideQuality: "guide lists facts only"},
				}},
				{QuestionNumber: 2, Evaluation: &models.EvaluationScore{
					ResumeRelevance: 9, QuestionDepth: 8, PracticalRealism: 8, GuideQuality: 3, Diversity: 7,
					Reasoning: models.EvaluationReasoning{GuideQuality: "no scoring rubric"},
				}},
				{QuestionNumber: 3},
			},
		}},
	}
	view := benchmark.BuildView(aggregate.New(), duplicates.DefaultClassifier(), result)

	report := FormatViewReport(view)

	assert.Contains(t, report, "Weakest: Guide Quality (4.5), no scoring rubric")
	assert.NotContains(t, report, "guide lists facts only")
}

func TestFormatViewReport_Nil(t *testing.T) {
	assert.Contains(t, FormatViewReport(nil), "No result.")
}
