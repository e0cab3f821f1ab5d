package aggregate

import (
	"testing"

	"github.com/contentops/benchconsole/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeAveragesEvaluatedQuestions(t *testing.T) {
	r := modelResult("openai", "gpt-4o", 80, 60, 40)

	s := New().Summarize(r.Model, r.Questions)

	require.NotNil(t, s.AvgTotalScore)
	assert.Equal(t, 60.0, *s.AvgTotalScore)
	require.NotNil(t, s.AvgQuestionDepth)
	assert.InDelta(t, 6.0, *s.AvgQuestionDepth, 1e-9)
	require.NotNil(t, s.AvgLatencyMs)
	assert.Equal(t, 1000.0, *s.AvgLatencyMs)
	assert.Equal(t, 3, s.SuccessCount)
	assert.Equal(t, 0, s.FailureCount)
	assert.Equal(t, 3000, s.TotalInputTokens)
	assert.Equal(t, 1500, s.TotalOutputTokens)
}

func TestSummarizeZeroEvaluatedQuestionsIsUndefined(t *testing.T) {
	model := models.ModelConfig{Provider: "openai", Name: "gpt-4o"}
	s := New().Summarize(model, []models.QuestionResult{unevaluated(1), unevaluated(2)})

	assert.Nil(t, s.AvgTotalScore)
	for _, d := range models.Dimensions {
		assert.Nil(t, d.Average(&s), string(d))
	}
	assert.Equal(t, 0, s.SuccessCount)
	assert.Equal(t, 2, s.FailureCount)
	require.NotNil(t, s.AvgLatencyMs)
	assert.Equal(t, 3000.0, *s.AvgLatencyMs)
}

func TestSummarizeNoQuestions(t *testing.T) {
	s := New().Summarize(models.ModelConfig{Name: "x"}, nil)
	assert.Nil(t, s.AvgTotalScore)
	assert.Nil(t, s.AvgLatencyMs)
	assert.Zero(t, s.SuccessCount)
	assert.Zero(t, s.FailureCount)
}

func TestSummarizeMixedEvaluation(t *testing.T) {
	r := modelResult("openai", "gpt-4o-mini", 90, 70)
	r.Questions = append(r.Questions, unevaluated(3))

	s := New().SummarizeResult(&r)
	require.NotNil(t, s.AvgTotalScore)
	assert.Equal(t, 80.0, *s.AvgTotalScore)
	assert.Equal(t, 2, s.SuccessCount)
	assert.Equal(t, 1, s.FailureCount)
}

func TestSummarizeResultFailedModel(t *testing.T) {
	r := failedResult("anthropic", "claude", "quota exceeded")
	s := New().SummarizeResult(&r)

	assert.Equal(t, models.Summary{FailureCount: 1}, s)
}

func TestSummarizeCostUsesEstimator(t *testing.T) {
	pricing := Pricing{
		Default: Rate{InputPerMillion: 1, OutputPerMillion: 2},
		Models: map[string]Rate{
			"openai/gpt-4o": {InputPerMillion: 2.5, OutputPerMillion: 10},
		},
	}
	agg := New(WithCostEstimator(pricing))

	r := modelResult("openai", "gpt-4o", 50, 50)
	s := agg.SummarizeResult(&r)
	// 2 questions * (1000*2.5 + 500*10) / 1e6
	assert.InDelta(t, 0.015, s.TotalCostUsd, 1e-12)

	other := modelResult("mistral", "small", 50)
	s = agg.SummarizeResult(&other)
	assert.InDelta(t, 0.002, s.TotalCostUsd, 1e-12)
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	r := modelResult("openai", "gpt-4o", 80, 60)
	before := r.Questions[0]
	New().SummarizeResult(&r)
	assert.Equal(t, before, r.Questions[0])
	assert.Equal(t, models.Summary{}, r.Summary)
}

func TestPricingRateFor(t *testing.T) {
	p := Pricing{
		Default: Rate{InputPerMillion: 1},
		Models: map[string]Rate{
			"gpt-4o":         {InputPerMillion: 3},
			"azure/gpt-4o":   {InputPerMillion: 4},
			"openai/o3-mini": {InputPerMillion: 5},
		},
	}
	assert.Equal(t, 4.0, p.RateFor(models.ModelConfig{Provider: "azure", Name: "gpt-4o"}).InputPerMillion)
	assert.Equal(t, 3.0, p.RateFor(models.ModelConfig{Provider: "openai", Name: "gpt-4o"}).InputPerMillion)
	assert.Equal(t, 1.0, p.RateFor(models.ModelConfig{Provider: "openai", Name: "gpt-3.5"}).InputPerMillion)
	assert.Zero(t, Pricing{}.EstimateCost(models.ModelConfig{}, 1000, 1000))
}
