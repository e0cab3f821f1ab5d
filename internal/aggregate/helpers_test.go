package aggregate

import "github.com/contentops/benchconsole/internal/models"

func evalScore(total float64) *models.EvaluationScore {
	return &models.EvaluationScore{
		ResumeRelevance:  total / 10,
		QuestionDepth:    total / 10,
		PracticalRealism: total / 10,
		GuideQuality:     total / 10,
		Diversity:        total / 10,
		TotalScore:       total,
	}
}

func question(n int, total float64) models.QuestionResult {
	return models.QuestionResult{
		QuestionNumber: n,
		QuestionType:   "technical",
		LatencyMs:      1000,
		InputTokens:    1000,
		OutputTokens:   500,
		Evaluation:     evalScore(total),
	}
}

func unevaluated(n int) models.QuestionResult {
	return models.QuestionResult{QuestionNumber: n, LatencyMs: 3000, InputTokens: 1000}
}

func modelResult(provider, name string, totals ...float64) models.ModelResult {
	r := models.ModelResult{Model: models.ModelConfig{Provider: provider, Name: name, Temperature: 0.7}}
	for i, t := range totals {
		r.Questions = append(r.Questions, question(i+1, t))
	}
	return r
}

func failedResult(provider, name, msg string) models.ModelResult {
	return models.ModelResult{
		Model: models.ModelConfig{Provider: provider, Name: name},
		Error: msg,
	}
}

func ptr(v float64) *float64 { return &v }
