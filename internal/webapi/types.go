package webapi

import (
	"time"

	"github.com/contentops/benchconsole/internal/benchmark"
)

// RunSummary is the API response for a single run in the list.
type RunSummary struct {
	ID           string    `json:"id"`
	PurchaseID   int64     `json:"purchaseId"`
	Company      string    `json:"company,omitempty"`
	Position     string    `json:"position,omitempty"`
	Models       []string  `json:"models"`
	FailedModels int       `json:"failedModels"`
	Questions    int       `json:"questions"`
	Evaluated    int       `json:"evaluated"`
	TopModel     string    `json:"topModel,omitempty"`
	TopScore     *float64  `json:"topScore"`
	Tokens       int       `json:"tokens"`
	Cost         float64   `json:"cost"`
	Timestamp    time.Time `json:"timestamp"`
}

// RunDetail is the API response for a single run with its aggregated view.
type RunDetail struct {
	RunSummary
	View *benchmark.View `json:"view"`
}

// SummaryResponse is the aggregate KPI response.
type SummaryResponse struct {
	TotalRuns      int     `json:"totalRuns"`
	TotalModels    int     `json:"totalModels"`
	FailedModels   int     `json:"failedModels"`
	TotalQuestions int     `json:"totalQuestions"`
	EvaluatedRate  float64 `json:"evaluatedRate"`
	AvgTokens      float64 `json:"avgTokens"`
	AvgCost        float64 `json:"avgCost"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
