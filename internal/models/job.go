package models

import "time"

// JobStatus is the backend-reported state of a benchmark job.
//
// PENDING -> RUNNING -> {COMPLETED | FAILED}. The terminal states are final.
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// Valid reports whether s is a known status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s ends the job.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// StartRequest is the body of POST /benchmark/start.
type StartRequest struct {
	PurchaseID    int64         `json:"purchaseId"`
	Models        []ModelConfig `json:"models"`
	QuestionCount int           `json:"questionCount"`
	PromptVersion string        `json:"promptVersion,omitempty"`
}

// StartResponse is the body returned by POST /benchmark/start.
type StartResponse struct {
	JobID string `json:"jobId"`
}

// JobStatusResponse is the body returned by GET /benchmark/status/{jobId}.
type JobStatusResponse struct {
	Status                 JobStatus     `json:"status"`
	ProgressMessage        string        `json:"progressMessage"`
	ProgressPercentage     int           `json:"progressPercentage"`
	CompletedModels        int           `json:"completedModels"`
	TotalModels            int           `json:"totalModels"`
	CompletedQuestions     int           `json:"completedQuestions"`
	TotalQuestionsPerModel int           `json:"totalQuestionsPerModel"`
	ErrorMessage           string        `json:"errorMessage,omitempty"`
	PartialResults         []ModelResult `json:"partialResults,omitempty"`
}

// BenchmarkJob is the client-side view of a submitted job. It only changes
// through Apply.
type BenchmarkJob struct {
	JobID                  string        `json:"jobId"`
	Status                 JobStatus     `json:"status"`
	ProgressMessage        string        `json:"progressMessage"`
	ProgressPercentage     int           `json:"progressPercentage"`
	CompletedModels        int           `json:"completedModels"`
	TotalModels            int           `json:"totalModels"`
	CompletedQuestions     int           `json:"completedQuestions"`
	TotalQuestionsPerModel int           `json:"totalQuestionsPerModel"`
	ErrorMessage           string        `json:"errorMessage,omitempty"`
	PartialResults         []ModelResult `json:"partialResults,omitempty"`
	UpdatedAt              time.Time     `json:"updatedAt"`
}

// NewBenchmarkJob returns the initial view for a freshly submitted job.
func NewBenchmarkJob(jobID string) BenchmarkJob {
	return BenchmarkJob{JobID: jobID, Status: JobStatusPending}
}

// Apply overwrites the view with resp. Every field is replaced, even when
// unchanged; the percentage is clamped to [0, 100].
func (j *BenchmarkJob) Apply(resp JobStatusResponse, at time.Time) {
	j.Status = resp.Status
	j.ProgressMessage = resp.ProgressMessage
	j.ProgressPercentage = min(max(resp.ProgressPercentage, 0), 100)
	j.CompletedModels = resp.CompletedModels
	j.TotalModels = resp.TotalModels
	j.CompletedQuestions = resp.CompletedQuestions
	j.TotalQuestionsPerModel = resp.TotalQuestionsPerModel
	j.ErrorMessage = resp.ErrorMessage
	j.PartialResults = resp.PartialResults
	j.UpdatedAt = at
}

// Page is a Spring-style paged response envelope.
type Page[T any] struct {
	Content       []T `json:"content"`
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// BenchmarkJobSummary is one entry of GET /benchmark/history.
type BenchmarkJobSummary struct {
	JobID         string        `json:"jobId"`
	PurchaseID    int64         `json:"purchaseId"`
	Status        JobStatus     `json:"status"`
	Models        []ModelConfig `json:"models"`
	QuestionCount int           `json:"questionCount"`
	PromptVersion string        `json:"promptVersion,omitempty"`
	ErrorMessage  string        `json:"errorMessage,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty"`
}

// ModelComparisonStats is one row of the comparison-over-time view, either
// returned by GET /benchmark/compare or reduced locally from stored runs.
type ModelComparisonStats struct {
	ModelProvider string `json:"modelProvider"`
	ModelName     string `json:"modelName"`
	RunCount      int    `json:"runCount"`
	FailedRuns    int    `json:"failedRuns"`
	QuestionCount int    `json:"questionCount"`

	AvgTotalScore       *float64 `json:"avgTotalScore"`
	AvgResumeRelevance  *float64 `json:"avgResumeRelevance"`
	AvgQuestionDepth    *float64 `json:"avgQuestionDepth"`
	AvgPracticalRealism *float64 `json:"avgPracticalRealism"`
	AvgGuideQuality     *float64 `json:"avgGuideQuality"`
	AvgDiversity        *float64 `json:"avgDiversity"`
	AvgLatencyMs        *float64 `json:"avgLatencyMs"`

	TotalInputTokens  int     `json:"totalInputTokens"`
	TotalOutputTokens int     `json:"totalOutputTokens"`
	TotalCostUsd      float64 `json:"totalCostUsd"`
}

// Key returns the model identity of the row.
func (s *ModelComparisonStats) Key() ModelKey {
	return ModelKey{Provider: s.ModelProvider, Name: s.ModelName}
}

// HistoricalRun is a past run used for trailing-window reductions.
type HistoricalRun struct {
	JobID     string        `json:"jobId"`
	CreatedAt time.Time     `json:"createdAt"`
	Results   []ModelResult `json:"results"`
}
