package models

import "fmt"

// ModelConfig identifies one participant in a benchmark run.
type ModelConfig struct {
	Provider    string  `json:"provider"`
	Name        string  `json:"name"`
	Temperature float64 `json:"temperature"`
}

// ModelKey is the identity of a model across runs. Temperature is not part of it.
type ModelKey struct {
	Provider string `json:"provider"`
	Name     string `json:"name"`
}

func (k ModelKey) String() string {
	if k.Provider == "" {
		return k.Name
	}
	return k.Provider + "/" + k.Name
}

// Key returns the provider/name identity of the model.
func (m ModelConfig) Key() ModelKey {
	return ModelKey{Provider: m.Provider, Name: m.Name}
}

func (m ModelConfig) String() string {
	return m.Key().String()
}

// QuestionResult is one question generated for one model.
type QuestionResult struct {
	QuestionNumber int    `json:"questionNumber"`
	QuestionType   string `json:"questionType"`
	QuestionTopic  string `json:"questionTopic"`
	Content        string `json:"content"`
	LatencyMs      int64  `json:"latencyMs"`
	InputTokens    int    `json:"inputTokens"`
	OutputTokens   int    `json:"outputTokens"`

	// Evaluation is nil when the backend could not score the question.
	Evaluation *EvaluationScore `json:"evaluation,omitempty"`

	// DuplicateScore is nil when duplicate detection did not run for the
	// question. That is not the same as a "no duplicates" verdict.
	DuplicateScore *DuplicateScore `json:"duplicateScore,omitempty"`
}

// Evaluated reports whether the question carries an evaluation.
func (q *QuestionResult) Evaluated() bool {
	return q.Evaluation != nil
}

// EvaluationScore holds the five sub-scores (0-10) and the backend-computed
// total (0-100). The total is opaque to the client and never recomputed.
type EvaluationScore struct {
	ResumeRelevance  float64 `json:"resumeRelevance"`
	QuestionDepth    float64 `json:"questionDepth"`
	PracticalRealism float64 `json:"practicalRealism"`
	GuideQuality     float64 `json:"guideQuality"`
	Diversity        float64 `json:"diversity"`
	TotalScore       float64 `json:"totalScore"`

	Reasoning              EvaluationReasoning `json:"reasoning"`
	ImprovementSuggestions []string            `json:"improvementSuggestions,omitempty"`
}

// EvaluationReasoning is the judge's free-text explanation per dimension.
type EvaluationReasoning struct {
	ResumeRelevance  string `json:"resumeRelevance,omitempty"`
	QuestionDepth    string `json:"questionDepth,omitempty"`
	PracticalRealism string `json:"practicalRealism,omitempty"`
	GuideQuality     string `json:"guideQuality,omitempty"`
	Diversity        string `json:"diversity,omitempty"`
}

// DuplicateScore is the similarity signal produced by the backend for a
// single question. All similarities are in [0, 1].
type DuplicateScore struct {
	HasDuplicate       bool             `json:"hasDuplicate"`
	TopicSimilarity    float64          `json:"topicSimilarity"`
	SemanticSimilarity float64          `json:"semanticSimilarity"`
	KeywordOverlap     float64          `json:"keywordOverlap"`
	OverallScore       float64          `json:"overallScore"`
	Matches            []DuplicateMatch `json:"matches,omitempty"`
}

// DuplicateMatch references another (model, question) pair in the same run.
type DuplicateMatch struct {
	MatchedModel          string   `json:"matchedModel"`
	MatchedQuestionNumber int      `json:"matchedQuestionNumber"`
	MatchType             string   `json:"matchType"`
	Similarity            float64  `json:"similarity"`
	MatchedTopic          string   `json:"matchedTopic,omitempty"`
	CommonKeywords        []string `json:"commonKeywords,omitempty"`
}

func (m DuplicateMatch) String() string {
	return fmt.Sprintf("%s#%d (%s, %.2f)", m.MatchedModel, m.MatchedQuestionNumber, m.MatchType, m.Similarity)
}

// ModelResult is the outcome for one model. When Error is set the model
// failed as a whole: Questions is empty and Summary is a placeholder.
type ModelResult struct {
	Model     ModelConfig      `json:"model"`
	Questions []QuestionResult `json:"questions"`
	Summary   Summary          `json:"summary"`
	Error     string           `json:"error,omitempty"`
}

// Failed reports whether this is the failed-participant variant.
func (r *ModelResult) Failed() bool {
	return r.Error != ""
}

// Summary is the per-model aggregate derived from the questions.
//
// Averages are nil when no question was evaluated; nil is the "undefined"
// sentinel and must never be rendered as zero.
type Summary struct {
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
	SuccessCount      int     `json:"successCount"`
	FailureCount      int     `json:"failureCount"`
}

// PurchaseInfo describes the purchase (resume review) a run was generated
// for. It is passed through untouched.
type PurchaseInfo struct {
	PurchaseID  int64  `json:"purchaseId"`
	ProductName string `json:"productName,omitempty"`
	Company     string `json:"company,omitempty"`
	Position    string `json:"position,omitempty"`
}

// BenchmarkResult is the full payload of a completed job.
type BenchmarkResult struct {
	JobID        string        `json:"jobId,omitempty"`
	PurchaseInfo PurchaseInfo  `json:"purchaseInfo"`
	Results      []ModelResult `json:"results"`
}
