// Package duplicates turns the backend's duplicate-question signal into a
// display verdict: a severity band plus a ranked match list.
package duplicates

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/contentops/benchconsole/internal/metrics"
	"github.com/contentops/benchconsole/internal/models"
)

// Severity buckets the overall duplicate score.
type Severity string

const (
	// SeverityNotRun means duplicate detection did not run for the question.
	SeverityNotRun   Severity = "not_run"
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// Default band edges for the overall score.
const (
	DefaultModerateThreshold = 0.5
	DefaultHighThreshold     = 0.7
)

// ErrInvalidThresholds is returned when the band edges are out of order or
// outside [0, 1].
var ErrInvalidThresholds = errors.New("invalid duplicate thresholds")

// Thresholds are the lower edges of the moderate and high bands.
type Thresholds struct {
	Moderate float64 `json:"moderate" yaml:"moderate"`
	High     float64 `json:"high" yaml:"high"`
}

// DefaultThresholds returns the 0.5 / 0.7 bands.
func DefaultThresholds() Thresholds {
	return Thresholds{Moderate: DefaultModerateThreshold, High: DefaultHighThreshold}
}

// Validate checks 0 <= Moderate <= High <= 1.
func (t Thresholds) Validate() error {
	if t.Moderate < 0 || t.High > 1 || t.Moderate > t.High {
		return fmt.Errorf("%w: moderate=%.2f high=%.2f", ErrInvalidThresholds, t.Moderate, t.High)
	}
	return nil
}

// Band maps an overall score to a severity. Scores outside [0, 1] are clamped.
func (t Thresholds) Band(overall float64) Severity {
	v := metrics.Clamp01(overall)
	switch {
	case v >= t.High:
		return SeverityHigh
	case v >= t.Moderate:
		return SeverityModerate
	default:
		return SeverityLow
	}
}

// Verdict is the classifier output for one question.
type Verdict struct {
	// Evaluated is false when the backend sent no duplicate score.
	Evaluated bool     `json:"evaluated"`
	Severity  Severity `json:"severity"`

	// HasDuplicate is always len(Matches) > 0.
	HasDuplicate bool                    `json:"hasDuplicate"`
	Matches      []models.DuplicateMatch `json:"matches"`

	OverallScore       float64 `json:"overallScore"`
	TopicSimilarity    float64 `json:"topicSimilarity"`
	SemanticSimilarity float64 `json:"semanticSimilarity"`
	KeywordOverlap     float64 `json:"keywordOverlap"`

	// FlagMismatch records that the upstream hasDuplicate flag disagreed
	// with its own match list.
	FlagMismatch bool `json:"flagMismatch,omitempty"`
}

// Classifier buckets duplicate scores and ranks matches.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier returns a classifier using t, or an error when t is invalid.
func NewClassifier(t Thresholds) (*Classifier, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{thresholds: t}, nil
}

// DefaultClassifier returns a classifier with the default thresholds.
func DefaultClassifier() *Classifier {
	return &Classifier{thresholds: DefaultThresholds()}
}

// Thresholds returns the band edges in use.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify produces the verdict for a single question's duplicate score.
// score is not modified.
func (c *Classifier) Classify(score *models.DuplicateScore) Verdict {
	if score == nil {
		return Verdict{Severity: SeverityNotRun, Matches: []models.DuplicateMatch{}}
	}

	matches := RankMatches(score.Matches)
	hasDuplicate := len(matches) > 0

	return Verdict{
		Evaluated:          true,
		Severity:           c.thresholds.Band(score.OverallScore),
		HasDuplicate:       hasDuplicate,
		Matches:            matches,
		OverallScore:       metrics.Clamp01(score.OverallScore),
		TopicSimilarity:    metrics.Clamp01(score.TopicSimilarity),
		SemanticSimilarity: metrics.Clamp01(score.SemanticSimilarity),
		KeywordOverlap:     metrics.Clamp01(score.KeywordOverlap),
		FlagMismatch:       score.HasDuplicate != hasDuplicate,
	}
}

// RankMatches returns a copy of matches ordered by similarity, highest
// first. Equal similarities fall back to matched model, then question number.
func RankMatches(matches []models.DuplicateMatch) []models.DuplicateMatch {
	ranked := slices.Clone(matches)
	if ranked == nil {
		ranked = []models.DuplicateMatch{}
	}
	slices.SortStableFunc(ranked, func(a, b models.DuplicateMatch) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		}
		if c := strings.Compare(a.MatchedModel, b.MatchedModel); c != 0 {
			return c
		}
		return a.MatchedQuestionNumber - b.MatchedQuestionNumber
	})
	return ranked
}
