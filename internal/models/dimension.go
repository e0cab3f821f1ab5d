package models

// Dimension is one of the five fixed evaluation axes.
type Dimension string

const (
	DimensionResumeRelevance  Dimension = "resumeRelevance"
	DimensionQuestionDepth    Dimension = "questionDepth"
	DimensionPracticalRealism Dimension = "practicalRealism"
	DimensionGuideQuality     Dimension = "guideQuality"
	DimensionDiversity        Dimension = "diversity"
)

// Dimensions lists every dimension in display order.
var Dimensions = []Dimension{
	DimensionResumeRelevance,
	DimensionQuestionDepth,
	DimensionPracticalRealism,
	DimensionGuideQuality,
	DimensionDiversity,
}

type dimensionAccessor struct {
	label     string
	score     func(*EvaluationScore) float64
	reasoning func(*EvaluationReasoning) string
	average   func(*Summary) **float64
}

var dimensionTable = map[Dimension]dimensionAccessor{
	DimensionResumeRelevance: {
		label:     "Resume Relevance",
		score:     func(e *EvaluationScore) float64 { return e.ResumeRelevance },
		reasoning: func(r *EvaluationReasoning) string { return r.ResumeRelevance },
		average:   func(s *Summary) **float64 { return &s.AvgResumeRelevance },
	},
	DimensionQuestionDepth: {
		label:     "Question Depth",
		score:     func(e *EvaluationScore) float64 { return e.QuestionDepth },
		reasoning: func(r *EvaluationReasoning) string { return r.QuestionDepth },
		average:   func(s *Summary) **float64 { return &s.AvgQuestionDepth },
	},
	DimensionPracticalRealism: {
		label:     "Practical Realism",
		score:     func(e *EvaluationScore) float64 { return e.PracticalRealism },
		reasoning: func(r *EvaluationReasoning) string { return r.PracticalRealism },
		average:   func(s *Summary) **float64 { return &s.AvgPracticalRealism },
	},
	DimensionGuideQuality: {
		label:     "Guide Quality",
		score:     func(e *EvaluationScore) float64 { return e.GuideQuality },
		reasoning: func(r *EvaluationReasoning) string { return r.GuideQuality },
		average:   func(s *Summary) **float64 { return &s.AvgGuideQuality },
	},
	DimensionDiversity: {
		label:     "Diversity",
		score:     func(e *EvaluationScore) float64 { return e.Diversity },
		reasoning: func(r *EvaluationReasoning) string { return r.Diversity },
		average:   func(s *Summary) **float64 { return &s.AvgDiversity },
	},
}

// Valid reports whether d is one of the known dimensions.
func (d Dimension) Valid() bool {
	_, ok := dimensionTable[d]
	return ok
}

// Label returns the human-readable name of the dimension.
func (d Dimension) Label() string {
	if a, ok := dimensionTable[d]; ok {
		return a.label
	}
	return string(d)
}

// Score reads the dimension's sub-score from e. Returns false for a nil
// evaluation or an unknown dimension.
func (d Dimension) Score(e *EvaluationScore) (float64, bool) {
	a, ok := dimensionTable[d]
	if !ok || e == nil {
		return 0, false
	}
	return a.score(e), true
}

// Reasoning returns the judge's explanation for the dimension.
func (d Dimension) Reasoning(e *EvaluationScore) string {
	a, ok := dimensionTable[d]
	if !ok || e == nil {
		return ""
	}
	return a.reasoning(&e.Reasoning)
}

// Average reads the dimension's average from s. nil means undefined.
func (d Dimension) Average(s *Summary) *float64 {
	a, ok := dimensionTable[d]
	if !ok || s == nil {
		return nil
	}
	return *a.average(s)
}

// SetAverage stores v as the dimension's average on s.
func (d Dimension) SetAverage(s *Summary, v *float64) {
	if a, ok := dimensionTable[d]; ok && s != nil {
		*a.average(s) = v
	}
}
