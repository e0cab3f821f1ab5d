package duplicates

import "github.com/contentops/benchconsole/internal/models"

// Summary counts duplicate verdicts for one model's questions.
type Summary struct {
	Questions      int              `json:"questions"`
	NotRun         int              `json:"notRun"`
	Evaluated      int              `json:"evaluated"`
	WithDuplicates int              `json:"withDuplicates"`
	BySeverity     map[Severity]int `json:"bySeverity"`
	FlagMismatches int              `json:"flagMismatches,omitempty"`
}

// QuestionVerdict pairs a question number with its verdict.
type QuestionVerdict struct {
	QuestionNumber int     `json:"questionNumber"`
	Verdict        Verdict `json:"verdict"`
}

// ClassifyQuestions classifies every question in order.
func (c *Classifier) ClassifyQuestions(questions []models.QuestionResult) []QuestionVerdict {
	out := make([]QuestionVerdict, 0, len(questions))
	for i := range questions {
		out = append(out, QuestionVerdict{
			QuestionNumber: questions[i].QuestionNumber,
			Verdict:        c.Classify(questions[i].DuplicateScore),
		})
	}
	return out
}

// Summarize reduces the verdicts of one model.
func Summarize(verdicts []QuestionVerdict) Summary {
	s := Summary{
		Questions:  len(verdicts),
		BySeverity: map[Severity]int{},
	}
	for _, qv := range verdicts {
		v := qv.Verdict
		s.BySeverity[v.Severity]++
		if !v.Evaluated {
			s.NotRun++
			continue
		}
		s.Evaluated++
		if v.HasDuplicate {
			s.WithDuplicates++
		}
		if v.FlagMismatch {
			s.FlagMismatches++
		}
	}
	return s
}
