package benchmark

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/contentops/benchconsole/internal/api/apimock"
	"github.com/contentops/benchconsole/internal/duplicates"
	"github.com/contentops/benchconsole/internal/jobs"
	"github.com/contentops/benchconsole/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestOrchestrator(t *testing.T) (*Orchestrator, *apimock.MockBackend) {
	t.Helper()
	ctrl := gomock.NewController(t)
	backend := apimock.NewMockBackend(ctrl)
	o := New(backend, WithControllerOptions(jobs.WithInterval(time.Millisecond)))
	return o, backend
}

func evaluated(n int, total float64) models.QuestionResult {
	return models.QuestionResult{
		QuestionNumber: n,
		QuestionType:   "behavioral",
		LatencyMs:      900,
		InputTokens:    800,
		OutputTokens:   300,
		Evaluation: &models.EvaluationScore{
			ResumeRelevance:  8,
			QuestionDepth:    7,
			PracticalRealism: 9,
			GuideQuality:     6,
			Diversity:        7,
			TotalScore:       total,
		},
	}
}

func status(s models.JobStatus, pct int) *models.JobStatusResponse {
	return &models.JobStatusResponse{Status: s, ProgressPercentage: pct, TotalModels: 2, TotalQuestionsPerModel: 3}
}

func twoModelRequest() models.StartRequest {
	return models.StartRequest{
		PurchaseID:    11,
		QuestionCount: 3,
		Models: []models.ModelConfig{
			{Provider: "openai", Name: "gpt-4o", Temperature: 0.7},
			{Provider: "openai", Name: "gpt-4o-mini", Temperature: 0.7},
		},
	}
}

func TestRunCompletesWithAggregatedView(t *testing.T) {
	o, backend := newTestOrchestrator(t)
	req := twoModelRequest()

	result := &models.BenchmarkResult{
		PurchaseInfo: models.PurchaseInfo{PurchaseID: 11, Company: "Acme"},
		Results: []models.ModelResult{
			{Model: req.Models[0], Questions: []models.QuestionResult{evaluated(1, 80), evaluated(2, 60), evaluated(3, 40)}},
			{Model: req.Models[1], Questions: []models.QuestionResult{evaluated(1, 70), evaluated(2, 70), evaluated(3, 70)}},
		},
	}

	backend.EXPECT().StartBenchmark(gomock.Any(), req).Return(&models.StartResponse{JobID: "job-1"}, nil)
	gomock.InOrder(
		backend.EXPECT().Status(gomock.Any(), "job-1").Return(status(models.JobStatusPending, 0), nil),
		backend.EXPECT().Status(gomock.Any(), "job-1").Return(status(models.JobStatusRunning, 33), nil),
		backend.EXPECT().Status(gomock.Any(), "job-1").Return(status(models.JobStatusRunning, 66), nil),
		backend.EXPECT().Status(gomock.Any(), "job-1").Return(status(models.JobStatusCompleted, 100), nil),
		backend.EXPECT().Result(gomock.Any(), "job-1").Return(result, nil),
	)

	var progress []int
	jobID, view, err := o.Run(context.Background(), req, func(j models.BenchmarkJob) {
		progress = append(progress, j.ProgressPercentage)
	})
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, []int{0, 33, 66, 100}, progress)

	require.NotNil(t, view)
	assert.Equal(t, "job-1", view.JobID)
	assert.Equal(t, "Acme", view.PurchaseInfo.Company)
	require.Len(t, view.Summaries, 2)
	for _, s := range view.Summaries {
		assert.Equal(t, 3, s.Summary.SuccessCount)
		assert.Equal(t, 0, s.Summary.FailureCount)
		assert.Equal(t, 3, s.Duplicates.NotRun)
	}
	require.NotNil(t, view.Summaries[0].Summary.AvgTotalScore)
	assert.Equal(t, 60.0, *view.Summaries[0].Summary.AvgTotalScore)
	assert.Len(t, view.ComparisonRows, 2)
	assert.Len(t, view.Radar, len(models.Dimensions))
	require.Len(t, view.Ranking, 2)
	assert.Equal(t, "gpt-4o-mini", view.Ranking[0].Row.Model.Name)
	assert.Empty(t, result.JobID, "input result is not modified")
}

func TestObserveFailedJobReportsOnce(t *testing.T) {
	o, backend := newTestOrchestrator(t)

	gomock.InOrder(
		backend.EXPECT().Status(gomock.Any(), "job-2").Return(status(models.JobStatusRunning, 50), nil),
		backend.EXPECT().Status(gomock.Any(), "job-2").Return(&models.JobStatusResponse{
			Status:       models.JobStatusFailed,
			ErrorMessage: "rate limited",
		}, nil),
	)
	// No Result expectation: fetching the result of a failed job fails the test.

	errs := make(chan error, 2)
	o.Observe(context.Background(), "job-2", Observer{
		OnComplete: func(*View) { t.Error("unexpected completion") },
		OnError:    func(err error) { errs <- err },
	})

	select {
	case err := <-errs:
		var jf *jobs.JobFailedError
		require.ErrorAs(t, err, &jf)
		assert.Equal(t, "rate limited", jf.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("no error reported")
	}

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, errs, "error reported more than once")
	assert.Equal(t, models.JobStatusFailed, o.Snapshot().Status)
}

func TestSubmitRejectsStructurallyInvalidRequests(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	cases := map[string]models.StartRequest{
		"no models":      {QuestionCount: 3},
		"blank name":     {QuestionCount: 3, Models: []models.ModelConfig{{Provider: "openai", Name: "  "}}},
		"zero questions": {Models: []models.ModelConfig{{Provider: "openai", Name: "gpt-4o"}}},
		"negative count": {QuestionCount: -1, Models: []models.ModelConfig{{Provider: "openai", Name: "gpt-4o"}}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := o.Submit(context.Background(), req)
			var se *SubmissionError
			require.ErrorAs(t, err, &se)
		})
	}
}

func TestSubmitBackendErrorIsNotSubmissionError(t *testing.T) {
	o, backend := newTestOrchestrator(t)
	boom := errors.New("503 service unavailable")
	backend.EXPECT().StartBenchmark(gomock.Any(), gomock.Any()).Return(nil, boom)

	_, err := o.Submit(context.Background(), twoModelRequest())
	require.ErrorIs(t, err, boom)
	var se *SubmissionError
	assert.False(t, errors.As(err, &se))
}

func TestSubmitFailureKeepsCurrentObservation(t *testing.T) {
	o, backend := newTestOrchestrator(t)
	backend.EXPECT().Status(gomock.Any(), "job-1").Return(status(models.JobStatusRunning, 10), nil).AnyTimes()
	backend.EXPECT().StartBenchmark(gomock.Any(), gomock.Any()).Return(nil, errors.New("503 service unavailable"))

	progress := make(chan struct{}, 1)
	stop := o.Observe(context.Background(), "job-1", Observer{
		OnProgress: func(models.BenchmarkJob) {
			select {
			case progress <- struct{}{}:
			default:
			}
		},
	})
	defer stop()

	waitProgress := func() {
		t.Helper()
		select {
		case <-progress:
		case <-time.After(2 * time.Second):
			t.Fatal("observation stopped reporting progress")
		}
	}
	waitProgress()

	_, err := o.Submit(context.Background(), twoModelRequest())
	require.Error(t, err)

	// Drain, then require a fresh event from the same job.
	select {
	case <-progress:
	default:
	}
	waitProgress()
	assert.Equal(t, "job-1", o.Snapshot().JobID)
}

func TestRunDetachesOnContextCancel(t *testing.T) {
	o, backend := newTestOrchestrator(t)
	backend.EXPECT().StartBenchmark(gomock.Any(), gomock.Any()).Return(&models.StartResponse{JobID: "job-3"}, nil)
	backend.EXPECT().Status(gomock.Any(), "job-3").Return(status(models.JobStatusRunning, 10), nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobID, view, err := o.Run(ctx, twoModelRequest(), func(models.BenchmarkJob) { cancel() })
	assert.Equal(t, "job-3", jobID)
	assert.Nil(t, view)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregatedViewIsolatesFailedModel(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	result := &models.BenchmarkResult{
		JobID: "job-4",
		Results: []models.ModelResult{
			{Model: models.ModelConfig{Provider: "openai", Name: "gpt-4o"}, Questions: []models.QuestionResult{evaluated(1, 90)}},
			{Model: models.ModelConfig{Provider: "anthropic", Name: "claude"}, Error: "context length exceeded"},
			{Model: models.ModelConfig{Provider: "google", Name: "gemini"}, Questions: []models.QuestionResult{evaluated(1, 50), evaluated(2, 70)}},
		},
	}

	view := o.AggregatedView(result)
	require.NotNil(t, view)
	require.Len(t, view.Summaries, 3)
	assert.Len(t, view.Populated(), 2)

	failed := view.Summaries[1]
	assert.True(t, failed.Failed)
	assert.Equal(t, "context length exceeded", failed.Error)
	assert.Equal(t, models.Summary{FailureCount: 1}, failed.Summary)
	assert.Empty(t, failed.Verdicts)

	for _, series := range view.Radar {
		assert.Len(t, series.Points, 2, series.Label)
	}
	require.Len(t, view.Ranking, 3)
	assert.Equal(t, "claude", view.Ranking[2].Row.Model.Name)
	assert.Zero(t, view.Ranking[2].Rank)
}

func TestAggregatedViewClassifiesDuplicates(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	q := evaluated(1, 75)
	q.DuplicateScore = &models.DuplicateScore{
		HasDuplicate: false,
		OverallScore: 0.82,
		Matches: []models.DuplicateMatch{
			{MatchedModel: "gpt-4o-mini", MatchedQuestionNumber: 2, Similarity: 0.6},
			{MatchedModel: "gpt-4o-mini", MatchedQuestionNumber: 1, Similarity: 0.9},
		},
	}
	clean := evaluated(2, 75)
	clean.DuplicateScore = &models.DuplicateScore{OverallScore: 0.1}

	view := o.AggregatedView(&models.BenchmarkResult{Results: []models.ModelResult{
		{Model: models.ModelConfig{Provider: "openai", Name: "gpt-4o"}, Questions: []models.QuestionResult{q, clean, evaluated(3, 75)}},
	}})

	mv := view.Summaries[0]
	require.Len(t, mv.Verdicts, 3)
	v := mv.Verdicts[0].Verdict
	assert.True(t, v.HasDuplicate)
	assert.True(t, v.FlagMismatch)
	assert.Equal(t, duplicates.SeverityHigh, v.Severity)
	assert.Equal(t, 1, v.Matches[0].MatchedQuestionNumber)

	assert.Equal(t, 3, mv.Duplicates.Questions)
	assert.Equal(t, 2, mv.Duplicates.Evaluated)
	assert.Equal(t, 1, mv.Duplicates.NotRun)
	assert.Equal(t, 1, mv.Duplicates.WithDuplicates)
	assert.Equal(t, 1, mv.Duplicates.BySeverity[duplicates.SeverityLow])

	assert.False(t, q.DuplicateScore.HasDuplicate, "input not modified")
	assert.Equal(t, 2, q.DuplicateScore.Matches[0].MatchedQuestionNumber)
}

func TestAggregatedViewQuestionFlagsFollowMatches(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	claimed := evaluated(1, 70)
	claimed.DuplicateScore = &models.DuplicateScore{HasDuplicate: true, OverallScore: 0.4}
	denied := evaluated(2, 70)
	denied.DuplicateScore = &models.DuplicateScore{
		OverallScore: 0.9,
		Matches:      []models.DuplicateMatch{{MatchedModel: "gpt-4o-mini", MatchedQuestionNumber: 1, Similarity: 0.9}},
	}

	view := o.AggregatedView(&models.BenchmarkResult{Results: []models.ModelResult{
		{Model: models.ModelConfig{Provider: "openai", Name: "gpt-4o"}, Questions: []models.QuestionResult{claimed, denied, evaluated(3, 70)}},
	}})

	data, err := json.Marshal(view)
	require.NoError(t, err)
	var decoded struct {
		Summaries []struct {
			Questions []struct {
				QuestionNumber int `json:"questionNumber"`
				DuplicateScore *struct {
					HasDuplicate bool              `json:"hasDuplicate"`
					Matches      []json.RawMessage `json:"matches"`
				} `json:"duplicateScore"`
			} `json:"questions"`
		} `json:"summaries"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Summaries, 1)
	require.Len(t, decoded.Summaries[0].Questions, 3)
	for _, q := range decoded.Summaries[0].Questions {
		if q.DuplicateScore == nil {
			continue
		}
		assert.Equal(t, len(q.DuplicateScore.Matches) > 0, q.DuplicateScore.HasDuplicate, "question %d", q.QuestionNumber)
	}

	assert.True(t, claimed.DuplicateScore.HasDuplicate, "input not modified")
	assert.False(t, denied.DuplicateScore.HasDuplicate, "input not modified")
}

func TestAggregatedViewNil(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	assert.Nil(t, o.AggregatedView(nil))
}

func TestHistoryAndComparePassThrough(t *testing.T) {
	o, backend := newTestOrchestrator(t)
	page := &models.Page[models.BenchmarkJobSummary]{TotalElements: 1}
	stats := []models.ModelComparisonStats{{ModelProvider: "openai", ModelName: "gpt-4o"}}
	backend.EXPECT().History(gomock.Any(), 0, 20).Return(page, nil)
	backend.EXPECT().Compare(gomock.Any(), 30).Return(stats, nil)

	gotPage, err := o.History(context.Background(), 0, 20)
	require.NoError(t, err)
	assert.Same(t, page, gotPage)

	gotStats, err := o.Compare(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, stats, gotStats)
}

func TestCompareRunsUsesWindow(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	o.now = func() time.Time { return now }

	runs := []models.HistoricalRun{
		{JobID: "recent", CreatedAt: now.AddDate(0, 0, -3), Results: []models.ModelResult{
			{Model: models.ModelConfig{Provider: "openai", Name: "gpt-4o"}, Questions: []models.QuestionResult{evaluated(1, 60)}},
		}},
		{JobID: "old", CreatedAt: now.AddDate(0, 0, -10), Results: []models.ModelResult{
			{Model: models.ModelConfig{Provider: "openai", Name: "gpt-4o"}, Questions: []models.QuestionResult{evaluated(1, 100)}},
		}},
	}

	week := o.CompareRuns(runs, 7)
	require.Len(t, week, 1)
	assert.Equal(t, 60.0, *week[0].AvgTotalScore)

	all := o.CompareRuns(runs, 0)
	require.Len(t, all, 1)
	assert.Equal(t, 80.0, *all[0].AvgTotalScore)
}

func TestResultHookSeesCompletedResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := apimock.NewMockBackend(ctrl)

	var hooked []*models.BenchmarkResult
	o := New(backend,
		WithControllerOptions(jobs.WithInterval(time.Millisecond)),
		WithResultHook(func(res *models.BenchmarkResult) error {
			hooked = append(hooked, res)
			return errors.New("disk full")
		}),
	)

	result := &models.BenchmarkResult{Results: []models.ModelResult{
		{Model: models.ModelConfig{Provider: "openai", Name: "gpt-4o"}, Questions: []models.QuestionResult{evaluated(1, 50)}},
	}}
	backend.EXPECT().Status(gomock.Any(), "job-h").Return(status(models.JobStatusCompleted, 100), nil)
	backend.EXPECT().Result(gomock.Any(), "job-h").Return(result, nil)

	view, err := o.Await(context.Background(), "job-h", nil)
	require.NoError(t, err, "a failing hook does not fail the observation")
	require.NotNil(t, view)
	require.Len(t, hooked, 1)
	assert.Equal(t, "job-h", hooked[0].JobID)
	assert.Empty(t, result.JobID)
}
