// Package api is the client side of the benchmark job service.
package api

//go:generate go tool mockgen -source backend.go -destination apimock/mock_backend.go -package apimock

import (
	"context"

	"github.com/contentops/benchconsole/internal/models"
)

// Backend is the benchmark job service.
type Backend interface {
	// StartBenchmark submits a new job (POST /benchmark/start).
	StartBenchmark(ctx context.Context, req models.StartRequest) (*models.StartResponse, error)
	// Status returns the job's current status (GET /benchmark/status/{jobId}).
	Status(ctx context.Context, jobID string) (*models.JobStatusResponse, error)
	// Result returns the full payload of a completed job (GET /benchmark/result/{jobId}).
	Result(ctx context.Context, jobID string) (*models.BenchmarkResult, error)
	// History lists past jobs, newest first (GET /benchmark/history).
	History(ctx context.Context, page, size int) (*models.Page[models.BenchmarkJobSummary], error)
	// Compare returns per-model statistics over the last days (GET /benchmark/compare).
	Compare(ctx context.Context, days int) ([]models.ModelComparisonStats, error)
}
