// Package statistics estimates how stable a model's average score is across
// the questions it answered.
package statistics

import (
	"math"
	"math/rand"
	"sort"

	"github.com/contentops/benchconsole/internal/metrics"
)

// ConfidenceInterval is a percentile-bootstrap interval around a mean.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	Mean            float64 `json:"mean"`
	ConfidenceLevel float64 `json:"confidenceLevel"`
	Resamples       int     `json:"resamples"`
}

// Width returns Upper - Lower.
func (ci ConfidenceInterval) Width() float64 {
	return ci.Upper - ci.Lower
}

// Overlaps reports whether the two intervals share any point.
func (ci ConfidenceInterval) Overlaps(other ConfidenceInterval) bool {
	return ci.Lower <= other.Upper && other.Lower <= ci.Upper
}

const (
	// DefaultResamples is the number of bootstrap resamples.
	DefaultResamples = 5000
	// DefaultSeed keeps aggregated views reproducible between renders.
	DefaultSeed int64 = 20240917
)

// Bootstrap computes percentile confidence intervals for a sample mean.
type Bootstrap struct {
	Resamples int
	// Seed for the resampler. A negative seed draws from a random source.
	Seed int64
}

// NewBootstrap returns a Bootstrap with the default resample count and seed.
func NewBootstrap() Bootstrap {
	return Bootstrap{Resamples: DefaultResamples, Seed: DefaultSeed}
}

// MeanCI resamples scores with replacement and returns the percentile
// interval of the resampled means at the given level, e.g. 0.95.
// With fewer than two scores the interval collapses onto the mean.
func (b Bootstrap) MeanCI(scores []float64, level float64) ConfidenceInterval {
	m, _ := metrics.Mean(scores)
	n := len(scores)
	if n < 2 {
		return ConfidenceInterval{Lower: m, Upper: m, Mean: m, ConfidenceLevel: level}
	}

	iters := b.Resamples
	if iters <= 0 {
		iters = DefaultResamples
	}
	seed := b.Seed
	if seed < 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	means := make([]float64, iters)
	sample := make([]float64, n)
	for i := range means {
		for j := range sample {
			sample[j] = scores[rng.Intn(n)]
		}
		means[i], _ = metrics.Mean(sample)
	}
	sort.Float64s(means)

	alpha := 1.0 - level
	lo := int(math.Floor(alpha / 2.0 * float64(iters)))
	hi := min(int(math.Floor((1.0-alpha/2.0)*float64(iters))), iters-1)

	return ConfidenceInterval{
		Lower:           means[lo],
		Upper:           means[hi],
		Mean:            m,
		ConfidenceLevel: level,
		Resamples:       iters,
	}
}
