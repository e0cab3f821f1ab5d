// Package metrics holds the small numeric reductions used by the aggregator.
package metrics

import "math"

// Mean computes the arithmetic mean of values. The boolean is false for
// empty input, in which case the mean is undefined and 0 is returned.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return Sum(values) / float64(len(values)), true
}

// MeanPtr is Mean with the undefined case represented as nil.
func MeanPtr(values []float64) *float64 {
	m, ok := Mean(values)
	if !ok {
		return nil
	}
	return &m
}

// Sum adds values in order.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Variance computes the population variance. Returns 0 for empty input.
func Variance(values []float64) float64 {
	m, ok := Mean(values)
	if !ok {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return sumSq / float64(len(values))
}

// StdDev computes the population standard deviation.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Clamp01 limits v to [0, 1]. NaN becomes 0.
func Clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
