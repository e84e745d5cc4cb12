// Package utils provides shared utility functions.
package utils

import "math"

// Sum returns the sum of the values.
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// CumSum returns the running totals of the values.
func CumSum(values []float64) []float64 {
	out := make([]float64, len(values))
	var total float64
	for i, v := range values {
		total += v
		out[i] = total
	}
	return out
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// StdDev returns the population standard deviation, or 0 for fewer than
// two values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}
