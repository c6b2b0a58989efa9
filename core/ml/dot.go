package ml

import "gonum.org/v1/gonum/floats"

// Dot returns the inner product of a and b. Only the common prefix is used
// when the lengths differ; callers validate dimensions upstream.
func Dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	return floats.Dot(a[:n], b[:n])
}
