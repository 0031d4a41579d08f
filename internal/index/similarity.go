package index

import (
	"fmt"
	"math"
)

// cosineSimilarity measures how close two embedding vectors point in the
// same direction, in [-1, 1].
func cosineSimilarity(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have the same length, got %d and %d", len(a), len(b))
	}

	magA := magnitude(a)
	magB := magnitude(b)
	if magA == 0 || magB == 0 {
		return 0, fmt.Errorf("vector magnitude cannot be zero")
	}

	return dotProduct(a, b) / (magA * magB), nil
}

func dotProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func magnitude(v []float32) float32 {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	return float32(math.Sqrt(float64(sum)))
}
