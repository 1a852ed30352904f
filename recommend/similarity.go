package recommend

import "math"

// CosineSimilarity returns dot(a, b) / (|a| * |b|) computed in float64.
// A zero-norm vector on either side scores 0. Vectors must be the same length.
func CosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
