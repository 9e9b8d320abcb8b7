package inference

import "math"

// Softmax returns a probability distribution over scores. The input is
// not modified.
func Softmax(scores []float32) []float32 {
	out := make([]float32, len(scores))
	if len(scores) == 0 {
		return out
	}

	maxScore := scores[0]
	for _, s := range scores[1:] {
		maxScore = max(maxScore, s)
	}

	var sum float64
	exps := make([]float64, len(scores))
	for i, s := range scores {
		exps[i] = math.Exp(float64(s - maxScore))
		sum += exps[i]
	}

	for i, e := range exps {
		out[i] = float32(e / sum)
	}
	return out
}

// IsDistribution reports whether every score lies in [0,1].
func IsDistribution(scores []float32) bool {
	for _, s := range scores {
		if s < 0 || s > 1 || math.IsNaN(float64(s)) {
			return false
		}
	}
	return true
}
