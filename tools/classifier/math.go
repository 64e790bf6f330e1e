package classifier

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// softmax writes the softmax of logits into dst.
func softmax(dst, logits []float64) {
	maxLogit := floats.Max(logits)
	for j, v := range logits {
		dst[j] = math.Exp(v - maxLogit)
	}
	floats.Scale(1/floats.Sum(dst), dst)
}

// Smallest probability fed to the log in the loss.
const probFloor = 1e-12

func crossEntropy(probs []float64, label int) float64 {
	return -math.Log(math.Max(probs[label], probFloor))
}
