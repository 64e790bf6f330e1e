package seq_generator

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	common "protein_predictor_go/utils"
)

// 20 standard amino acids
var aminoAcids = []byte(common.AminoAcids)

// UniformWeights gives every residue the same probability.
func UniformWeights() []float64 {
	w := make([]float64, len(aminoAcids))
	for i := range w {
		w[i] = 1
	}
	return w
}

// GenerateProtein draws length residues, each independently from weights
// (indexed like common.AminoAcids, need not be normalised).
func GenerateProtein(rng *rand.Rand, length int, weights []float64) string {
	if length <= 0 {
		return ""
	}
	residue := distuv.NewCategorical(weights, rng)
	seq := make([]byte, length)
	for i := range seq {
		seq[i] = aminoAcids[int(residue.Rand())]
	}
	return string(seq)
}
