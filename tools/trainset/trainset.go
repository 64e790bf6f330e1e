// Package trainset generates the synthetic, class-balanced training examples
// and stores them as a flat CSV table.
package trainset

import (
	"fmt"
	"math/rand/v2"

	"protein_predictor_go/tools/protparam"
	"protein_predictor_go/tools/seq_generator"
	"protein_predictor_go/tools/structclass"
)

// Example is one labelled composition vector.
type Example struct {
	Composition []float64
	Class       structclass.Class
}

// Set is an ordered collection of examples.
type Set []Example

// Vectors returns the composition vectors, sharing memory with the set.
func (s Set) Vectors() [][]float64 {
	out := make([][]float64, len(s))
	for i, ex := range s {
		out[i] = ex.Composition
	}
	return out
}

// Counts tallies examples per class.
func (s Set) Counts() map[structclass.Class]int {
	counts := make(map[structclass.Class]int)
	for _, ex := range s {
		counts[ex.Class]++
	}
	return counts
}

// Draws allowed per requested example before a class is reported as unreachable.
const maxAttemptsPerExample = 1000

// Generate draws perClass random sequences of seqLen residues for every
// class. Residue weights are biased toward the class archetype and a draw is
// kept only when the rule classifier agrees with the target class, so every
// label is consistent with the helix/sheet thresholds.
func Generate(rng *rand.Rand, perClass, seqLen int) (Set, error) {
	if perClass <= 0 || seqLen <= 0 {
		return nil, fmt.Errorf("samples per class (%d) and sequence length (%d) must be positive", perClass, seqLen)
	}

	set := make(Set, 0, perClass*structclass.Count)
	for _, class := range structclass.All() {
		accepted, attempts := 0, 0
		for accepted < perClass {
			if attempts >= perClass*maxAttemptsPerExample {
				return nil, fmt.Errorf("could not generate %d examples of %q with length %d after %d draws",
					perClass, class, seqLen, attempts)
			}
			attempts++

			weights, err := seq_generator.SampleClassWeights(rng, class)
			if err != nil {
				return nil, err
			}
			seq := seq_generator.GenerateProtein(rng, seqLen, weights)

			helix, sheet, _ := protparam.SecondaryStructureFraction(seq)
			if structclass.Classify(helix, sheet) != class {
				continue
			}
			set = append(set, Example{Composition: protparam.Composition(seq), Class: class})
			accepted++
		}
	}
	return set, nil
}
