package seq_generator

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distmv"

	"protein_predictor_go/tools/structclass"
	common "protein_predictor_go/utils"
)

// Residues that push the helix and sheet fractions used by the structure rules.
const (
	helixFormers = "EMALK"
	sheetFormers = "NPGSD"
)

// Expected helix and sheet mass for each structural archetype.
type archetype struct {
	helix, sheet float64
}

var archetypes = map[structclass.Class]archetype{
	structclass.AlphaHelical:   {helix: 0.62, sheet: 0.10},
	structclass.BetaSheet:      {helix: 0.10, sheet: 0.62},
	structclass.AlphaSlashBeta: {helix: 0.40, sheet: 0.40},
	structclass.AlphaPlusBeta:  {helix: 0.60, sheet: 0.36}, // mirrored half of the time
	structclass.Unstructured:   {helix: 0.12, sheet: 0.12},
}

// Dirichlet concentration for per-sample jitter. Lower is noisier.
const jitterConcentration = 60.0

// ArchetypeWeights returns normalised residue weights for a class. mirror swaps
// the helix and sheet mass, which only matters for the asymmetric α+β archetype.
func ArchetypeWeights(class structclass.Class, mirror bool) ([]float64, error) {
	a, ok := archetypes[class]
	if !ok {
		return nil, fmt.Errorf("no archetype for %v", class)
	}
	if mirror {
		a.helix, a.sheet = a.sheet, a.helix
	}
	background := 1 - a.helix - a.sheet
	nBackground := len(common.AminoAcids) - len(helixFormers) - len(sheetFormers)

	w := make([]float64, len(common.AminoAcids))
	for i := 0; i < len(common.AminoAcids); i++ {
		aa := common.AminoAcids[i]
		switch {
		case strings.IndexByte(helixFormers, aa) >= 0:
			w[i] = a.helix / float64(len(helixFormers))
		case strings.IndexByte(sheetFormers, aa) >= 0:
			w[i] = a.sheet / float64(len(sheetFormers))
		default:
			w[i] = background / float64(nBackground)
		}
	}
	return w, nil
}

// SampleClassWeights draws one set of residue weights for class from a
// Dirichlet centred on its archetype, so repeated draws give varied but
// class-typical compositions.
func SampleClassWeights(rng *rand.Rand, class structclass.Class) ([]float64, error) {
	mirror := class == structclass.AlphaPlusBeta && rng.IntN(2) == 1
	w, err := ArchetypeWeights(class, mirror)
	if err != nil {
		return nil, err
	}
	alpha := make([]float64, len(w))
	copy(alpha, w)
	floats.Scale(jitterConcentration, alpha)

	d := distmv.NewDirichlet(alpha, rng)
	return d.Rand(nil), nil
}

// ParseClassFlag accepts short names on the command line.
func ParseClassFlag(name string) (structclass.Class, error) {
	switch strings.ToLower(name) {
	case "helix", "alpha":
		return structclass.AlphaHelical, nil
	case "sheet", "beta":
		return structclass.BetaSheet, nil
	case "alpha/beta", "a/b", "mixed":
		return structclass.AlphaSlashBeta, nil
	case "alpha+beta", "a+b", "segregated":
		return structclass.AlphaPlusBeta, nil
	case "coil", "unstructured":
		return structclass.Unstructured, nil
	}
	return structclass.Parse(name)
}
