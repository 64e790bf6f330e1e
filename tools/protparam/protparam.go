// Package protparam computes physicochemical descriptors of protein sequences
// (the ProtParam set: mass, GRAVY, pI, aromaticity, instability, charge and
// secondary structure propensities) together with residue composition.
package protparam

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"protein_predictor_go/tools/structclass"
	common "protein_predictor_go/utils"
)

// ErrEmptySequence is returned when there is nothing to analyse.
var ErrEmptySequence = errors.New("empty sequence")

// Features is the physicochemical record of a single sequence.
type Features struct {
	Length           int
	MolecularWeight  float64
	Hydrophobicity   float64 // GRAVY
	IsoelectricPoint float64
	Aromaticity      float64
	InstabilityIndex float64
	ChargeAtPH7      float64
	HelixFraction    float64
	SheetFraction    float64
	CoilFraction     float64
}

// StructureClass is the rule-based class implied by the helix and sheet fractions.
func (f Features) StructureClass() structclass.Class {
	return structclass.Classify(f.HelixFraction, f.SheetFraction)
}

// Extractor produces a feature record for a validated sequence.
// Callers treat any error as "feature extraction unavailable".
type Extractor interface {
	Extract(seq string) (Features, error)
}

// ProtParam is the built-in Extractor.
type ProtParam struct{}

// Extract validates seq and computes its features.
func (ProtParam) Extract(seq string) (Features, error) {
	cleaned, err := common.ValidateSequence(seq)
	if err != nil {
		return Features{}, err
	}
	if cleaned == "" {
		return Features{}, ErrEmptySequence
	}

	helix, sheet, coil := SecondaryStructureFraction(cleaned)
	return Features{
		Length:           len(cleaned),
		MolecularWeight:  MolecularWeight(cleaned),
		Hydrophobicity:   Gravy(cleaned),
		IsoelectricPoint: IsoelectricPoint(cleaned),
		Aromaticity:      Aromaticity(cleaned),
		InstabilityIndex: InstabilityIndex(cleaned),
		ChargeAtPH7:      ChargeAt(cleaned, 7.0),
		HelixFraction:    helix,
		SheetFraction:    sheet,
		CoilFraction:     coil,
	}, nil
}

// Composition returns the relative frequency of each standard residue, in
// common.AminoAcids order. The vector sums to 1, or is all zeros for an empty
// sequence. Non-standard characters are ignored by the count but still
// contribute to the length, so callers should validate first.
func Composition(seq string) []float64 {
	comp := make([]float64, len(common.AminoAcids))
	if len(seq) == 0 {
		return comp
	}
	for i := 0; i < len(seq); i++ {
		if idx := strings.IndexByte(common.AminoAcids, seq[i]); idx >= 0 {
			comp[idx]++
		}
	}
	floats.Scale(1/float64(len(seq)), comp)
	return comp
}

func fraction(seq, residues string) float64 {
	if len(seq) == 0 {
		return 0
	}
	n := 0
	for i := 0; i < len(seq); i++ {
		if strings.IndexByte(residues, seq[i]) >= 0 {
			n++
		}
	}
	return float64(n) / float64(len(seq))
}

// SecondaryStructureFraction returns helix, sheet and coil fractions.
// Helix counts EMALK and sheet counts the turn formers NPGSD; the sets are disjoint so coil,
// the remainder, is never negative and the three always sum to 1.
func SecondaryStructureFraction(seq string) (helix, sheet, coil float64) {
	if len(seq) == 0 {
		return 0, 0, 1
	}
	helix = fraction(seq, helixResidues)
	sheet = fraction(seq, sheetResidues)
	coil = 1 - helix - sheet
	return helix, sheet, coil
}

// MolecularWeight is the average mass of the peptide in Daltons.
func MolecularWeight(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}
	var weight float64
	for i := 0; i < len(seq); i++ {
		weight += aaWeights[seq[i]]
	}
	return weight - float64(len(seq)-1)*waterWeight
}

// Gravy is the grand average of hydropathy (Kyte & Doolittle).
func Gravy(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}
	var total float64
	for i := 0; i < len(seq); i++ {
		total += kyteDoolittle[seq[i]]
	}
	return total / float64(len(seq))
}

// Aromaticity is the relative frequency of F, W and Y.
func Aromaticity(seq string) float64 {
	return fraction(seq, aromaticResidues)
}

// InstabilityIndex follows Guruprasad et al. (1990). Values above 40 suggest
// the protein is unstable in vitro.
func InstabilityIndex(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}
	var score float64
	for i := 0; i+1 < len(seq); i++ {
		score += diwv[seq[i]][seq[i+1]]
	}
	return 10.0 / float64(len(seq)) * score
}

// ChargeAt returns the net charge of the peptide at the given pH.
func ChargeAt(seq string, pH float64) float64 {
	if len(seq) == 0 {
		return 0
	}

	counts := map[byte]float64{}
	for i := 0; i < len(seq); i++ {
		counts[seq[i]]++
	}

	nTerm := nTermPK
	if pk, ok := nTermResiduePKs[seq[0]]; ok {
		nTerm = pk
	}
	cTerm := cTermPK
	if pk, ok := cTermResiduePKs[seq[len(seq)-1]]; ok {
		cTerm = pk
	}

	positive := 1 / (math.Pow(10, pH-nTerm) + 1)
	for aa, pk := range positivePKs {
		positive += counts[aa] / (math.Pow(10, pH-pk) + 1)
	}

	negative := 1 / (math.Pow(10, cTerm-pH) + 1)
	for aa, pk := range negativePKs {
		negative += counts[aa] / (math.Pow(10, pk-pH) + 1)
	}

	return positive - negative
}

// IsoelectricPoint finds the pH at which the net charge is zero by bisection.
func IsoelectricPoint(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}
	pH, lo, hi := 7.775, 4.05, 12.0
	for hi-lo > 0.0001 {
		if ChargeAt(seq, pH) > 0 {
			lo = pH
		} else {
			hi = pH
		}
		pH = (lo + hi) / 2
	}
	return pH
}

// String renders the record the way the analyze tool prints it.
func (f Features) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Molecular Weight: %.2f\n", f.MolecularWeight)
	fmt.Fprintf(&b, "Hydrophobicity: %.3f\n", f.Hydrophobicity)
	fmt.Fprintf(&b, "Isoelectric Point: %.2f\n", f.IsoelectricPoint)
	fmt.Fprintf(&b, "Aromaticity: %.3f\n", f.Aromaticity)
	fmt.Fprintf(&b, "Instability Index: %.3f\n", f.InstabilityIndex)
	fmt.Fprintf(&b, "Charge at pH 7: %.3f\n", f.ChargeAtPH7)
	fmt.Fprintf(&b, "Helix Fraction: %.3f\n", f.HelixFraction)
	fmt.Fprintf(&b, "Sheet Fraction: %.3f\n", f.SheetFraction)
	fmt.Fprintf(&b, "Coil Fraction: %.3f\n", f.CoilFraction)
	fmt.Fprintf(&b, "Structural Classification: %s\n", f.StructureClass())
	return b.String()
}
