// Package structclass defines the five coarse protein structural classes and
// the threshold rules that assign one from helix and sheet content.
package structclass

import "fmt"

// Class is a coarse structural category.
type Class int

const (
	AlphaHelical Class = iota // Dominantly α-helical
	BetaSheet                 // Dominantly β-sheet
	AlphaSlashBeta            // α/β, intermixed
	AlphaPlusBeta             // α+β, segregated
	Unstructured              // coil dominant
)

// Count is the number of classes; model outputs are indexed by Class.
const Count = 5

var labels = [Count]string{
	"Dominantly α-helical",
	"Dominantly β-sheet",
	"α/β",
	"α+β",
	"Unstructured / Coil-Dominant",
}

// All returns every class in output-index order.
func All() []Class {
	return []Class{AlphaHelical, BetaSheet, AlphaSlashBeta, AlphaPlusBeta, Unstructured}
}

// Labels returns the human-readable labels in output-index order.
func Labels() []string {
	out := make([]string, Count)
	copy(out, labels[:])
	return out
}

func (c Class) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return labels[c]
}

// Valid reports whether c is one of the five classes.
func (c Class) Valid() bool { return c >= 0 && c < Count }

// Parse maps a label back to its Class.
func Parse(label string) (Class, error) {
	for i, l := range labels {
		if l == label {
			return Class(i), nil
		}
	}
	return 0, fmt.Errorf("unknown structural class %q", label)
}

// Classify assigns a class from helix (h) and sheet (s) fractions.
// Rules are tried in order and the first match wins:
//
//	α-helical      h ≥ 0.5 and s < 0.3
//	β-sheet        s ≥ 0.5 and h < 0.3
//	α/β            0.3 ≤ h ≤ 0.5 and 0.3 ≤ s ≤ 0.5
//	α+β            h > 0.3 and s > 0.3
//	Unstructured   h < 0.3 and s < 0.3
//
// Pairs none of the rules cover (e.g. h = 0.4, s = 0.1) are Unstructured.
func Classify(h, s float64) Class {
	switch {
	case h >= 0.5 && s < 0.3:
		return AlphaHelical
	case s >= 0.5 && h < 0.3:
		return BetaSheet
	case h >= 0.3 && h <= 0.5 && s >= 0.3 && s <= 0.5:
		return AlphaSlashBeta
	case h > 0.3 && s > 0.3:
		return AlphaPlusBeta
	default:
		return Unstructured
	}
}

// Covered reports whether (h, s) matches one of the explicit rules rather
// than falling through to the gap default.
func Covered(h, s float64) bool {
	return (h >= 0.5 && s < 0.3) ||
		(s >= 0.5 && h < 0.3) ||
		(h >= 0.3 && h <= 0.5 && s >= 0.3 && s <= 0.5) ||
		(h > 0.3 && s > 0.3) ||
		(h < 0.3 && s < 0.3)
}
