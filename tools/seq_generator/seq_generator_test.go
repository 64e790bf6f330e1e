package seq_generator

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"

	"protein_predictor_go/tools/protparam"
	"protein_predictor_go/tools/structclass"
	common "protein_predictor_go/utils"
)

func TestGenerateProteinAlphabet(t *testing.T) {
	rng := NewRand(7)
	seq := GenerateProtein(rng, 500, UniformWeights())
	if len(seq) != 500 {
		t.Fatalf("length = %d", len(seq))
	}
	if !common.IsValidSequence(seq) {
		t.Fatalf("generated non-standard residues: %s", seq)
	}
	if GenerateProtein(rng, 0, UniformWeights()) != "" {
		t.Fatal("expected empty sequence for length 0")
	}
}

func TestArchetypeWeightsNormalised(t *testing.T) {
	for _, c := range structclass.All() {
		for _, mirror := range []bool{false, true} {
			w, err := ArchetypeWeights(c, mirror)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(floats.Sum(w)-1) > 1e-12 {
				t.Fatalf("%v: weights sum to %v", c, floats.Sum(w))
			}
		}
	}
}

func TestClassBiasShiftsFractions(t *testing.T) {
	rng := NewRand(11)
	meanHelix := func(c structclass.Class) float64 {
		var total float64
		for i := 0; i < 50; i++ {
			w, err := SampleClassWeights(rng, c)
			if err != nil {
				t.Fatal(err)
			}
			h, _, _ := protparam.SecondaryStructureFraction(GenerateProtein(rng, 60, w))
			total += h
		}
		return total / 50
	}
	if helix, sheet := meanHelix(structclass.AlphaHelical), meanHelix(structclass.BetaSheet); helix <= sheet+0.3 {
		t.Fatalf("helix archetype mean helix %.3f not well above sheet archetype %.3f", helix, sheet)
	}
}

func TestMakeSequenceStartMet(t *testing.T) {
	seq, err := MakeSequence(NewRand(3), 20, "sheet", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(seq) != 20 || seq[0] != 'M' {
		t.Fatalf("unexpected sequence %q", seq)
	}
	if _, err := MakeSequence(NewRand(3), 20, "loops", false); err == nil {
		t.Fatal("expected error for unknown class")
	}
}

func TestMultiSeqFlag(t *testing.T) {
	var m MultiSeqFlag
	if err := m.Set("p1,40,helix"); err != nil {
		t.Fatal(err)
	}
	if err := m.Set("p2,10"); err != nil {
		t.Fatal(err)
	}
	if len(m) != 2 || m[0].Class != "helix" || m[1].Length != 10 {
		t.Fatalf("unexpected parse: %+v", m)
	}
	for _, bad := range []string{"p3", "p3,abc", "p3,10,nope"} {
		if err := m.Set(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestWrapFasta(t *testing.T) {
	got := WrapFasta(strings.Repeat("A", 7), 3)
	if got != "AAA\nAAA\nA\n" {
		t.Fatalf("WrapFasta = %q", got)
	}
}
