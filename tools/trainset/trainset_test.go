package trainset

import (
	"bytes"
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"

	"protein_predictor_go/tools/seq_generator"
	"protein_predictor_go/tools/structclass"
	common "protein_predictor_go/utils"
)

func TestGenerateBalancedAndLabelConsistent(t *testing.T) {
	set, err := Generate(seq_generator.NewRand(42), 30, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 150 {
		t.Fatalf("got %d examples, want 150", len(set))
	}
	for _, c := range structclass.All() {
		if n := set.Counts()[c]; n != 30 {
			t.Fatalf("%v: %d examples, want 30", c, n)
		}
	}

	helixIdx := indexes("EMALK")
	sheetIdx := indexes("NPGSD")
	for i, ex := range set {
		if math.Abs(floats.Sum(ex.Composition)-1) > 1e-9 {
			t.Fatalf("example %d composition sums to %v", i, floats.Sum(ex.Composition))
		}
		// recover residue counts so the fractions match count/length exactly
		var nh, ns float64
		for _, j := range helixIdx {
			nh += math.Round(ex.Composition[j] * 30)
		}
		for _, j := range sheetIdx {
			ns += math.Round(ex.Composition[j] * 30)
		}
		h, s := nh/30, ns/30
		if got := structclass.Classify(h, s); got != ex.Class {
			t.Fatalf("example %d labelled %v but rules give %v", i, ex.Class, got)
		}
	}
}

func indexes(residues string) []int {
	var out []int
	for i := 0; i < len(residues); i++ {
		out = append(out, strings.IndexByte(common.AminoAcids, residues[i]))
	}
	return out
}

func TestGenerateUnreachableClass(t *testing.T) {
	// a single residue can never land in the α/β band
	if _, err := Generate(seq_generator.NewRand(1), 1, 1); err == nil {
		t.Fatal("expected error for length-1 sequences")
	}
}

func TestCSVRoundTrip(t *testing.T) {
	set, err := Generate(seq_generator.NewRand(5), 3, 30)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "training_data.csv")
	if err := WriteCSV(path, set); err != nil {
		t.Fatal(err)
	}
	loaded, err := ReadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(set, loaded) {
		t.Fatal("training data changed across the CSV round trip")
	}
}

func TestReadCSVRejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, Set{{Composition: make([]float64, 20), Class: structclass.BetaSheet}}); err != nil {
		t.Fatal(err)
	}
	good := buf.String()

	cases := map[string]string{
		"empty":       "",
		"bad header":  strings.Replace(good, "Structure_Class", "Label", 1),
		"bad label":   strings.Replace(good, "Dominantly β-sheet", "Loops", 1),
		"header only": strings.SplitN(good, "\n", 2)[0] + "\n",
	}
	for name, input := range cases {
		if _, err := readCSV(strings.NewReader(input)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
