package predictor

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats"

	"protein_predictor_go/config"
	"protein_predictor_go/tools/protparam"
	common "protein_predictor_go/utils"
)

func quickSettings(dir string) config.Settings {
	return config.Settings{
		ArtifactDir:     dir,
		SamplesPerClass: 4,
		SequenceLength:  30,
		Epochs:          3,
		BatchSize:       8,
		LearningRate:    3e-4,
		Seed:            11,
	}
}

func TestInitTrainsThenLoads(t *testing.T) {
	s := quickSettings(t.TempDir())
	first, err := Init(s, common.DiscardLogs())
	if err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{s.TrainingDataPath(), s.ScalerPath(), s.ModelPath(), s.LossCurvePath()} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("artifact missing after training: %v", err)
		}
	}
	modelInfo, _ := os.Stat(s.ModelPath())

	second, err := Init(s, common.DiscardLogs())
	if err != nil {
		t.Fatal(err)
	}
	after, _ := os.Stat(s.ModelPath())
	if !after.ModTime().Equal(modelInfo.ModTime()) {
		t.Fatal("model was rewritten although the cache was valid")
	}

	seq := "MTEYKLVVVGAGGVGKSALTIQLIQNHFVDEYDPTIEDSYRKQ"
	p1, err := first.PredictSequence(seq)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := second.PredictSequence(seq)
	if err != nil {
		t.Fatal(err)
	}
	if p1.Class != p2.Class || !floats.EqualApprox(p1.Probabilities, p2.Probabilities, 1e-12) {
		t.Fatalf("reloaded predictor disagrees: %v vs %v", p1, p2)
	}
	if math.Abs(floats.Sum(p1.Probabilities)-1) > 1e-9 {
		t.Fatalf("probabilities sum to %v", floats.Sum(p1.Probabilities))
	}
}

func TestInitRetrainsCorruptModel(t *testing.T) {
	s := quickSettings(t.TempDir())
	if _, err := Init(s, common.DiscardLogs()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.ModelPath(), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Init(s, common.DiscardLogs())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.PredictSequence("ACDEFGHIKLMNPQRSTVWY"); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(s.ModelPath())
	if string(data) == "garbage" {
		t.Fatal("corrupt model was not replaced")
	}
}

func TestInitRetrainsStaleScaler(t *testing.T) {
	s := quickSettings(t.TempDir())
	if _, err := Init(s, common.DiscardLogs()); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(s.ScalerPath(), old, old); err != nil {
		t.Fatal(err)
	}
	newer := time.Now().Add(-30 * time.Minute)
	if err := os.Chtimes(s.TrainingDataPath(), newer, newer); err != nil {
		t.Fatal(err)
	}
	if _, err := Init(s, common.DiscardLogs()); err != nil {
		t.Fatal(err)
	}
	if err := common.CheckArtifactFreshness(s.TrainingDataPath(), s.ScalerPath()); err != nil {
		t.Fatalf("scaler still stale after Init: %v", err)
	}
}

func TestInitFailsWhenArtifactsCannotBeWritten(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Init(quickSettings(filepath.Join(blocker, "artifacts")), common.DiscardLogs()); err == nil {
		t.Fatal("expected an error when the artifact directory cannot be created")
	}
}

func TestInvalidateIsIdempotent(t *testing.T) {
	s := quickSettings(t.TempDir())
	if _, err := Init(s, common.DiscardLogs()); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := Invalidate(s.ArtifactDir); err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
	}
	for _, path := range []string{s.TrainingDataPath(), s.ScalerPath(), s.ModelPath(), s.LossCurvePath()} {
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("%s still present", path)
		}
	}
}

func TestPredictSequenceRejectsInvalid(t *testing.T) {
	s := quickSettings(t.TempDir())
	p, err := Init(s, common.DiscardLogs())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.PredictSequence("MKTZZ1"); !errors.Is(err, common.ErrInvalidSequence) {
		t.Fatalf("got %v, want ErrInvalidSequence", err)
	}
}

func TestPredictSequenceRejectsEmpty(t *testing.T) {
	s := quickSettings(t.TempDir())
	p, err := Init(s, common.DiscardLogs())
	if err != nil {
		t.Fatal(err)
	}
	for _, seq := range []string{"", "   ", "\n\t"} {
		if _, err := p.PredictSequence(seq); !errors.Is(err, protparam.ErrEmptySequence) {
			t.Fatalf("%q: got %v, want ErrEmptySequence", seq, err)
		}
	}
}
