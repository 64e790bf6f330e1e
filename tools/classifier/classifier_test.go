package classifier

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"protein_predictor_go/tools/scaler"
	"protein_predictor_go/tools/seq_generator"
	"protein_predictor_go/tools/structclass"
	"protein_predictor_go/tools/trainset"
)

func TestProbabilitiesSumToOne(t *testing.T) {
	net, err := NewNetwork(DefaultArchitecture(), seq_generator.NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	rng := seq_generator.NewRand(2)
	for trial := 0; trial < 20; trial++ {
		x := make([]float64, 20)
		for i := range x {
			x[i] = rng.NormFloat64() * 3
		}
		class, probs, err := net.Predict(x)
		if err != nil {
			t.Fatal(err)
		}
		if len(probs) != structclass.Count {
			t.Fatalf("got %d probabilities", len(probs))
		}
		if math.Abs(floats.Sum(probs)-1) > 1e-9 {
			t.Fatalf("probabilities sum to %v", floats.Sum(probs))
		}
		for _, p := range probs {
			if p < 0 || p > 1 {
				t.Fatalf("probability %v out of range", p)
			}
		}
		if int(class) != floats.MaxIdx(probs) {
			t.Fatalf("label %d is not the argmax of %v", class, probs)
		}
	}
}

func TestPredictRejectsWrongDimension(t *testing.T) {
	net, _ := NewNetwork(DefaultArchitecture(), seq_generator.NewRand(1))
	if _, _, err := net.Predict(make([]float64, 19)); err == nil {
		t.Fatal("expected error for 19-dimensional input")
	}
}

func TestNewNetworkValidates(t *testing.T) {
	bad := []Architecture{
		{Sizes: []int{20}},
		{Sizes: []int{20, 0, 5}, Dropout: []float64{0}},
		{Sizes: []int{20, 8, 5}},
		{Sizes: []int{20, 8, 5}, Dropout: []float64{1}},
	}
	for _, arch := range bad {
		if _, err := NewNetwork(arch, seq_generator.NewRand(1)); !errors.Is(err, ErrArtifactShape) {
			t.Fatalf("%+v: got %v, want ErrArtifactShape", arch, err)
		}
	}
}

// Compares backprop against central differences on a small network.
func TestGradientsMatchFiniteDifferences(t *testing.T) {
	arch := Architecture{Sizes: []int{4, 6, 5, 3}, Dropout: []float64{0, 0}}
	net, err := NewNetwork(arch, seq_generator.NewRand(7))
	if err != nil {
		t.Fatal(err)
	}
	rng := seq_generator.NewRand(8)
	x := mat.NewDense(5, 4, nil)
	for i := 0; i < 5; i++ {
		for j := 0; j < 4; j++ {
			x.Set(i, j, rng.NormFloat64())
		}
	}
	labels := []int{0, 1, 2, 1, 0}

	loss := func() float64 { return meanLoss(net.forward(x, nil).probs, labels) }
	dW, dB := net.backward(net.forward(x, nil), labels)

	const h = 1e-6
	check := func(name string, param []float64, grad []float64) {
		for i := range param {
			orig := param[i]
			param[i] = orig + h
			up := loss()
			param[i] = orig - h
			down := loss()
			param[i] = orig
			numeric := (up - down) / (2 * h)
			if math.Abs(numeric-grad[i]) > 1e-5*math.Max(1, math.Abs(numeric)) {
				t.Fatalf("%s[%d]: backprop %v, numeric %v", name, i, grad[i], numeric)
			}
		}
	}
	for l, layer := range net.layers {
		check("W", layer.W.RawMatrix().Data, dW[l].RawMatrix().Data)
		check("b", layer.B.RawVector().Data, dB[l])
	}
}

func TestDropoutMaskIsInverted(t *testing.T) {
	m := dropoutMask(seq_generator.NewRand(3), 200, 200, 0.3)
	kept := 0
	for _, v := range m.RawMatrix().Data {
		switch {
		case v == 0:
		case math.Abs(v-1/0.7) < 1e-12:
			kept++
		default:
			t.Fatalf("unexpected mask value %v", v)
		}
	}
	frac := float64(kept) / 40000
	if math.Abs(frac-0.7) > 0.02 {
		t.Fatalf("kept fraction %v, want about 0.7", frac)
	}
}

func TestTrainRejectsBadInput(t *testing.T) {
	net, _ := NewNetwork(DefaultArchitecture(), seq_generator.NewRand(1))
	opts := DefaultTrainOptions(seq_generator.NewRand(1))

	if _, err := net.Train(nil, nil, opts); err == nil {
		t.Fatal("expected error for empty set")
	}
	if _, err := net.Train([][]float64{make([]float64, 20)}, nil, opts); err == nil {
		t.Fatal("expected error for label count mismatch")
	}
	if _, err := net.Train([][]float64{make([]float64, 3)}, []structclass.Class{0}, opts); err == nil {
		t.Fatal("expected error for wrong dimension")
	}
	opts.Epochs = 0
	if _, err := net.Train([][]float64{make([]float64, 20)}, []structclass.Class{0}, opts); err == nil {
		t.Fatal("expected error for zero epochs")
	}
}

// trainedModel trains the default network on the standard synthetic set.
func trainedModel(t *testing.T) (*Network, *scaler.Scaler, trainset.Set, []float64) {
	t.Helper()
	set, err := trainset.Generate(seq_generator.NewRand(42), 30, 30)
	if err != nil {
		t.Fatal(err)
	}
	sc, err := scaler.Fit(set.Vectors())
	if err != nil {
		t.Fatal(err)
	}
	inputs, err := sc.TransformAll(set.Vectors())
	if err != nil {
		t.Fatal(err)
	}
	labels := make([]structclass.Class, len(set))
	for i, ex := range set {
		labels[i] = ex.Class
	}

	rng := seq_generator.NewRand(43)
	net, err := NewNetwork(DefaultArchitecture(), rng)
	if err != nil {
		t.Fatal(err)
	}
	losses, err := net.Train(inputs, labels, DefaultTrainOptions(rng))
	if err != nil {
		t.Fatal(err)
	}
	return net, sc, set, losses
}

func TestTrainedModelLearnsHelixClass(t *testing.T) {
	if testing.Short() {
		t.Skip("full training run")
	}
	net, sc, set, losses := trainedModel(t)

	if len(losses) != 300 {
		t.Fatalf("got %d epoch losses, want 300", len(losses))
	}
	if losses[len(losses)-1] >= losses[0] {
		t.Fatalf("loss did not decrease: first %v, last %v", losses[0], losses[len(losses)-1])
	}

	centroid := make([]float64, 20)
	n := 0.0
	for _, ex := range set {
		if ex.Class == structclass.AlphaHelical {
			floats.Add(centroid, ex.Composition)
			n++
		}
	}
	floats.Scale(1/n, centroid)

	x, err := sc.Transform(centroid)
	if err != nil {
		t.Fatal(err)
	}
	class, probs, err := net.Predict(x)
	if err != nil {
		t.Fatal(err)
	}
	if class != structclass.AlphaHelical {
		t.Fatalf("helix centroid classified as %v (%v)", class, probs)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	net, err := NewNetwork(DefaultArchitecture(), seq_generator.NewRand(5))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "model.bin")
	if err := net.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path, DefaultArchitecture())
	if err != nil {
		t.Fatal(err)
	}

	x := make([]float64, 20)
	for i := range x {
		x[i] = float64(i%7) - 3
	}
	c1, p1, _ := net.Predict(x)
	c2, p2, _ := loaded.Predict(x)
	if c1 != c2 || !floats.Equal(p1, p2) {
		t.Fatalf("loaded model predicts %v %v, original %v %v", c2, p2, c1, p1)
	}
}

func TestLoadRejectsOtherArchitecture(t *testing.T) {
	small := Architecture{Sizes: []int{20, 8, 5}, Dropout: []float64{0}}
	net, _ := NewNetwork(small, seq_generator.NewRand(5))
	path := filepath.Join(t.TempDir(), "model.bin")
	if err := net.Save(path); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, DefaultArchitecture()); !errors.Is(err, ErrArtifactShape) {
		t.Fatalf("got %v, want ErrArtifactShape", err)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.bin")
	if err := os.WriteFile(path, []byte("not a model"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, DefaultArchitecture()); err == nil {
		t.Fatal("expected error for corrupt model")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.bin"), DefaultArchitecture()); err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestWriteLossCurveSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loss.svg")
	if err := WriteLossCurveSVG(path, []float64{1.6, 1.2, 0.9, 0.7}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Fatal("loss curve is not an SVG document")
	}
	if err := WriteLossCurveSVG(path, nil); err == nil {
		t.Fatal("expected error for empty losses")
	}
}
