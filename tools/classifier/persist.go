package classifier

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gonum.org/v1/gonum/mat"

	"protein_predictor_go/config"
)

// modelFile is the on-disk layout of a trained network. Weights and biases
// are stored in gonum's binary matrix format.
type modelFile struct {
	Format  int
	Sizes   []int
	Dropout []float64
	Weights [][]byte
	Biases  [][]byte
}

// Save writes the network to filename, replacing any previous model.
func (n *Network) Save(filename string) error {
	mf := modelFile{
		Format:  config.Model_format,
		Sizes:   n.arch.Sizes,
		Dropout: n.arch.Dropout,
	}
	for i, l := range n.layers {
		w, err := l.W.MarshalBinary()
		if err != nil {
			return fmt.Errorf("encoding weights of layer %d: %w", i, err)
		}
		b, err := l.B.MarshalBinary()
		if err != nil {
			return fmt.Errorf("encoding biases of layer %d: %w", i, err)
		}
		mf.Weights = append(mf.Weights, w)
		mf.Biases = append(mf.Biases, b)
	}

	// Write next to the target and rename so a failed save never leaves a
	// truncated model behind.
	tmp, err := os.CreateTemp(filepath.Dir(filename), ".model-*")
	if err != nil {
		return fmt.Errorf("creating model file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(mf); err != nil {
		tmp.Close()
		return fmt.Errorf("writing model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing model file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("writing model file: %w", err)
	}
	return nil
}

// Load reads a network saved by Save and checks that it has the expected
// architecture. A mismatch is reported as ErrArtifactShape.
func Load(filename string, want Architecture) (*Network, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening model file: %w", err)
	}
	defer f.Close()

	var mf modelFile
	if err := gob.NewDecoder(f).Decode(&mf); err != nil {
		return nil, fmt.Errorf("decoding model file %s: %w", filename, err)
	}
	if mf.Format != config.Model_format {
		return nil, fmt.Errorf("%w: model format %d, expected %d", ErrArtifactShape, mf.Format, config.Model_format)
	}

	arch := Architecture{Sizes: mf.Sizes, Dropout: mf.Dropout}
	if err := arch.validate(); err != nil {
		return nil, err
	}
	if !slices.Equal(arch.Sizes, want.Sizes) {
		return nil, fmt.Errorf("%w: stored layers %v, expected %v", ErrArtifactShape, arch.Sizes, want.Sizes)
	}
	if len(mf.Weights) != len(arch.Sizes)-1 || len(mf.Biases) != len(arch.Sizes)-1 {
		return nil, fmt.Errorf("%w: %d weight blocks for %d layers", ErrArtifactShape, len(mf.Weights), len(arch.Sizes)-1)
	}

	net := &Network{arch: arch}
	for i := range mf.Weights {
		var w mat.Dense
		if err := w.UnmarshalBinary(mf.Weights[i]); err != nil {
			return nil, fmt.Errorf("decoding weights of layer %d: %w", i, err)
		}
		var b mat.VecDense
		if err := b.UnmarshalBinary(mf.Biases[i]); err != nil {
			return nil, fmt.Errorf("decoding biases of layer %d: %w", i, err)
		}
		in, out := w.Dims()
		if in != arch.Sizes[i] || out != arch.Sizes[i+1] || b.Len() != out {
			return nil, fmt.Errorf("%w: layer %d stored as %dx%d (+%d), expected %dx%d",
				ErrArtifactShape, i, in, out, b.Len(), arch.Sizes[i], arch.Sizes[i+1])
		}
		net.layers = append(net.layers, &dense{W: &w, B: &b})
	}
	return net, nil
}
