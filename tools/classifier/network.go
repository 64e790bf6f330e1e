// Package classifier implements the feed-forward network that maps a
// standardised residue composition to one of the structural classes.
package classifier

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"protein_predictor_go/tools/structclass"
)

// ErrArtifactShape marks a model whose stored architecture does not fit.
var ErrArtifactShape = errors.New("model architecture mismatch")

// Architecture describes layer widths (input first, output last) and the
// dropout rate applied after each hidden layer (0 = none).
type Architecture struct {
	Sizes   []int
	Dropout []float64 // len(Sizes)-2 entries, one per hidden layer
}

// DefaultArchitecture is 20→128→64→32→16→5 with 0.3 dropout after the two
// widest hidden layers.
func DefaultArchitecture() Architecture {
	return Architecture{
		Sizes:   []int{20, 128, 64, 32, 16, structclass.Count},
		Dropout: []float64{0.3, 0.3, 0, 0},
	}
}

func (a Architecture) validate() error {
	if len(a.Sizes) < 2 {
		return fmt.Errorf("%w: need at least an input and an output layer", ErrArtifactShape)
	}
	for _, s := range a.Sizes {
		if s <= 0 {
			return fmt.Errorf("%w: layer sizes must be positive, got %v", ErrArtifactShape, a.Sizes)
		}
	}
	if len(a.Dropout) != len(a.Sizes)-2 {
		return fmt.Errorf("%w: %d dropout rates for %d hidden layers", ErrArtifactShape, len(a.Dropout), len(a.Sizes)-2)
	}
	for _, r := range a.Dropout {
		if r < 0 || r >= 1 {
			return fmt.Errorf("%w: dropout rate %v out of [0, 1)", ErrArtifactShape, r)
		}
	}
	return nil
}

// Network is a ReLU multilayer perceptron with a softmax output.
type Network struct {
	arch   Architecture
	layers []*dense
}

// NewNetwork builds a randomly initialised network.
func NewNetwork(arch Architecture, rng *rand.Rand) (*Network, error) {
	if err := arch.validate(); err != nil {
		return nil, err
	}
	net := &Network{arch: arch}
	for i := 0; i+1 < len(arch.Sizes); i++ {
		net.layers = append(net.layers, newDense(rng, arch.Sizes[i], arch.Sizes[i+1]))
	}
	return net, nil
}

// Architecture returns a copy of the network's shape.
func (n *Network) Architecture() Architecture {
	return Architecture{
		Sizes:   append([]int(nil), n.arch.Sizes...),
		Dropout: append([]float64(nil), n.arch.Dropout...),
	}
}

func (n *Network) inputs() int  { return n.arch.Sizes[0] }
func (n *Network) outputs() int { return n.arch.Sizes[len(n.arch.Sizes)-1] }

// pass keeps the intermediate values of one forward pass for backprop.
type pass struct {
	inputs []*mat.Dense // input to each layer
	pre    []*mat.Dense // pre-activation of each layer
	masks  []*mat.Dense // dropout mask per hidden layer, nil when unused
	probs  *mat.Dense
}

// forward runs a batch through the network. Dropout is applied only when
// rng is non-nil (training).
func (n *Network) forward(x *mat.Dense, rng *rand.Rand) *pass {
	p := &pass{}
	a := x
	for l, layer := range n.layers {
		p.inputs = append(p.inputs, a)
		z := layer.forward(a)
		p.pre = append(p.pre, z)

		if l == len(n.layers)-1 {
			p.probs = softmaxRows(z)
			break
		}

		a = relu(z)
		var mask *mat.Dense
		if rate := n.arch.Dropout[l]; rng != nil && rate > 0 {
			r, c := a.Dims()
			mask = dropoutMask(rng, r, c, rate)
			a.MulElem(a, mask)
		}
		p.masks = append(p.masks, mask)
	}
	return p
}

// backward computes gradients of the mean cross-entropy of a pass.
func (n *Network) backward(p *pass, labels []int) ([]*mat.Dense, [][]float64) {
	rows, _ := p.probs.Dims()
	dz := mat.DenseCopyOf(p.probs)
	for i, y := range labels {
		dz.Set(i, y, dz.At(i, y)-1)
	}
	dz.Scale(1/float64(rows), dz)

	dW := make([]*mat.Dense, len(n.layers))
	dB := make([][]float64, len(n.layers))
	for l := len(n.layers) - 1; l >= 0; l-- {
		var dx *mat.Dense
		dW[l], dB[l], dx = n.layers[l].backward(p.inputs[l], dz, l > 0)
		if l == 0 {
			break
		}
		if mask := p.masks[l-1]; mask != nil {
			dx.MulElem(dx, mask)
		}
		reluGrad(dx, p.pre[l-1])
		dz = dx
	}
	return dW, dB
}

// Probabilities returns the class distribution for one (already
// standardised) input vector.
func (n *Network) Probabilities(x []float64) ([]float64, error) {
	if len(x) != n.inputs() {
		return nil, fmt.Errorf("input has %d dimensions, network expects %d", len(x), n.inputs())
	}
	in := mat.NewDense(1, len(x), append([]float64(nil), x...))
	p := n.forward(in, nil)
	return append([]float64(nil), p.probs.RawRowView(0)...), nil
}

// Predict returns the most probable class together with the full
// distribution. The network must have one output per structural class.
func (n *Network) Predict(x []float64) (structclass.Class, []float64, error) {
	if n.outputs() != structclass.Count {
		return 0, nil, fmt.Errorf("%w: %d outputs, want %d", ErrArtifactShape, n.outputs(), structclass.Count)
	}
	probs, err := n.Probabilities(x)
	if err != nil {
		return 0, nil, err
	}
	return structclass.Class(floats.MaxIdx(probs)), probs, nil
}
