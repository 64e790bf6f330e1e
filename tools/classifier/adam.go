package classifier

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-7
)

// adam implements the adaptive moments optimizer of Kingma & Ba
// (https://arxiv.org/abs/1412.6980) with bias-corrected moment estimates.
type adam struct {
	lr        float64
	iteration float64

	mW, vW []*mat.Dense
	mB, vB [][]float64
}

func newAdam(net *Network, lr float64) *adam {
	a := &adam{lr: lr}
	for _, l := range net.layers {
		in, out := l.dims()
		a.mW = append(a.mW, mat.NewDense(in, out, nil))
		a.vW = append(a.vW, mat.NewDense(in, out, nil))
		a.mB = append(a.mB, make([]float64, out))
		a.vB = append(a.vB, make([]float64, out))
	}
	return a
}

// step applies one update from per-layer gradients.
func (a *adam) step(net *Network, dW []*mat.Dense, dB [][]float64) {
	a.iteration++
	c1 := 1 - math.Pow(adamBeta1, a.iteration)
	c2 := 1 - math.Pow(adamBeta2, a.iteration)

	for l, layer := range net.layers {
		a.update(layer.W.RawMatrix().Data, dW[l].RawMatrix().Data,
			a.mW[l].RawMatrix().Data, a.vW[l].RawMatrix().Data, c1, c2)
		a.update(layer.B.RawVector().Data, dB[l], a.mB[l], a.vB[l], c1, c2)
	}
}

func (a *adam) update(param, grad, m, v []float64, c1, c2 float64) {
	for i, g := range grad {
		m[i] = adamBeta1*m[i] + (1-adamBeta1)*g
		v[i] = adamBeta2*v[i] + (1-adamBeta2)*g*g
		mHat := m[i] / c1
		vHat := v[i] / c2
		param[i] -= a.lr * mHat / (math.Sqrt(vHat) + adamEpsilon)
	}
}
