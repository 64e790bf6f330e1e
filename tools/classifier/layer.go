package classifier

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// dense is a fully-connected layer computing x·W + b for a batch of row
// vectors x.
type dense struct {
	W *mat.Dense    // in × out
	B *mat.VecDense // out
}

// newDense creates a layer with He-normal weights and zero biases.
func newDense(rng *rand.Rand, in, out int) *dense {
	init := distuv.Normal{Mu: 0, Sigma: math.Sqrt(2 / float64(in)), Src: rng}
	w := make([]float64, in*out)
	for i := range w {
		w[i] = init.Rand()
	}
	return &dense{W: mat.NewDense(in, out, w), B: mat.NewVecDense(out, nil)}
}

func (d *dense) dims() (in, out int) { return d.W.Dims() }

func (d *dense) forward(x mat.Matrix) *mat.Dense {
	n, _ := x.Dims()
	_, out := d.dims()
	z := mat.NewDense(n, out, nil)
	z.Mul(x, d.W)
	bias := d.B.RawVector().Data
	for i := 0; i < n; i++ {
		row := z.RawRowView(i)
		for j := range row {
			row[j] += bias[j]
		}
	}
	return z
}

// backward returns the weight and bias gradients for upstream gradient dz
// and, when needInput is set, the gradient with respect to x.
func (d *dense) backward(x, dz *mat.Dense, needInput bool) (dw *mat.Dense, db []float64, dx *mat.Dense) {
	in, out := d.dims()
	n, _ := dz.Dims()

	dw = mat.NewDense(in, out, nil)
	dw.Mul(x.T(), dz)

	db = make([]float64, out)
	for i := 0; i < n; i++ {
		for j, v := range dz.RawRowView(i) {
			db[j] += v
		}
	}

	if needInput {
		dx = mat.NewDense(n, in, nil)
		dx.Mul(dz, d.W.T())
	}
	return dw, db, dx
}

func relu(z *mat.Dense) *mat.Dense {
	r, c := z.Dims()
	a := mat.NewDense(r, c, nil)
	a.Apply(func(_, _ int, v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	}, z)
	return a
}

// reluGrad zeroes grad wherever the pre-activation z was not positive.
func reluGrad(grad, z *mat.Dense) {
	grad.Apply(func(i, j int, v float64) float64 {
		if z.At(i, j) > 0 {
			return v
		}
		return 0
	}, grad)
}

// dropoutMask draws an inverted-dropout mask: kept units are scaled by
// 1/keep so inference needs no rescaling.
func dropoutMask(rng *rand.Rand, rows, cols int, rate float64) *mat.Dense {
	keep := 1 - rate
	m := mat.NewDense(rows, cols, nil)
	raw := m.RawMatrix().Data
	for i := range raw {
		if rng.Float64() < keep {
			raw[i] = 1 / keep
		}
	}
	return m
}

// softmaxRows turns each row of logits into a probability distribution.
func softmaxRows(z *mat.Dense) *mat.Dense {
	r, c := z.Dims()
	p := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		softmax(p.RawRowView(i), z.RawRowView(i))
	}
	return p
}
