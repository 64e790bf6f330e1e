package classifier

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/cheggaaa/pb.v1"

	"protein_predictor_go/tools/structclass"
	common "protein_predictor_go/utils"
)

// TrainOptions control a training run.
type TrainOptions struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	Rng          *rand.Rand // shuffling and dropout
	Progress     bool       // show a progress bar over epochs
	Logs         common.Logs
	LogEvery     int // epochs between loss log lines, 0 disables
}

// DefaultTrainOptions matches the reference training schedule.
func DefaultTrainOptions(rng *rand.Rand) TrainOptions {
	return TrainOptions{
		Epochs:       300,
		BatchSize:    16,
		LearningRate: 3e-4,
		Rng:          rng,
		Logs:         common.DiscardLogs(),
		LogEvery:     50,
	}
}

func (o TrainOptions) validate() error {
	var errs []error
	if o.Epochs <= 0 {
		errs = append(errs, fmt.Errorf("epochs must be positive, got %d", o.Epochs))
	}
	if o.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch size must be positive, got %d", o.BatchSize))
	}
	if o.LearningRate <= 0 {
		errs = append(errs, fmt.Errorf("learning rate must be positive, got %v", o.LearningRate))
	}
	if o.Rng == nil {
		errs = append(errs, errors.New("a random source is required"))
	}
	return errors.Join(errs...)
}

// Train fits the network to standardised inputs with mini-batch Adam and
// returns the mean cross-entropy of every epoch.
func (n *Network) Train(inputs [][]float64, labels []structclass.Class, opts TrainOptions) ([]float64, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, errors.New("no training examples")
	}
	if len(inputs) != len(labels) {
		return nil, fmt.Errorf("%d inputs but %d labels", len(inputs), len(labels))
	}
	for i, x := range inputs {
		if len(x) != n.inputs() {
			return nil, fmt.Errorf("example %d has %d dimensions, network expects %d", i, len(x), n.inputs())
		}
		if int(labels[i]) < 0 || int(labels[i]) >= n.outputs() {
			return nil, fmt.Errorf("example %d has label %d outside [0, %d)", i, labels[i], n.outputs())
		}
	}
	if opts.Logs.Info == nil {
		opts.Logs = common.DiscardLogs()
	}

	var bar *pb.ProgressBar
	if opts.Progress {
		bar = pb.StartNew(opts.Epochs)
		defer bar.Finish()
	}

	optimizer := newAdam(n, opts.LearningRate)
	order := make([]int, len(inputs))
	for i := range order {
		order[i] = i
	}

	losses := make([]float64, 0, opts.Epochs)
	for epoch := 1; epoch <= opts.Epochs; epoch++ {
		opts.Rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		var batchLoss, batchWeight []float64
		for start := 0; start < len(order); start += opts.BatchSize {
			end := min(start+opts.BatchSize, len(order))
			x, y := batch(inputs, labels, order[start:end], n.inputs())

			p := n.forward(x, opts.Rng)
			batchLoss = append(batchLoss, meanLoss(p.probs, y))
			batchWeight = append(batchWeight, float64(end-start))

			dW, dB := n.backward(p, y)
			optimizer.step(n, dW, dB)
		}
		loss := stat.Mean(batchLoss, batchWeight)
		losses = append(losses, loss)

		if opts.LogEvery > 0 && epoch%opts.LogEvery == 0 {
			opts.Logs.Info.Printf("epoch %d/%d loss %.4f", epoch, opts.Epochs, loss)
		}
		if bar != nil {
			bar.Increment()
		}
	}
	return losses, nil
}

func batch(inputs [][]float64, labels []structclass.Class, idx []int, dim int) (*mat.Dense, []int) {
	x := mat.NewDense(len(idx), dim, nil)
	y := make([]int, len(idx))
	for r, i := range idx {
		x.SetRow(r, inputs[i])
		y[r] = int(labels[i])
	}
	return x, y
}

func meanLoss(probs *mat.Dense, labels []int) float64 {
	total := 0.0
	for i, y := range labels {
		total += crossEntropy(probs.RawRowView(i), y)
	}
	return total / float64(len(labels))
}
