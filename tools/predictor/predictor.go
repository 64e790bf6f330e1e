// Package predictor owns the trained classifier and its normalizer: it loads
// cached artifacts, retrains when they are missing or unusable, and maps
// sequences to structural classes.
package predictor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"protein_predictor_go/config"
	"protein_predictor_go/tools/classifier"
	"protein_predictor_go/tools/protparam"
	"protein_predictor_go/tools/scaler"
	"protein_predictor_go/tools/seq_generator"
	"protein_predictor_go/tools/structclass"
	"protein_predictor_go/tools/trainset"
	common "protein_predictor_go/utils"
)

// Predictor is a ready-to-use model together with the normalizer it was
// trained behind.
type Predictor struct {
	Net    *classifier.Network
	Scaler *scaler.Scaler
}

// Prediction is the classifier output for one sequence.
type Prediction struct {
	Class         structclass.Class
	Probabilities []float64 // indexed by structclass.Class
}

// Init loads the cached model and normalizer from settings.ArtifactDir, or
// trains and stores new ones when the cache is missing, unreadable, stale or
// of the wrong shape. An error means no usable model could be produced.
func Init(settings config.Settings, logs common.Logs) (*Predictor, error) {
	if logs.Info == nil {
		logs = common.DiscardLogs()
	}
	p, err := load(settings)
	if err == nil {
		logs.Info.Printf("loaded model from %s", settings.ModelPath())
		return p, nil
	}
	logs.Warn.Printf("cached model unusable (%v); training a new one", err)
	return Train(settings, logs)
}

func load(settings config.Settings) (*Predictor, error) {
	sc, err := scaler.Load(settings.ScalerPath())
	if err != nil {
		return nil, err
	}
	if sc.Dim() != len(common.AminoAcids) {
		return nil, fmt.Errorf("%w: normalizer has %d dimensions", classifier.ErrArtifactShape, sc.Dim())
	}
	if _, err := os.Stat(settings.TrainingDataPath()); err == nil {
		if err := common.CheckArtifactFreshness(settings.TrainingDataPath(), settings.ScalerPath()); err != nil {
			return nil, err
		}
	}
	net, err := classifier.Load(settings.ModelPath(), classifier.DefaultArchitecture())
	if err != nil {
		return nil, err
	}
	return &Predictor{Net: net, Scaler: sc}, nil
}

// Train builds a predictor from scratch: it reuses the training data file
// when it is readable and generates a new one otherwise, fits the
// normalizer, trains the network and persists every artifact.
func Train(settings config.Settings, logs common.Logs) (*Predictor, error) {
	if logs.Info == nil {
		logs = common.DiscardLogs()
	}
	if err := os.MkdirAll(settings.ArtifactDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	rng := seq_generator.NewRand(settings.Seed)

	set, err := trainset.ReadCSV(settings.TrainingDataPath())
	if err != nil {
		logs.Info.Printf("generating %d training examples per class", settings.SamplesPerClass)
		set, err = trainset.Generate(rng, settings.SamplesPerClass, settings.SequenceLength)
		if err != nil {
			return nil, fmt.Errorf("generating training data: %w", err)
		}
		if err := trainset.WriteCSV(settings.TrainingDataPath(), set); err != nil {
			return nil, fmt.Errorf("saving training data: %w", err)
		}
	}

	sc, err := scaler.Fit(set.Vectors())
	if err != nil {
		return nil, fmt.Errorf("fitting normalizer: %w", err)
	}
	inputs, err := sc.TransformAll(set.Vectors())
	if err != nil {
		return nil, err
	}
	labels := make([]structclass.Class, len(set))
	for i, ex := range set {
		labels[i] = ex.Class
	}

	net, err := classifier.NewNetwork(classifier.DefaultArchitecture(), rng)
	if err != nil {
		return nil, err
	}
	opts := classifier.DefaultTrainOptions(rng)
	opts.Epochs = settings.Epochs
	opts.BatchSize = settings.BatchSize
	opts.LearningRate = settings.LearningRate
	opts.Progress = settings.Progress
	opts.Logs = logs

	logs.Info.Printf("training on %d examples for %d epochs", len(set), opts.Epochs)
	losses, err := net.Train(inputs, labels, opts)
	if err != nil {
		return nil, fmt.Errorf("training model: %w", err)
	}

	if err := sc.Save(settings.ScalerPath()); err != nil {
		return nil, fmt.Errorf("saving normalizer: %w", err)
	}
	if err := net.Save(settings.ModelPath()); err != nil {
		return nil, fmt.Errorf("saving model: %w", err)
	}
	if err := classifier.WriteLossCurveSVG(settings.LossCurvePath(), losses); err != nil {
		logs.Warn.Printf("could not write loss curve: %v", err)
	}
	logs.Info.Printf("final training loss %.4f", losses[len(losses)-1])

	return &Predictor{Net: net, Scaler: sc}, nil
}

// Invalidate removes every cached artifact in dir. Missing files are not an
// error, so repeated calls are harmless.
func Invalidate(dir string) error {
	s := config.Settings{ArtifactDir: dir}
	var errs []error
	for _, path := range []string{s.TrainingDataPath(), s.ScalerPath(), s.ModelPath(), s.LossCurvePath()} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PredictComposition classifies a raw (unscaled) composition vector.
func (p *Predictor) PredictComposition(composition []float64) (Prediction, error) {
	x, err := p.Scaler.Transform(composition)
	if err != nil {
		return Prediction{}, err
	}
	class, probs, err := p.Net.Predict(x)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{Class: class, Probabilities: probs}, nil
}

// PredictSequence validates seq and classifies its composition.
func (p *Predictor) PredictSequence(seq string) (Prediction, error) {
	clean, err := common.ValidateSequence(seq)
	if err != nil {
		return Prediction{}, err
	}
	if clean == "" {
		return Prediction{}, protparam.ErrEmptySequence
	}
	return p.PredictComposition(protparam.Composition(clean))
}
