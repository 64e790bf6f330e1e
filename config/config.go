// Package config loads run settings for every tool.
//
// Settings come from built-in defaults, an optional config file (YAML, TOML or
// JSON, anything viper reads), PROTPRED_* environment variables and finally
// key=value overrides given on the command line, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings is the resolved configuration handed to the tools.
type Settings struct {
	ArtifactDir string

	SamplesPerClass int
	SequenceLength  int
	Epochs          int
	BatchSize       int
	LearningRate    float64
	Seed            uint64
	Progress        bool

	BlastURL          string
	BlastDatabase     string
	BlastHits         int
	BlastPollInterval time.Duration
	BlastTimeout      time.Duration

	ResultsFile string
	MaxInputs   int
}

// Artifact file names inside ArtifactDir
const (
	TrainingDataFile = "training_data.csv"
	ScalerFile       = "scaler.csv"
	ModelFile        = "protein_structure_model.bin"
	LossCurveFile    = "training_loss.svg"
)

func (s Settings) TrainingDataPath() string { return filepath.Join(s.ArtifactDir, TrainingDataFile) }
func (s Settings) ScalerPath() string       { return filepath.Join(s.ArtifactDir, ScalerFile) }
func (s Settings) ModelPath() string        { return filepath.Join(s.ArtifactDir, ModelFile) }
func (s Settings) LossCurvePath() string    { return filepath.Join(s.ArtifactDir, LossCurveFile) }

func setDefaults(v *viper.Viper) {
	v.SetDefault("artifacts.dir", ".")

	v.SetDefault("training.samples_per_class", 30)
	v.SetDefault("training.sequence_length", 30)
	v.SetDefault("training.epochs", 300)
	v.SetDefault("training.batch_size", 16)
	v.SetDefault("training.learning_rate", 0.0003)
	v.SetDefault("training.seed", 0) // 0 = seed from the clock
	v.SetDefault("training.progress", false)

	v.SetDefault("blast.url", "https://blast.ncbi.nlm.nih.gov/Blast.cgi")
	v.SetDefault("blast.database", "nr")
	v.SetDefault("blast.hits", 5)
	v.SetDefault("blast.poll_interval", "5s")
	v.SetDefault("blast.timeout", "10m")

	v.SetDefault("results.file", "results.txt")
	v.SetDefault("analyze.max_inputs", 5)
}

// Load resolves Settings. path may be empty, in which case only defaults,
// environment and overrides apply. Overrides use the key=value form.
func Load(path string, overrides []string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PROTPRED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	for key, val := range ParseArgs(overrides) {
		if val == "" {
			return Settings{}, fmt.Errorf("override %q has no value (expected key=value)", key)
		}
		v.Set(key, val)
	}

	s := Settings{
		ArtifactDir:       v.GetString("artifacts.dir"),
		SamplesPerClass:   v.GetInt("training.samples_per_class"),
		SequenceLength:    v.GetInt("training.sequence_length"),
		Epochs:            v.GetInt("training.epochs"),
		BatchSize:         v.GetInt("training.batch_size"),
		LearningRate:      v.GetFloat64("training.learning_rate"),
		Seed:              v.GetUint64("training.seed"),
		Progress:          v.GetBool("training.progress"),
		BlastURL:          v.GetString("blast.url"),
		BlastDatabase:     v.GetString("blast.database"),
		BlastHits:         v.GetInt("blast.hits"),
		BlastPollInterval: v.GetDuration("blast.poll_interval"),
		BlastTimeout:      v.GetDuration("blast.timeout"),
		ResultsFile:       v.GetString("results.file"),
		MaxInputs:         v.GetInt("analyze.max_inputs"),
	}
	return s, s.Validate()
}

// Validate rejects settings no tool can run with.
func (s Settings) Validate() error {
	var errs []error
	if s.SamplesPerClass <= 0 {
		errs = append(errs, errors.New("training.samples_per_class must be positive"))
	}
	if s.SequenceLength <= 0 {
		errs = append(errs, errors.New("training.sequence_length must be positive"))
	}
	if s.Epochs <= 0 {
		errs = append(errs, errors.New("training.epochs must be positive"))
	}
	if s.BatchSize <= 0 {
		errs = append(errs, errors.New("training.batch_size must be positive"))
	}
	if s.LearningRate <= 0 {
		errs = append(errs, errors.New("training.learning_rate must be positive"))
	}
	if s.BlastHits <= 0 {
		errs = append(errs, errors.New("blast.hits must be positive"))
	}
	if s.BlastPollInterval <= 0 {
		errs = append(errs, errors.New("blast.poll_interval must be positive"))
	}
	if s.BlastTimeout <= 0 {
		errs = append(errs, errors.New("blast.timeout must be positive"))
	}
	if s.MaxInputs <= 0 {
		errs = append(errs, errors.New("analyze.max_inputs must be positive"))
	}
	return errors.Join(errs...)
}

// ParseArgs splits key=value arguments into a map.
// A bare key maps to the empty string.
func ParseArgs(args []string) map[string]string {
	params := make(map[string]string)
	for _, arg := range args {
		kv := splitOption(arg)
		params[kv[0]] = kv[1]
	}
	return params
}

// splitOption breaks an argument at its first "=".
func splitOption(arg string) [2]string {
	var kv [2]string
	for i, ch := range arg {
		if ch == '=' {
			kv[0] = arg[:i]
			kv[1] = arg[i+1:]
			return kv
		}
	}
	kv[0] = arg
	kv[1] = ""
	return kv
}

// MultiFlag collects a repeatable string flag, e.g. -set a=b -set c=d.
type MultiFlag []string

func (m *MultiFlag) String() string { return strings.Join(*m, ",") }
func (m *MultiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}

// RegisterFlags adds -config and -set to a tool's flag set. The returned
// function loads Settings once the flags have been parsed.
func RegisterFlags(fs *flag.FlagSet) func() (Settings, error) {
	path := fs.String("config", "", "Settings file (YAML, TOML or JSON)")
	var sets MultiFlag
	fs.Var(&sets, "set", "Override a setting, e.g. -set training.epochs=100 (repeatable)")
	return func() (Settings, error) {
		return Load(*path, sets)
	}
}
