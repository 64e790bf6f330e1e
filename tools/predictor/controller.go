package predictor

import (
	"flag"
	"fmt"
	"os"

	"protein_predictor_go/config"
	common "protein_predictor_go/utils"
)

// RunTrain executes the train tool: discard any cached model and train a new
// one from the configured settings.
func RunTrain(args []string) {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	epochs := fs.Int("epochs", 0, "Training epochs (default from settings)")
	seed := fs.Uint64("seed", 0, "Random seed (default from settings, 0 = clock)")
	progress := fs.Bool("progress", false, "Show a progress bar")
	regenerate := fs.Bool("regenerate", false, "Also regenerate the training data")
	loadSettings := config.RegisterFlags(fs)

	err := fs.Parse(args) // Parse inputs
	if err != nil {
		fmt.Println("Error parsing flags:", err)
		os.Exit(1)
	}

	if len(fs.Args()) > 0 { // If unparsed arguments remain:
		fmt.Printf("Unrecognized arguments: %v\n", fs.Args()) // Flag the error and report it
		fmt.Println("Use -h to view valid flags.")
		os.Exit(1)
	}

	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading settings:", err)
		os.Exit(1)
	}
	if *epochs > 0 {
		settings.Epochs = *epochs
	}
	if *seed > 0 {
		settings.Seed = *seed
	}
	settings.Progress = settings.Progress || *progress

	if *regenerate {
		if err := os.Remove(settings.TrainingDataPath()); err != nil && !os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, "Error removing training data:", err)
			os.Exit(1)
		}
	}

	if _, err := Train(settings, common.NewLogs(os.Stdout)); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Printf("Model saved to %s\n", settings.ModelPath())
	fmt.Printf("Normalizer saved to %s\n", settings.ScalerPath())
	fmt.Printf("Training loss curve saved to %s\n", settings.LossCurvePath())
}

// RunInvalidate executes the invalidate tool.
func RunInvalidate(args []string) {
	fs := flag.NewFlagSet("invalidate", flag.ExitOnError)
	loadSettings := config.RegisterFlags(fs)

	err := fs.Parse(args) // Parse inputs
	if err != nil {
		fmt.Println("Error parsing flags:", err)
		os.Exit(1)
	}

	if len(fs.Args()) > 0 { // If unparsed arguments remain:
		fmt.Printf("Unrecognized arguments: %v\n", fs.Args()) // Flag the error and report it
		fmt.Println("Use -h to view valid flags.")
		os.Exit(1)
	}

	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading settings:", err)
		os.Exit(1)
	}
	if err := Invalidate(settings.ArtifactDir); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Printf("Cached artifacts removed from %s\n", settings.ArtifactDir)
}
