package sanity_check

import (
	"flag"
	"fmt"
	"io"
	"os"

	"protein_predictor_go/config" // Version control file
	"protein_predictor_go/tools/classifier"
	"protein_predictor_go/tools/scaler"
	common "protein_predictor_go/utils"
)

// Run performs a simple sanity check to ensure Protein Predictor is
// running properly, printing the version number and the state of the
// cached model artifacts.
func Run(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	loadSettings := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Println("Error parsing flags:", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully running Protein Predictor! (%s)\n", config.Main_version)

	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading settings:", err)
		os.Exit(1)
	}
	if !Check(os.Stdout, settings) {
		fmt.Println("The model will be trained on the next analyze run.")
	}
}

// Check reports each artifact's status and returns whether the cached model
// can be used as is.
func Check(w io.Writer, s config.Settings) bool {
	fmt.Fprintf(w, "Artifact directory: %s\n", s.ArtifactDir)
	ok := true

	if _, err := os.Stat(s.TrainingDataPath()); err != nil {
		fmt.Fprintf(w, "\tTraining data:\tmissing\n")
	} else {
		fmt.Fprintf(w, "\tTraining data:\tpresent\n")
	}

	switch sc, err := scaler.Load(s.ScalerPath()); {
	case err != nil:
		fmt.Fprintf(w, "\tNormalizer:\tunusable (%v)\n", err)
		ok = false
	case sc.Dim() != len(common.AminoAcids):
		fmt.Fprintf(w, "\tNormalizer:\twrong dimension %d\n", sc.Dim())
		ok = false
	default:
		if _, err := os.Stat(s.TrainingDataPath()); err == nil {
			if err := common.CheckArtifactFreshness(s.TrainingDataPath(), s.ScalerPath()); err != nil {
				fmt.Fprintf(w, "\tNormalizer:\tstale\n")
				ok = false
				break
			}
		}
		fmt.Fprintf(w, "\tNormalizer:\tok\n")
	}

	if _, err := classifier.Load(s.ModelPath(), classifier.DefaultArchitecture()); err != nil {
		fmt.Fprintf(w, "\tModel:\t\tunusable (%v)\n", err)
		ok = false
	} else {
		fmt.Fprintf(w, "\tModel:\t\tok (format %d)\n", config.Model_format)
	}
	return ok
}
