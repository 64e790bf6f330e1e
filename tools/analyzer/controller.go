package analyzer

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"protein_predictor_go/config"
	"protein_predictor_go/tools/blastp"
	"protein_predictor_go/tools/predictor"
	"protein_predictor_go/tools/protparam"
	common "protein_predictor_go/utils"
)

// Run executes the analyze tool.
func Run(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	var seqs config.MultiFlag
	fs.Var(&seqs, "seq", "Amino acid sequence (repeatable)")
	inFile := fs.String("in_file", "", "Protein FASTA file (plain or gzip)")
	interactive := fs.Bool("interactive", false, "Prompt for sequences")
	htmlOut := fs.String("html", "", "Also write an HTML report to this file")
	noBlast := fs.Bool("no_blast", false, "Skip the BLASTp search")
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

	var records []common.Record
	if *interactive {
		records, err = Interactive(os.Stdin, os.Stdout, settings.MaxInputs)
	} else {
		records, err = Inputs(os.Stdout, seqs, *inFile, settings.MaxInputs)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Println("No input sequences provided. Exiting.")
		return
	}

	logs := common.NewLogs(os.Stderr)
	model, err := predictor.Init(settings, logs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error preparing model:", err)
		os.Exit(1)
	}

	a := &Analyzer{
		Extractor:    protparam.ProtParam{},
		Classifier:   model,
		BlastTimeout: settings.BlastTimeout,
		Logs:         logs,
	}
	if !*noBlast {
		a.Searcher = blastp.NewClient(settings, logs)
	}

	results := AnalyzeAll(context.Background(), os.Stdout, a, records, settings.ResultsFile)
	if *htmlOut != "" && len(results) > 0 {
		if err := WriteHTMLReport(*htmlOut, results); err != nil {
			fmt.Fprintln(os.Stderr, "Error writing HTML report:", err)
			os.Exit(1)
		}
		fmt.Printf("HTML report written to %s\n", *htmlOut)
	}
}

// AnalyzeAll analyses each record in turn, printing its report to w and
// appending it to resultsFile (skipped when empty). A record that cannot be
// analysed is reported and skipped.
func AnalyzeAll(ctx context.Context, w io.Writer, a *Analyzer, records []common.Record, resultsFile string) []Result {
	var results []Result
	for _, rec := range records {
		res, err := a.Analyze(ctx, rec)
		if err != nil {
			fmt.Fprintf(w, "Error processing sequence %s: %v\n", rec.ID, err)
			continue
		}
		report := Report(res)
		fmt.Fprintln(w, report)
		if resultsFile != "" {
			if err := AppendResults(resultsFile, report); err != nil {
				fmt.Fprintln(w, "Error:", err)
			} else {
				fmt.Fprintf(w, "Results saved to %s\n\n", resultsFile)
			}
		}
		results = append(results, res)
	}
	return results
}
