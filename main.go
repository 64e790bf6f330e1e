package main

import (
	"fmt"
	"os"
	"strings"

	"protein_predictor_go/benchmark"
	"protein_predictor_go/config"
	"protein_predictor_go/tools/analyzer"
	"protein_predictor_go/tools/blastp"
	"protein_predictor_go/tools/fasta_overview"
	"protein_predictor_go/tools/predictor"
	"protein_predictor_go/tools/protparam"
	"protein_predictor_go/tools/sanity_check"
	"protein_predictor_go/tools/seq_generator"
)

// printCustomHelp formats a custom help menu
func printCustomHelp() {
	fmt.Println(`Protein Predictor - Custom Help Menu
Usage:
  protein_predictor <tool> [options]

Tools:
  analyze		Features, BLASTp search and structure prediction
  features		Physicochemical properties only
  train			Train the structure classifier and cache it
  invalidate		Delete the cached model, normalizer and training data
  seq_generator		Generate random or class-biased protein sequences
  blastp		BLASTp similarity search only
  fasta_overview	Summary statistics of a protein FASTA file
  check			Run diagnostic test and report artifact status

Global Flags:
  -h, -help		Show this help message
  -v, -version		Show version information

Settings (accepted by analyze, train, invalidate, blastp, check):
  -config <file>	YAML, TOML or JSON settings file
  -set key=value	Override one setting (repeatable)
			Environment variables PROTPRED_<KEY> also apply,
			e.g. PROTPRED_TRAINING_EPOCHS=100

Benchmarking:
  -benchmark		Must be used in association with a tool.
			Displays computational resource usage and
			pertinent operating system information
  `,
	)
	os.Exit(0)
}

func printVersion() {
	fmt.Println("Protein Predictor - Version Information Menu")
	fmt.Println("Central Executable:")
	fmt.Printf("\tProtein Predictor:\t%s\n", config.Main_version)
	fmt.Printf("\nModular tools:\n")
	fmt.Printf("\tAnalyze:\t\t%s\n", config.Analyze)
	fmt.Printf("\tFeatures:\t\t%s\n", config.Features)
	fmt.Printf("\tTrain:\t\t\t%s\n", config.Train)
	fmt.Printf("\tInvalidate:\t\t%s\n", config.Invalidate)
	fmt.Printf("\tSequence Generator:\t%s\n", config.Seq_Generator)
	fmt.Printf("\tBLASTp:\t\t\t%s\n", config.BLASTp)
	fmt.Printf("\tFASTA Overview:\t\t%s\n", config.FASTA_Overview)
	fmt.Printf("\tSanity Check:\t\t%s\n", config.Sanity_check)
	fmt.Printf("\tBenchmark:\t\t%s\n", config.Benchmark)
	fmt.Printf("\tModel format:\t\t%d\n", config.Model_format)

	fmt.Println("")

	os.Exit(0)
}

// Main controller
func main() {

	// If no arguments are given, show help
	if len(os.Args) < 2 {
		printCustomHelp()
	}

	// Scan for executable-specific help flags
	if len(os.Args) < 3 {
		if arg := os.Args[1]; arg == "-h" || arg == "-help" {
			printCustomHelp()
		}
	}

	// Version request
	for _, arg := range os.Args[1:] {
		if arg == "-v" || arg == "-version" {
			printVersion()
		}
	}

	toolName := os.Args[1]
	toolArgs := os.Args[2:]

	// Check for global -benchmark flag
	benchmarking := false
	var cleanedArgs []string
	for _, arg := range toolArgs {
		if arg == "-benchmark" {
			benchmarking = true
		} else {
			cleanedArgs = append(cleanedArgs, arg)
		}
	}

	// Tool execution wrapper
	run := func() {
		switch toolName {
		case "analyze":
			analyzer.Run(cleanedArgs)
		case "features":
			protparam.Run(cleanedArgs)
		case "train":
			predictor.RunTrain(cleanedArgs)
		case "invalidate":
			predictor.RunInvalidate(cleanedArgs)
		case "seq_generator":
			seq_generator.Run(cleanedArgs)
		case "blastp":
			blastp.Run(cleanedArgs)
		case "fasta_overview":
			fasta_overview.Run(cleanedArgs)
		case "check":
			sanity_check.Run(cleanedArgs)
		default:
			fmt.Printf("Unknown tool: %s\n", toolName)
			os.Exit(1)
		}
	}

	if benchmarking {
		label := fmt.Sprintf("protein_predictor %s %s", toolName, strings.Join(cleanedArgs, " "))
		benchmark.Run(os.Stdout, label, run)
	} else {
		run()
	}
}
