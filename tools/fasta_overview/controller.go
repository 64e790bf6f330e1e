package fasta_overview

import (
	"flag"
	"fmt"
	"os"

	common "protein_predictor_go/utils"
)

// Run executes the fasta_overview tool: a quick look at a protein FASTA file
// before it is analysed.
func Run(args []string) {
	fs := flag.NewFlagSet("fasta_overview", flag.ExitOnError)
	inFile := fs.String("in_file", "", "Input protein FASTA file (plain or gzip)")
	idMotif := fs.String("id_motif", "", "Only analyze sequences whose headers contain this substring")
	err := fs.Parse(args) // Parse inputs
	if err != nil {
		fmt.Println("Error parsing flags:", err) // Check for outright input failures
		os.Exit(1)
	}

	if len(fs.Args()) > 0 { // If unparsed arguments remain:
		fmt.Printf("Unrecognized arguments: %v\n", fs.Args()) // Flag the error and report it
		fmt.Println("Use -h to view valid flags.")
		os.Exit(1)
	}

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -in_file is required")
		fs.Usage()
		os.Exit(1)
	}

	reader, err := common.OpenMaybeGzip(*inFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to open file:", err)
		os.Exit(1)
	}
	defer reader.Close()

	report := CheckFastaProtein(reader, *inFile, *idMotif)
	PrintProteinReport(os.Stdout, report)
}
