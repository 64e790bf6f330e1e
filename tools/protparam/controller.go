package protparam

import (
	"flag"
	"fmt"
	"io"
	"os"

	"protein_predictor_go/config"
	common "protein_predictor_go/utils"
)

// Run executes the features tool: physicochemical properties only, no model
// and no network access.
func Run(args []string) {
	fs := flag.NewFlagSet("features", flag.ExitOnError)
	var seqs config.MultiFlag
	fs.Var(&seqs, "seq", "Amino acid sequence (repeatable)")
	inFile := fs.String("in_file", "", "Protein FASTA file (plain or gzip)")

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

	var records []common.Record
	for i, s := range seqs {
		records = append(records, common.Record{ID: fmt.Sprintf("seq_%d", i+1), Sequence: s})
	}
	if *inFile != "" {
		parsed, err := common.ReadFasta(*inFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error reading FASTA file:", err)
			os.Exit(1)
		}
		records = append(records, parsed...)
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "Error: provide -seq or -in_file")
		fs.Usage()
		os.Exit(1)
	}

	if err := WriteFeatures(os.Stdout, ProtParam{}, records); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// WriteFeatures prints one feature block per record. A record that fails
// extraction stops the run with its ID in the error.
func WriteFeatures(w io.Writer, ex Extractor, records []common.Record) error {
	for _, rec := range records {
		f, err := ex.Extract(rec.Sequence)
		if err != nil {
			return fmt.Errorf("%s: %w", rec.ID, err)
		}
		fmt.Fprintf(w, ">%s (%d aa)\n%s\n", rec.ID, f.Length, f)
	}
	return nil
}
