package blastp

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"protein_predictor_go/config"
	common "protein_predictor_go/utils"
)

// Run executes the blastp tool: similarity search only.
func Run(args []string) {
	fs := flag.NewFlagSet("blastp", flag.ExitOnError)
	seq := fs.String("seq", "", "Amino acid sequence")
	inFile := fs.String("in_file", "", "Protein FASTA file; only the first record is searched")
	hits := fs.Int("hits", 0, "Number of hits to report (default from settings)")
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
	if *hits > 0 {
		settings.BlastHits = *hits
	}

	query := *seq
	if *inFile != "" {
		records, err := common.ReadFasta(*inFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error reading FASTA file:", err)
			os.Exit(1)
		}
		query = records[0].Sequence
	}
	query, err = common.ValidateSequence(query)
	if err == nil && query == "" {
		err = fmt.Errorf("provide -seq or -in_file")
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), settings.BlastTimeout)
	defer cancel()

	client := NewClient(settings, common.NewLogs(os.Stderr))
	if err := WriteHits(ctx, os.Stdout, client, query); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// WriteHits runs one search and prints a line per hit.
func WriteHits(ctx context.Context, w io.Writer, s Searcher, seq string) error {
	hits, err := s.Search(ctx, seq)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Fprintln(w, "No BLASTp hits found.")
		return nil
	}
	fmt.Fprintf(w, "Top %d BLASTp hits:\n", len(hits))
	for i, h := range hits {
		fmt.Fprintf(w, "%d\t%s\t%g\n", i+1, h.ID, h.Score)
	}
	return nil
}
