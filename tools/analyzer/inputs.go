package analyzer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	common "protein_predictor_go/utils"
)

// Inputs gathers sequences from the command line and an optional FASTA file,
// keeping at most limit records. Manual sequences come first; FASTA records
// beyond the cap are dropped with a note written to w.
func Inputs(w io.Writer, seqs []string, fastaFile string, limit int) ([]common.Record, error) {
	if len(seqs) > limit {
		return nil, fmt.Errorf("too many sequences: %d given, maximum is %d", len(seqs), limit)
	}
	var records []common.Record
	for _, s := range seqs {
		if strings.TrimSpace(s) == "" {
			fmt.Fprintln(w, "Skipping empty sequence.")
			continue
		}
		records = append(records, common.Record{ID: fmt.Sprintf("seq_%d", len(records)+1), Sequence: s})
	}
	if fastaFile == "" {
		return records, nil
	}
	if len(records) == limit {
		fmt.Fprintf(w, "Input limit of %d reached; ignoring %s\n", limit, fastaFile)
		return records, nil
	}

	parsed, err := common.ReadFasta(fastaFile)
	if err != nil {
		return nil, fmt.Errorf("reading FASTA file: %w", err)
	}
	return appendCapped(w, records, parsed, limit), nil
}

func appendCapped(w io.Writer, records, more []common.Record, limit int) []common.Record {
	room := limit - len(records)
	if len(more) > room {
		fmt.Fprintf(w, "Too many sequences. Only %d more allowed; using the first %d records.\n", room, room)
		more = more[:room]
	}
	return append(records, more...)
}

// Interactive prompts for up to limit sequences on r, one per line, until a
// blank line, then offers to read a FASTA file for the remaining slots.
func Interactive(r io.Reader, w io.Writer, limit int) ([]common.Record, error) {
	fmt.Fprintln(w, "Protein Properties Predictor - Interactive Mode")
	fmt.Fprintf(w, "Total input sequences (manual + FASTA) are limited to %d.\n", limit)
	fmt.Fprintln(w, "An internet connection is only needed for the BLASTp search.")

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	readLine := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	var records []common.Record
	for len(records) < limit {
		fmt.Fprintf(w, "\nEnter an amino acid sequence (%d/%d) or press Enter to provide a FASTA file: ", len(records)+1, limit)
		line, ok := readLine()
		if !ok || line == "" {
			break
		}
		records = append(records, common.Record{ID: fmt.Sprintf("seq_%d", len(records)+1), Sequence: line})
	}

	if len(records) < limit {
		fmt.Fprint(w, "Enter FASTA file path (or press Enter to skip): ")
		if path, ok := readLine(); ok && path != "" {
			parsed, err := common.ReadFasta(path)
			if err != nil {
				fmt.Fprintln(w, "Error reading FASTA file:", err)
			} else {
				records = appendCapped(w, records, parsed, limit)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return records, nil
}
