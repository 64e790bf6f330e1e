// Common package contains commonly used functions that benefit multiple tools
// Exporting these functions from the Common package reduces redundant code
package common

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// AminoAcids lists the 20 standard residues in composition-vector order.
const AminoAcids = "ACDEFGHIKLMNPQRSTVWY"

// ErrInvalidSequence is returned for sequences containing non-standard residues.
var ErrInvalidSequence = errors.New("invalid amino acid sequence")

var standardResidue [256]bool

func init() {
	for i := 0; i < len(AminoAcids); i++ {
		standardResidue[AminoAcids[i]] = true
	}
}

// ValidateSequence trims whitespace, upper-cases the sequence and checks that
// only standard residues remain. The error lists every offending character.
func ValidateSequence(seq string) (string, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(seq))

	invalid := map[rune]bool{}
	for _, r := range cleaned {
		if r >= 256 || !standardResidue[r] {
			invalid[r] = true
		}
	}
	if len(invalid) > 0 {
		chars := make([]string, 0, len(invalid))
		for r := range invalid {
			chars = append(chars, fmt.Sprintf("%q", r))
		}
		sort.Strings(chars)
		return "", fmt.Errorf("%w: invalid characters found: %s", ErrInvalidSequence, strings.Join(chars, ", "))
	}
	return cleaned, nil
}

// IsValidSequence reports whether seq passes ValidateSequence.
func IsValidSequence(seq string) bool {
	_, err := ValidateSequence(seq)
	return err == nil
}

// Record is one sequence read from a FASTA file.
type Record struct {
	ID       string
	Sequence string
}

// OpenMaybeGzip opens a file and transparently decompresses it when it starts
// with the gzip magic bytes. Closing the returned ReadCloser closes the file.
func OpenMaybeGzip(file string) (io.ReadCloser, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	br := bufio.NewReader(f)
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1F && magic[1] == 0x8B {
		gr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open gzip reader: %w", err)
		}
		return &gzipFile{Reader: gr, file: f}, nil
	}
	return &plainFile{Reader: br, file: f}, nil
}

type plainFile struct {
	*bufio.Reader
	file *os.File
}

func (p *plainFile) Close() error { return p.file.Close() }

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	gerr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gerr
}

// ReadFasta parses every record of a (possibly gzipped) protein FASTA file.
// Sequences are validated; the first invalid record aborts the read.
func ReadFasta(file string) ([]Record, error) {
	rc, err := OpenMaybeGzip(file)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ParseFasta(rc)
}

// ParseFasta is ReadFasta over an already opened reader.
func ParseFasta(r io.Reader) ([]Record, error) {
	template := linear.NewSeq("", nil, alphabet.Protein)
	scanner := seqio.NewScanner(fasta.NewReader(r, template))

	var records []Record
	for scanner.Next() {
		s, ok := scanner.Seq().(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("unexpected sequence type %T", scanner.Seq())
		}

		raw := make([]byte, len(s.Seq))
		for i, l := range s.Seq {
			raw[i] = byte(l)
		}
		cleaned, err := ValidateSequence(string(raw))
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", s.Name(), err)
		}
		if cleaned == "" {
			continue
		}
		records = append(records, Record{ID: s.Name(), Sequence: cleaned})
	}
	if err := scanner.Error(); err != nil {
		return nil, fmt.Errorf("fasta parse error: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("no sequences found in FASTA input")
	}
	return records, nil
}

// Logs groups the INFO and WARN loggers handed to long-running components.
type Logs struct {
	Info *log.Logger
	Warn *log.Logger
}

// NewLogs writes both levels to w.
func NewLogs(w io.Writer) Logs {
	return Logs{
		Info: log.New(w, "INFO: ", log.Ldate|log.Ltime),
		Warn: log.New(w, "WARN: ", log.Ldate|log.Ltime),
	}
}

// DiscardLogs drops everything; used by tests and quiet tools.
func DiscardLogs() Logs { return NewLogs(io.Discard) }
