package seq_generator

import (
	"compress/gzip"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"
)

// For repeated -seq arguments
type SequenceRequest struct {
	ID     string
	Length int
	Class  string // empty = uniform residues
}

type MultiSeqFlag []SequenceRequest

func (m *MultiSeqFlag) String() string { return fmt.Sprint(*m) }
func (m *MultiSeqFlag) Set(value string) error {
	parts := strings.Split(value, ",")
	if len(parts) < 2 {
		return fmt.Errorf("expected format: name,length[,class]")
	}
	length, err := strconv.Atoi(parts[1])
	if err != nil || length <= 0 {
		return fmt.Errorf("invalid length")
	}
	req := SequenceRequest{ID: parts[0], Length: length}
	if len(parts) == 3 {
		if _, err := ParseClassFlag(parts[2]); err != nil {
			return fmt.Errorf("invalid class: %w", err)
		}
		req.Class = parts[2]
	}
	*m = append(*m, req)
	return nil
}

// NewRand seeds a generator; seed 0 uses the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// MakeSequence builds one sequence, class-biased when class is non-empty.
func MakeSequence(rng *rand.Rand, length int, class string, startMet bool) (string, error) {
	weights := UniformWeights()
	if class != "" {
		c, err := ParseClassFlag(class)
		if err != nil {
			return "", err
		}
		weights, err = SampleClassWeights(rng, c)
		if err != nil {
			return "", err
		}
	}
	if !startMet {
		return GenerateProtein(rng, length, weights), nil
	}
	if length < 2 {
		return "M", nil
	}
	return "M" + GenerateProtein(rng, length-1, weights), nil
}

func Run(args []string) {
	fs := flag.NewFlagSet("seq_generator", flag.ExitOnError)

	name := fs.String("name", "random_protein", "Sequence name")
	length := fs.Int("length", 100, "Sequence length")
	class := fs.String("class", "", "Bias residues toward a structural class: helix, sheet, a/b, a+b, coil")
	seed := fs.Uint64("seed", 0, "Random seed")
	startMet := fs.Bool("met", true, "Start every sequence with methionine")
	outFile := fs.String("out_file", "", "Output FASTA file")
	gzipOut := fs.Bool("gzip", false, "Compress output with gzip")

	var multiSeq MultiSeqFlag
	fs.Var(&multiSeq, "seq", "Use format name,length[,class] (repeatable)")

	err := fs.Parse(args) // Parse inputs
	if err != nil {
		fmt.Println("Error parsing flags:", err) // Check for outright input failures
		os.Exit(1)                               // E.g., expected int by recieved str
	}

	if len(fs.Args()) > 0 { // If unparsed arguments remain:
		fmt.Printf("Unrecognized arguments: %v\n", fs.Args()) // Flag the error and report it
		fmt.Println("Use -h to view valid flags.")
		os.Exit(1)
	}

	if *class != "" {
		if _, err := ParseClassFlag(*class); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}

	rng := NewRand(*seed)

	if len(multiSeq) == 0 {
		multiSeq = MultiSeqFlag{{ID: *name, Length: *length, Class: *class}}
	}

	var fastaOut strings.Builder
	for _, req := range multiSeq {
		seq, err := MakeSequence(rng, req.Length, req.Class, *startMet)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		fmt.Fprintf(&fastaOut, ">%s\n%s", req.ID, WrapFasta(seq, 60))
	}

	output := fastaOut.String()
	if *outFile == "" {
		if *gzipOut {
			fmt.Fprintln(os.Stderr, "Cannot gzip to stdout. Specify -out_file.")
			os.Exit(1)
		}
		fmt.Print(output)
		return
	}

	path := *outFile
	if *gzipOut {
		path += ".gz"
		if err := writeGzip(path, output); err != nil {
			fmt.Println("Error writing compressed data:", err)
			os.Exit(1)
		}
	} else {
		err := os.WriteFile(path, []byte(output), 0644)
		if err != nil {
			fmt.Println("Error writing file:", err)
			os.Exit(1)
		}
	}
	fmt.Printf("Wrote sequence to %s\n", path)
}

func writeGzip(path, content string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	gz := gzip.NewWriter(file)
	if _, err := gz.Write([]byte(content)); err != nil {
		return err
	}
	return gz.Close()
}
