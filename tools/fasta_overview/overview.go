package fasta_overview

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"protein_predictor_go/tools/protparam"
	"protein_predictor_go/tools/structclass"
	common "protein_predictor_go/utils"
)

// SequenceSummary describes one usable record.
type SequenceSummary struct {
	ID              string
	Length          int
	MolecularWeight float64
	Class           structclass.Class
}

// ProteinReport summarises a protein FASTA file before analysis.
type ProteinReport struct {
	FileName         string
	TotalRecords     int
	DuplicateHeaders int
	EmptyHeaders     int
	EmptySequences   int
	FilteredByMotif  string
	SkippedSequences int

	InvalidRecords  []string     // IDs rejected by validation
	InvalidResidues map[rune]int // offending characters across all records

	Sequences   []SequenceSummary
	Composition []float64 // pooled over usable sequences, AminoAcids order
	ClassCounts [structclass.Count]int
	MeanLength  float64
	StdLength   float64
	MinLength   int
	MaxLength   int

	Warnings []string
}

// CheckFastaProtein reads every record of r. Records with non-standard
// residues are counted but do not stop the scan. When idMotif is set only
// headers containing it are considered.
func CheckFastaProtein(r io.Reader, fileName, idMotif string) ProteinReport {
	report := ProteinReport{
		FileName:        fileName,
		FilteredByMotif: idMotif,
		InvalidResidues: make(map[rune]int),
		Composition:     make([]float64, len(common.AminoAcids)),
	}

	seen := make(map[string]bool)
	var lengths []float64
	totalResidues := 0.0

	scanner := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.Protein)))
	for scanner.Next() {
		s := scanner.Seq().(*linear.Seq)
		header := s.Name()
		if s.Desc != "" {
			header += " " + s.Desc
		}
		if idMotif != "" && !strings.Contains(header, idMotif) {
			report.SkippedSequences++
			continue
		}
		report.TotalRecords++

		id := s.Name()
		switch {
		case id == "":
			report.EmptyHeaders++
		case seen[id]:
			report.DuplicateHeaders++
		}
		seen[id] = true

		raw := make([]byte, len(s.Seq))
		for i, l := range s.Seq {
			raw[i] = byte(l)
		}
		seq, err := common.ValidateSequence(string(raw))
		if err != nil {
			report.InvalidRecords = append(report.InvalidRecords, id)
			for _, c := range strings.ToUpper(string(raw)) {
				if !strings.ContainsRune(common.AminoAcids, c) {
					report.InvalidResidues[c]++
				}
			}
			continue
		}
		if seq == "" {
			report.EmptySequences++
			continue
		}

		helix, sheet, _ := protparam.SecondaryStructureFraction(seq)
		summary := SequenceSummary{
			ID:              id,
			Length:          len(seq),
			MolecularWeight: protparam.MolecularWeight(seq),
			Class:           structclass.Classify(helix, sheet),
		}
		report.Sequences = append(report.Sequences, summary)
		report.ClassCounts[summary.Class]++
		lengths = append(lengths, float64(len(seq)))

		comp := protparam.Composition(seq)
		floats.AddScaled(report.Composition, float64(len(seq)), comp)
		totalResidues += float64(len(seq))
	}
	if err := scanner.Error(); err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("parse error: %v", err))
	}

	if len(lengths) > 0 {
		floats.Scale(1/totalResidues, report.Composition)
		report.MeanLength, report.StdLength = stat.PopMeanStdDev(lengths, nil)
		report.MinLength = int(floats.Min(lengths))
		report.MaxLength = int(floats.Max(lengths))
	}
	return report
}

// PrintProteinReport writes the report in human-readable form.
func PrintProteinReport(w io.Writer, report ProteinReport) {
	fmt.Fprintf(w, "Protein FASTA Report: %s\n", report.FileName)
	fmt.Fprintln(w, strings.Repeat("-", 40))

	if report.FilteredByMotif != "" {
		fmt.Fprintf(w, "Motif filter applied: only analyzing headers containing \"%s\"\n", report.FilteredByMotif)
		fmt.Fprintf(w, "Sequences skipped due to filter: %d\n", report.SkippedSequences)
	}
	fmt.Fprintf(w, "Records: %d (usable %d)\n", report.TotalRecords, len(report.Sequences))
	if report.DuplicateHeaders > 0 {
		fmt.Fprintf(w, "Duplicate headers found: %d\n", report.DuplicateHeaders)
	}
	if report.EmptyHeaders > 0 {
		fmt.Fprintf(w, "Empty headers found: %d\n", report.EmptyHeaders)
	}
	if report.EmptySequences > 0 {
		fmt.Fprintf(w, "Records without sequence: %d\n", report.EmptySequences)
	}
	if len(report.InvalidRecords) > 0 {
		fmt.Fprintf(w, "Records with non-standard residues: %d (%s)\n",
			len(report.InvalidRecords), strings.Join(report.InvalidRecords, ", "))
		keys := make([]rune, 0, len(report.InvalidResidues))
		for r := range report.InvalidResidues {
			keys = append(keys, r)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, r := range keys {
			fmt.Fprintf(w, "  %q: %d\n", r, report.InvalidResidues[r])
		}
	}
	for _, warn := range report.Warnings {
		fmt.Fprintln(w, "Warning:", warn)
	}

	if len(report.Sequences) == 0 {
		return
	}

	fmt.Fprintf(w, "\nLength: mean %.1f, sd %.1f, min %d, max %d\n",
		report.MeanLength, report.StdLength, report.MinLength, report.MaxLength)

	fmt.Fprintf(w, "\nPer-sequence summary:\n")
	for _, s := range report.Sequences {
		fmt.Fprintf(w, "  %s: %d aa\t%.2f Da\t%s\n", s.ID, s.Length, s.MolecularWeight, s.Class)
	}

	fmt.Fprintln(w, "\nRule-based classes:")
	for _, c := range structclass.All() {
		fmt.Fprintf(w, "  %-30s %d\n", c, report.ClassCounts[c])
	}

	fmt.Fprintln(w, "\nAmino acid composition:")
	for i, aa := range common.AminoAcids {
		fmt.Fprintf(w, "  %c: %.2f%%\n", aa, report.Composition[i]*100)
	}
}
