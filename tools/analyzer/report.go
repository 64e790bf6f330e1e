package analyzer

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"protein_predictor_go/tools/structclass"
)

const blastUnavailable = "Unable to retrieve BLASTp results (this may be due to an internet connectivity issue)."

// Report renders a result as the plain-text block that is printed and
// appended to the results file.
func Report(r Result) string {
	var b strings.Builder
	b.WriteString("\n*** Protein Properties Predictor Results ***\n\n")
	fmt.Fprintf(&b, "Sequence ID: %s\n", r.ID)
	fmt.Fprintf(&b, "Given Sequence: %s\n\n", r.Sequence)

	if r.Features != nil {
		b.WriteString("Extracted Features:\n")
		b.WriteString(r.Features.String())
	} else {
		b.WriteString("Physicochemical properties could not be extracted.\n")
	}

	b.WriteString("\nBLASTp Results:\n")
	switch {
	case errors.Is(r.BlastErr, ErrBlastSkipped):
		b.WriteString("Skipped.\n")
	case r.BlastErr != nil:
		b.WriteString(blastUnavailable + "\n")
	case len(r.Hits) == 0:
		b.WriteString("No hits.\n")
	default:
		for _, h := range r.Hits {
			fmt.Fprintf(&b, "%s\t%g\n", h.ID, h.Score)
		}
	}

	b.WriteString("\nDeep Learning Model Prediction:\n")
	fmt.Fprintf(&b, "%s\n", r.Prediction.Class)
	for i, p := range r.Prediction.Probabilities {
		fmt.Fprintf(&b, "  %-30s %.3f\n", structclass.Class(i), p)
	}

	if match, ok := r.Match(); ok {
		answer := "No"
		if match {
			answer = "Yes"
		}
		fmt.Fprintf(&b, "\nClassification Match: %s\n", answer)
	} else {
		b.WriteString("\nClassification Match cannot be computed because physicochemical properties were not extracted.\n")
	}
	return b.String()
}

// AppendResults adds a report to the results file, creating it if needed.
func AppendResults(filename, report string) error {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening results file: %w", err)
	}
	if _, err := f.WriteString(report + "\n\n"); err != nil {
		f.Close()
		return fmt.Errorf("writing results file: %w", err)
	}
	return f.Close()
}
