package seq_generator

import "strings"

// WrapFasta splits seq into lines of at most width residues. A width of zero
// or less keeps the sequence on one line.
func WrapFasta(seq string, width int) string {
	if width <= 0 {
		return seq + "\n"
	}
	var out strings.Builder
	for i := 0; i < len(seq); i += width {
		end := min(i+width, len(seq))
		out.WriteString(seq[i:end])
		out.WriteByte('\n')
	}
	return out.String()
}
