package analyzer

import (
	"fmt"
	"html"
	"os"
	"strings"
)

// WriteHTMLReport writes one section per result, each with its feature
// table, BLASTp hits and a probability chart.
func WriteHTMLReport(filename string, results []Result) error {
	var body strings.Builder
	for _, r := range results {
		section, err := htmlSection(r)
		if err != nil {
			return fmt.Errorf("%s: %w", r.ID, err)
		}
		body.WriteString(section)
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<title>Protein Properties Predictor Report</title>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; padding: 20px; background-color: #f9f9f9; }
		h1 { color: #333; }
		.sequence { font-family: monospace; word-break: break-all; }
		table { border-collapse: collapse; margin-top: 10px; }
		th, td { padding: 6px 12px; border: 1px solid #ccc; text-align: left; }
		th { background-color: #eee; }
	</style>
</head>
<body>
	<h1>Protein Properties Predictor Report</h1>
%s</body>
</html>
`, body.String())

	return os.WriteFile(filename, []byte(page), 0644)
}

func htmlSection(r Result) (string, error) {
	svg, err := ProbabilityBarSVG(r.Prediction.Probabilities)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\t<h2>%s</h2>\n", html.EscapeString(r.ID))
	fmt.Fprintf(&b, "\t<p class=\"sequence\">%s</p>\n", r.Sequence)

	if f := r.Features; f != nil {
		b.WriteString("\t<table>\n\t\t<tr><th>Property</th><th>Value</th></tr>\n")
		rows := []struct {
			name  string
			value string
		}{
			{"Length", fmt.Sprintf("%d", f.Length)},
			{"Molecular Weight", fmt.Sprintf("%.2f", f.MolecularWeight)},
			{"Hydrophobicity (GRAVY)", fmt.Sprintf("%.3f", f.Hydrophobicity)},
			{"Isoelectric Point", fmt.Sprintf("%.2f", f.IsoelectricPoint)},
			{"Aromaticity", fmt.Sprintf("%.3f", f.Aromaticity)},
			{"Instability Index", fmt.Sprintf("%.3f", f.InstabilityIndex)},
			{"Charge at pH 7", fmt.Sprintf("%.3f", f.ChargeAtPH7)},
			{"Helix Fraction", fmt.Sprintf("%.3f", f.HelixFraction)},
			{"Sheet Fraction", fmt.Sprintf("%.3f", f.SheetFraction)},
			{"Coil Fraction", fmt.Sprintf("%.3f", f.CoilFraction)},
			{"Structural Classification", f.StructureClass().String()},
		}
		for _, row := range rows {
			fmt.Fprintf(&b, "\t\t<tr><td>%s</td><td>%s</td></tr>\n", row.name, row.value)
		}
		b.WriteString("\t</table>\n")
	} else {
		b.WriteString("\t<p>Physicochemical properties could not be extracted.</p>\n")
	}

	b.WriteString("\t<h3>BLASTp</h3>\n")
	if r.BlastErr != nil || len(r.Hits) == 0 {
		msg := "No hits."
		if r.BlastErr != nil {
			msg = r.BlastErr.Error()
		}
		fmt.Fprintf(&b, "\t<p>%s</p>\n", html.EscapeString(msg))
	} else {
		b.WriteString("\t<table>\n\t\t<tr><th>Hit</th><th>Score</th></tr>\n")
		for _, h := range r.Hits {
			fmt.Fprintf(&b, "\t\t<tr><td>%s</td><td>%g</td></tr>\n", html.EscapeString(h.ID), h.Score)
		}
		b.WriteString("\t</table>\n")
	}

	fmt.Fprintf(&b, "\t<h3>Model Prediction: %s</h3>\n", r.Prediction.Class)
	if match, ok := r.Match(); ok {
		fmt.Fprintf(&b, "\t<p>Classification match: %t</p>\n", match)
	}
	fmt.Fprintf(&b, "\t<div>%s</div>\n", svg)
	return b.String(), nil
}
