package analyzer

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"protein_predictor_go/tools/structclass"
)

// Axis labels for the five classes, in class order.
var shortLabels = [structclass.Count]string{"α-helical", "β-sheet", "α/β", "α+β", "Coil"}

// ProbabilityBarSVG draws the class distribution as an SVG bar chart.
func ProbabilityBarSVG(probs []float64) (string, error) {
	if len(probs) != structclass.Count {
		return "", fmt.Errorf("got %d probabilities, want %d", len(probs), structclass.Count)
	}

	p := plot.New()
	p.Title.Text = "Predicted Class Probabilities"
	p.Y.Label.Text = "Probability"
	p.Y.Min = 0
	p.Y.Max = 1

	bars, err := plotter.NewBarChart(plotter.Values(probs), vg.Points(40))
	if err != nil {
		return "", err
	}
	bars.Color = color.RGBA{R: 50, G: 100, B: 200, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(shortLabels[:]...)

	var buf bytes.Buffer
	writer, err := p.WriterTo(6*vg.Inch, 3.5*vg.Inch, "svg")
	if err != nil {
		return "", err
	}
	if _, err := writer.WriteTo(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
