package classifier

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WriteLossCurveSVG plots the per-epoch training loss to an SVG file.
func WriteLossCurveSVG(filename string, losses []float64) error {
	if len(losses) == 0 {
		return fmt.Errorf("no losses to plot")
	}

	p := plot.New()
	p.Title.Text = "Training Loss"
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = "Cross-entropy"

	points := make(plotter.XYs, len(losses))
	for i, l := range losses {
		points[i].X = float64(i + 1)
		points[i].Y = l
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	line.LineStyle.Color = color.RGBA{R: 50, G: 100, B: 200, A: 255}
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)
	p.Add(plotter.NewGrid())

	writer, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, "svg")
	if err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating loss curve: %w", err)
	}
	if _, err := writer.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing loss curve: %w", err)
	}
	return f.Close()
}
