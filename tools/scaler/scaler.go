// Package scaler standardises composition vectors with per-dimension
// statistics that are fitted once on the training set and then frozen.
package scaler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/stat"

	common "protein_predictor_go/utils"
)

// Standard deviations at or below this are treated as zero variance.
const minStd = 1e-12

// Scaler holds per-dimension mean and population standard deviation.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// Fit computes statistics over vectors, which must all have the same length.
func Fit(vectors [][]float64) (*Scaler, error) {
	if len(vectors) == 0 {
		return nil, errors.New("cannot fit scaler on zero vectors")
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has %d dimensions, want %d", i, len(v), dim)
		}
	}

	s := &Scaler{Mean: make([]float64, dim), Std: make([]float64, dim)}
	column := make([]float64, len(vectors))
	for j := 0; j < dim; j++ {
		for i, v := range vectors {
			column[i] = v[j]
		}
		s.Mean[j], s.Std[j] = stat.PopMeanStdDev(column, nil)
	}
	return s, nil
}

// Dim is the vector length the scaler was fitted on.
func (s *Scaler) Dim() int { return len(s.Mean) }

// Transform returns (v - mean) / std. Zero-variance dimensions are only
// centred, never divided.
func (s *Scaler) Transform(v []float64) ([]float64, error) {
	if len(v) != s.Dim() {
		return nil, fmt.Errorf("vector has %d dimensions, scaler expects %d", len(v), s.Dim())
	}
	out := make([]float64, len(v))
	for j, x := range v {
		out[j] = x - s.Mean[j]
		if s.Std[j] > minStd {
			out[j] /= s.Std[j]
		}
	}
	return out, nil
}

// TransformAll applies Transform to every vector.
func (s *Scaler) TransformAll(vectors [][]float64) ([][]float64, error) {
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		t, err := s.Transform(v)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}

// Save writes the statistics as residue,mean,std rows.
func (s *Scaler) Save(filename string) error {
	if s.Dim() != len(common.AminoAcids) {
		return fmt.Errorf("scaler has %d dimensions, want %d", s.Dim(), len(common.AminoAcids))
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	writer := csv.NewWriter(f)
	writer.Write([]string{"residue", "mean", "std"})
	for j := 0; j < s.Dim(); j++ {
		writer.Write([]string{
			string(common.AminoAcids[j]),
			strconv.FormatFloat(s.Mean[j], 'g', -1, 64),
			strconv.FormatFloat(s.Std[j], 'g', -1, 64),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads statistics written by Save. It never refits.
func Load(filename string) (*Scaler, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f)
}

func read(r io.Reader) (*Scaler, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read scaler: %w", err)
	}
	if len(rows) != len(common.AminoAcids)+1 {
		return nil, fmt.Errorf("scaler has %d rows, want %d", len(rows)-1, len(common.AminoAcids))
	}

	s := &Scaler{Mean: make([]float64, len(common.AminoAcids)), Std: make([]float64, len(common.AminoAcids))}
	for j, row := range rows[1:] {
		if row[0] != string(common.AminoAcids[j]) {
			return nil, fmt.Errorf("scaler row %d is residue %q, want %q", j+1, row[0], string(common.AminoAcids[j]))
		}
		if s.Mean[j], err = strconv.ParseFloat(row[1], 64); err != nil {
			return nil, fmt.Errorf("scaler mean for %s: %w", row[0], err)
		}
		if s.Std[j], err = strconv.ParseFloat(row[2], 64); err != nil {
			return nil, fmt.Errorf("scaler std for %s: %w", row[0], err)
		}
		if s.Std[j] < 0 {
			return nil, fmt.Errorf("scaler std for %s is negative", row[0])
		}
	}
	return s, nil
}
