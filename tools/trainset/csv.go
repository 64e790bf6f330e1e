package trainset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"protein_predictor_go/tools/structclass"
	common "protein_predictor_go/utils"
)

const classColumn = "Structure_Class"

func header() []string {
	h := make([]string, 0, len(common.AminoAcids)+1)
	for i := 0; i < len(common.AminoAcids); i++ {
		h = append(h, string(common.AminoAcids[i]))
	}
	return append(h, classColumn)
}

// WriteCSV stores the set with one column per residue plus the class label.
func WriteCSV(filename string, s Set) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := writeCSV(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(w io.Writer, s Set) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header()); err != nil {
		return err
	}
	for _, ex := range s {
		if len(ex.Composition) != len(common.AminoAcids) {
			return fmt.Errorf("example has %d composition entries, want %d", len(ex.Composition), len(common.AminoAcids))
		}
		row := make([]string, 0, len(ex.Composition)+1)
		for _, v := range ex.Composition {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		row = append(row, ex.Class.String())
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadCSV loads a set written by WriteCSV.
func ReadCSV(filename string) (Set, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) (Set, error) {
	reader := csv.NewReader(r)
	want := header()
	reader.FieldsPerRecord = len(want)

	got, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read training data header: %w", err)
	}
	for i := range want {
		if got[i] != want[i] {
			return nil, fmt.Errorf("unexpected training data column %d: %q, want %q", i+1, got[i], want[i])
		}
	}

	var s Set
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("training data line %d: %w", line, err)
		}
		comp := make([]float64, len(common.AminoAcids))
		for i := range comp {
			comp[i], err = strconv.ParseFloat(row[i], 64)
			if err != nil {
				return nil, fmt.Errorf("training data line %d column %s: %w", line, want[i], err)
			}
		}
		class, err := structclass.Parse(row[len(row)-1])
		if err != nil {
			return nil, fmt.Errorf("training data line %d: %w", line, err)
		}
		s = append(s, Example{Composition: comp, Class: class})
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("training data has no examples")
	}
	return s, nil
}
