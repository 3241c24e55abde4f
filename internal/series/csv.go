package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads a series from a CSV file with a time column and a cumulative
// count column, plus any number of auxiliary columns. A header row is
// detected by its non-numeric first cell and used for auxiliary series names;
// auxiliary columns whose header contains "effort" are treated as continuous,
// all others as counts.
func LoadCSV(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses series data from r in the same format as LoadCSV.
func ReadCSV(r io.Reader) (*Series, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}

	var header []string
	if _, err := strconv.ParseFloat(strings.TrimSpace(records[0][0]), 64); err != nil {
		header = records[0]
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset has a header but no observations")
	}

	cols := len(records[0])
	if cols < 2 {
		return nil, fmt.Errorf("dataset needs at least time and count columns, got %d", cols)
	}

	s := &Series{}
	for c := 2; c < cols; c++ {
		aux := Aux{Name: fmt.Sprintf("aux%d", c-1), Kind: AuxCounts}
		if header != nil && c < len(header) {
			aux.Name = strings.TrimSpace(header[c])
		}
		if strings.Contains(strings.ToLower(aux.Name), "effort") {
			aux.Kind = AuxContinuous
		}
		s.Aux = append(s.Aux, aux)
	}

	for i, rec := range records {
		if len(rec) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i+1, len(rec), cols)
		}
		vals := make([]float64, cols)
		for c, cell := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i+1, c+1, err)
			}
			vals[c] = v
		}
		s.T = append(s.T, vals[0])
		s.Y = append(s.Y, vals[1])
		for c := 2; c < cols; c++ {
			s.Aux[c-2].Y = append(s.Aux[c-2].Y, vals[c])
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
