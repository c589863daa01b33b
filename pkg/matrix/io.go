package matrix

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/netplot/pkg/errors"
)

// ReadJSON decodes a JSON matrix from r and validates it.
//
// The input must be an object with "labels" and "values":
//
//	{"labels": ["A", "B"], "values": [[0, 2], [2, 0]]}
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Adjacency, error) {
	var m Adjacency
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode matrix JSON")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// WriteJSON encodes m as indented JSON to w.
func WriteJSON(m *Adjacency, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadCSV decodes a CSV matrix from r and validates it.
//
// The first record holds the column labels. When its first cell is empty the
// file is treated as carrying a leading label column (the layout written by
// R's write.csv and most spreadsheet exports); the row labels are then
// ignored in favour of the column labels, which identify vertices.
// Empty cells read as zero.
func ReadCSV(r io.Reader) (*Adjacency, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode matrix CSV")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "matrix CSV is empty")
	}

	header := records[0]
	rowLabels := len(header) > 0 && strings.TrimSpace(header[0]) == ""
	if rowLabels {
		header = header[1:]
	}

	labels := make([]string, len(header))
	for i, h := range header {
		labels[i] = strings.TrimSpace(h)
	}

	values := make([][]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		if rowLabels {
			if len(rec) == 0 {
				return nil, errors.New(errors.ErrCodeInvalidMatrix, "row %d is empty", i+1)
			}
			rec = rec[1:]
		}
		row := make([]float64, len(rec))
		for j, cell := range rec {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "cell (%d, %d)", i, j)
			}
			row[j] = v
		}
		values = append(values, row)
	}

	return New(labels, values)
}

// ReadFile reads a matrix from path, choosing the decoder by extension:
// ".json" for JSON, anything else for CSV.
func ReadFile(path string) (*Adjacency, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadJSON(f)
	}
	return ReadCSV(f)
}
