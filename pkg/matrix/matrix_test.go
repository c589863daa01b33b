package matrix

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/netplot/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		values   [][]float64
		wantCode errors.Code
	}{
		{
			name:   "Valid",
			labels: []string{"a", "b"},
			values: [][]float64{{0, 1}, {1, 0}},
		},
		{
			name:   "Empty",
			labels: []string{},
			values: [][]float64{},
		},
		{
			name:     "NotSquare",
			labels:   []string{"a", "b"},
			values:   [][]float64{{0, 1, 2}, {1, 0, 2}},
			wantCode: errors.ErrCodeInvalidMatrix,
		},
		{
			name:     "MissingLabels",
			labels:   []string{"a"},
			values:   [][]float64{{0, 1}, {1, 0}},
			wantCode: errors.ErrCodeInvalidMatrix,
		},
		{
			name:     "EmptyLabel",
			labels:   []string{"a", ""},
			values:   [][]float64{{0, 1}, {1, 0}},
			wantCode: errors.ErrCodeInvalidLabel,
		},
		{
			name:     "Negative",
			labels:   []string{"a", "b"},
			values:   [][]float64{{0, -1}, {1, 0}},
			wantCode: errors.ErrCodeInvalidMatrix,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.labels, tt.values)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("New: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("New error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestIsSymmetric(t *testing.T) {
	sym := &Adjacency{Labels: []string{"a", "b"}, Values: [][]float64{{1, 2}, {2, 0}}}
	if !sym.IsSymmetric() {
		t.Error("IsSymmetric() = false, want true")
	}
	asym := &Adjacency{Labels: []string{"a", "b"}, Values: [][]float64{{0, 2}, {1, 0}}}
	if asym.IsSymmetric() {
		t.Error("IsSymmetric() = true, want false")
	}
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantLabels []string
		wantErr    bool
	}{
		{
			name:       "HeaderOnly",
			input:      "a,b\n0,1\n1,0\n",
			wantLabels: []string{"a", "b"},
		},
		{
			name:       "RowLabels",
			input:      ",a,b\na,0,3\nb,3,0\n",
			wantLabels: []string{"a", "b"},
		},
		{
			name:       "EmptyCells",
			input:      "a,b\n,1\n1,\n",
			wantLabels: []string{"a", "b"},
		},
		{
			name:    "NotANumber",
			input:   "a,b\n0,x\n1,0\n",
			wantErr: true,
		},
		{
			name:    "Ragged",
			input:   "a,b\n0,1\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ReadCSV(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadCSV: %v", err)
			}
			if strings.Join(m.Labels, ",") != strings.Join(tt.wantLabels, ",") {
				t.Errorf("labels = %v, want %v", m.Labels, tt.wantLabels)
			}
		})
	}
}

func TestReadCSVValues(t *testing.T) {
	m, err := ReadCSV(strings.NewReader(",a,b\na,0,3.5\nb,3.5,1\n"))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got := m.At(0, 1); got != 3.5 {
		t.Errorf("At(0, 1) = %v, want 3.5", got)
	}
	if got := m.At(1, 1); got != 1 {
		t.Errorf("At(1, 1) = %v, want 1", got)
	}
}

func TestReadJSON(t *testing.T) {
	m, err := ReadJSON(strings.NewReader(`{"labels": ["x", "y"], "values": [[0, 2], [2, 0]]}`))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if m.Size() != 2 {
		t.Errorf("Size() = %d, want 2", m.Size())
	}

	if _, err := ReadJSON(strings.NewReader(`{invalid json}`)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ReadJSON(invalid) error = %v, want INVALID_FORMAT", err)
	}
}

func TestWriteJSONReadJSON(t *testing.T) {
	m, err := New([]string{"p", "q"}, [][]float64{{0, 4}, {4, 0}})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(m, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.At(0, 1) != 4 || got.Labels[1] != "q" {
		t.Errorf("decoded matrix = %+v", got)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "m.csv")
	if err := os.WriteFile(csvPath, []byte("a,b\n0,1\n1,0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if m, err := ReadFile(csvPath); err != nil || m.Size() != 2 {
		t.Errorf("ReadFile(csv) = %v, %v", m, err)
	}

	jsonPath := filepath.Join(dir, "m.JSON")
	if err := os.WriteFile(jsonPath, []byte(`{"labels":["a"],"values":[[0]]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if m, err := ReadFile(jsonPath); err != nil || m.Size() != 1 {
		t.Errorf("ReadFile(json) = %v, %v", m, err)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.csv")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}
