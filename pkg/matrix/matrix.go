package matrix

import (
	"math"

	"github.com/matzehuels/netplot/pkg/errors"
)

// Adjacency is a square, labelled numeric matrix.
// Values[i][j] is the association between Labels[i] and Labels[j].
//
// An Adjacency is treated as immutable once built; the network builder never
// modifies it.
type Adjacency struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
}

// New creates an Adjacency from labels and row-major values and validates it.
func New(labels []string, values [][]float64) (*Adjacency, error) {
	m := &Adjacency{Labels: labels, Values: values}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Size returns the number of rows (and columns).
func (m *Adjacency) Size() int { return len(m.Labels) }

// At returns the cell value at row i, column j.
func (m *Adjacency) At(i, j int) float64 { return m.Values[i][j] }

// Validate checks that the matrix is square, fully labelled and contains only
// finite, non-negative values. Every failure is an INVALID_MATRIX error
// (INVALID_LABEL for malformed labels).
func (m *Adjacency) Validate() error {
	if m == nil {
		return errors.New(errors.ErrCodeInvalidMatrix, "matrix is nil")
	}
	n := len(m.Values)
	if len(m.Labels) != n {
		return errors.New(errors.ErrCodeInvalidMatrix, "%d labels for %d rows", len(m.Labels), n)
	}
	for i, row := range m.Values {
		if len(row) != n {
			return errors.New(errors.ErrCodeInvalidMatrix, "row %d has %d columns, want %d (matrix must be square)", i, len(row), n)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.New(errors.ErrCodeInvalidMatrix, "cell (%d, %d) is not finite", i, j)
			}
			if v < 0 {
				return errors.New(errors.ErrCodeInvalidMatrix, "cell (%d, %d) is negative: %g", i, j, v)
			}
		}
	}
	for _, l := range m.Labels {
		if err := errors.ValidateLabel(l); err != nil {
			return err
		}
	}
	return nil
}

// IsSymmetric reports whether Values[i][j] == Values[j][i] for all i, j.
func (m *Adjacency) IsSymmetric() bool {
	for i := range m.Values {
		for j := i + 1; j < len(m.Values); j++ {
			if m.Values[i][j] != m.Values[j][i] {
				return false
			}
		}
	}
	return true
}
