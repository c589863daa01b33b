package network

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/netplot/pkg/errors"
	"github.com/matzehuels/netplot/pkg/matrix"
)

// DefaultWeightAttr is the attribute name used by [WeightBool].
const DefaultWeightAttr = "weight"

// Weighting selects how matrix cells become edges.
// The zero value is [WeightNone].
type Weighting struct {
	// Attr names the edge attribute holding cell values.
	// Empty means unweighted: cell values are edge multiplicities.
	Attr string
}

// WeightNone builds an unweighted multigraph.
var WeightNone = Weighting{}

// WeightBool builds a weighted graph with the default "weight" attribute.
var WeightBool = Weighting{Attr: DefaultWeightAttr}

// WeightNamed builds a weighted graph whose weights are stored under name.
func WeightNamed(name string) Weighting { return Weighting{Attr: name} }

// Enabled reports whether the weighting produces a weighted graph.
func (w Weighting) Enabled() bool { return w.Attr != "" }

// String returns "none", "true" or the attribute name.
func (w Weighting) String() string {
	switch w.Attr {
	case "":
		return "none"
	case DefaultWeightAttr:
		return "true"
	default:
		return w.Attr
	}
}

// ParseWeighting parses the textual form of a weighting option.
//
//	"", "none", "false"  → WeightNone
//	"true"               → WeightBool
//	anything else        → WeightNamed(s), validated as an attribute name
func ParseWeighting(s string) (Weighting, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "null":
		return WeightNone, nil
	}
	if b, err := strconv.ParseBool(s); err == nil {
		if b {
			return WeightBool, nil
		}
		return WeightNone, nil
	}
	if err := errors.ValidateAttributeName(s); err != nil {
		return WeightNone, err
	}
	return WeightNamed(s), nil
}

// FromMatrix builds an undirected graph from a square adjacency matrix.
//
// Vertex i takes its ID from the column position and its label from
// m.Labels[i]. For each unordered pair i < j the cell value is
// max(M[i][j], M[j][i]); the diagonal M[i][i] is a self-loop value. Zero
// cells produce no edge. Unweighted graphs get round(v) parallel edges per
// cell (at least one for any positive value); weighted graphs get a single
// edge carrying v as its weight.
//
// The matrix is validated first; malformed input yields an INVALID_MATRIX or
// INVALID_LABEL error and no graph.
func FromMatrix(m *matrix.Adjacency, w Weighting) (*Graph, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	g := New(w.Attr)
	n := m.Size()
	for i := range n {
		if err := g.AddVertex(Vertex{ID: i, Label: m.Labels[i]}); err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
	}

	for i := range n {
		for j := i; j < n; j++ {
			v := max(m.At(i, j), m.At(j, i))
			if v == 0 {
				continue
			}
			if w.Enabled() {
				g.edges = append(g.edges, Edge{From: i, To: j, Weight: v})
				continue
			}
			for range multiplicity(v) {
				g.edges = append(g.edges, Edge{From: i, To: j})
			}
		}
	}
	return g, nil
}

// multiplicity converts a positive cell value into a parallel-edge count.
func multiplicity(v float64) int {
	return max(1, int(math.Round(v)))
}
