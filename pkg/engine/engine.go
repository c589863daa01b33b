package engine

import (
	"context"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netplot/pkg/errors"
	"github.com/matzehuels/netplot/pkg/network"
)

// LayoutType names a layout strategy.
type LayoutType string

const (
	LayoutCircle      LayoutType = "circle"
	LayoutSphere      LayoutType = "sphere"
	LayoutMDS         LayoutType = "mds"
	LayoutFruchterman LayoutType = "fruchterman"
	LayoutKamada      LayoutType = "kamada"
	// LayoutExternal hands the graph to an external visualization tool.
	// Engines do not compute it; see package external.
	LayoutExternal LayoutType = "vosviewer"
)

// DefaultLayout is used for empty or unknown layout names.
const DefaultLayout = LayoutKamada

// ClusterAlgorithm names a community detection algorithm.
type ClusterAlgorithm string

const (
	ClusterNone            ClusterAlgorithm = "none"
	ClusterOptimal         ClusterAlgorithm = "optimal"
	ClusterLouvain         ClusterAlgorithm = "louvain"
	ClusterInfomap         ClusterAlgorithm = "infomap"
	ClusterEdgeBetweenness ClusterAlgorithm = "edge-betweenness"
	ClusterWalktrap        ClusterAlgorithm = "walktrap"
)

// DefaultCluster is used for empty or unknown algorithm names.
const DefaultCluster = ClusterWalktrap

// Positions maps vertex IDs to layout coordinates.
type Positions map[int]r2.Vec

// Partition maps vertex IDs to community indices starting at 1.
type Partition map[int]int

// Count returns the number of distinct communities.
func (p Partition) Count() int {
	seen := make(map[int]struct{}, len(p))
	for _, c := range p {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// Engine provides the graph algorithms used by the plotting pipeline.
type Engine interface {
	// Degree returns the degree of every vertex under mode.
	Degree(g *network.Graph, mode network.DegreeMode) map[int]int

	// Simplify removes parallel edges and/or self-loops in place.
	Simplify(g *network.Graph, opts network.SimplifyOptions) network.SimplifyResult

	// Layout computes a 2D position for every vertex of g, rescaled to
	// [-1, 1] on both axes.
	Layout(ctx context.Context, g *network.Graph, layout LayoutType) (Positions, error)

	// Partition assigns every vertex of g to a community.
	// ClusterNone puts every vertex in community 1.
	Partition(ctx context.Context, g *network.Graph, algo ClusterAlgorithm) (Partition, error)
}

var layoutAliases = map[string]LayoutType{
	"circle":        LayoutCircle,
	"sphere":        LayoutSphere,
	"mds":           LayoutMDS,
	"fruchterman":   LayoutFruchterman,
	"kamada":        LayoutKamada,
	"vosviewer":     LayoutExternal,
	"external":      LayoutExternal,
	"external-tool": LayoutExternal,
}

var clusterAliases = map[string]ClusterAlgorithm{
	"none":             ClusterNone,
	"optimal":          ClusterOptimal,
	"louvain":          ClusterLouvain,
	"infomap":          ClusterInfomap,
	"edge-betweenness": ClusterEdgeBetweenness,
	"edge_betweenness": ClusterEdgeBetweenness,
	"edgebetweenness":  ClusterEdgeBetweenness,
	"walktrap":         ClusterWalktrap,
}

// ParseLayout maps a layout name to its LayoutType. Names are
// case-insensitive. Unknown names return DefaultLayout and ok=false; callers
// treat that as a fallback, not an error.
func ParseLayout(s string) (t LayoutType, ok bool) {
	if t, ok := layoutAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, true
	}
	return DefaultLayout, false
}

// ParseCluster maps an algorithm name to its ClusterAlgorithm. Unknown names
// return DefaultCluster and ok=false.
func ParseCluster(s string) (a ClusterAlgorithm, ok bool) {
	if a, ok := clusterAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return a, true
	}
	return DefaultCluster, false
}

// LayoutTypes returns the layout names accepted by [ParseLayout], canonical
// names first.
func LayoutTypes() []string {
	return []string{
		string(LayoutKamada), string(LayoutFruchterman), string(LayoutMDS),
		string(LayoutCircle), string(LayoutSphere), string(LayoutExternal),
	}
}

// ClusterAlgorithms returns the canonical algorithm names accepted by
// [ParseCluster].
func ClusterAlgorithms() []string {
	return []string{
		string(ClusterWalktrap), string(ClusterLouvain), string(ClusterInfomap),
		string(ClusterEdgeBetweenness), string(ClusterOptimal), string(ClusterNone),
	}
}

// DefaultSeed seeds randomized layouts and clusterings.
const DefaultSeed = 42

// Gonum is the [Engine] backed by gonum.org/v1/gonum.
type Gonum struct {
	// Seed initializes every random source. Identical graphs and seeds
	// produce identical layouts and partitions.
	Seed uint64
}

// New returns a gonum-backed engine seeded with seed.
func New(seed uint64) *Gonum {
	return &Gonum{Seed: seed}
}

var _ Engine = (*Gonum)(nil)

// Degree implements [Engine].
func (e *Gonum) Degree(g *network.Graph, _ network.DegreeMode) map[int]int {
	return g.Degrees()
}

// Simplify implements [Engine].
func (e *Gonum) Simplify(g *network.Graph, opts network.SimplifyOptions) network.SimplifyResult {
	return g.Simplify(opts)
}

// Layout implements [Engine].
func (e *Gonum) Layout(ctx context.Context, g *network.Graph, layout LayoutType) (Positions, error) {
	a := newAdjacency(g)
	var (
		pts []r2.Vec
		err error
	)
	switch layout {
	case LayoutCircle:
		pts = circle(a.n)
	case LayoutSphere:
		pts = sphere(a.n)
	case LayoutMDS:
		pts = classicalScaling(a)
	case LayoutFruchterman:
		pts, err = springElectrical(ctx, a, e.Seed)
	case LayoutKamada:
		pts, err = stressMajorization(ctx, a, e.Seed)
	case LayoutExternal:
		return nil, errors.New(errors.ErrCodeUnsupported, "external layouts are computed by the external tool")
	default:
		return nil, errors.New(errors.ErrCodeInvalidOption, "unknown layout %q", layout)
	}
	if err != nil {
		return nil, err
	}

	rescale(pts)
	out := make(Positions, a.n)
	for i, p := range pts {
		out[a.ids[i]] = p
	}
	return out, nil
}

// Partition implements [Engine].
func (e *Gonum) Partition(ctx context.Context, g *network.Graph, algo ClusterAlgorithm) (Partition, error) {
	a := newAdjacency(g)
	var (
		labels []int
		err    error
	)
	switch {
	case algo == ClusterNone:
		labels = make([]int, a.n)
	case a.total == 0:
		labels = singletons(a.n)
	default:
		switch algo {
		case ClusterLouvain:
			labels = louvain(a, e.Seed)
		case ClusterOptimal:
			labels, err = optimal(ctx, a, e.Seed)
		case ClusterEdgeBetweenness:
			labels, err = girvanNewman(ctx, a)
		case ClusterWalktrap:
			labels, err = walktrap(ctx, a, walktrapSteps)
		case ClusterInfomap:
			labels, err = infomap(ctx, a, e.Seed)
		default:
			return nil, errors.New(errors.ErrCodeInvalidOption, "unknown cluster algorithm %q", algo)
		}
	}
	if err != nil {
		return nil, err
	}

	labels = relabel(labels)
	out := make(Partition, a.n)
	for i, c := range labels {
		out[a.ids[i]] = c
	}
	return out, nil
}

// relabel renumbers community labels 1..k in order of first appearance.
// Indices are in ascending vertex ID order, so community 1 holds the
// smallest vertex.
func relabel(labels []int) []int {
	next := 1
	seen := make(map[int]int)
	out := make([]int, len(labels))
	for i, l := range labels {
		c, ok := seen[l]
		if !ok {
			c = next
			seen[l] = c
			next++
		}
		out[i] = c
	}
	return out
}

func singletons(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
