package network

import (
	"slices"
)

const (
	// MaxVertexSize is the size of the highest-degree vertex when sizing by degree.
	MaxVertexSize = 20.0
	// DefaultVertexSize is the constant vertex size.
	DefaultVertexSize = 5.0
)

// DegreeMode selects which incident edges count toward a degree.
// On an undirected graph every mode counts the same edges; the modes exist so
// callers can pass the counting mode through unchanged.
type DegreeMode string

const (
	DegreeAll DegreeMode = "all"
	DegreeIn  DegreeMode = "in"
	DegreeOut DegreeMode = "out"
)

// SetSizes assigns visual sizes from the stored degrees.
//
// With byDegree, size = degree/maxDegree*MaxVertexSize. When every degree is
// zero the ratio is undefined and every vertex gets DefaultVertexSize.
// Without byDegree every vertex gets DefaultVertexSize.
func (g *Graph) SetSizes(byDegree bool) {
	maxDeg := g.MaxDegree()
	for _, v := range g.vertices {
		if !byDegree || maxDeg == 0 {
			v.Size = DefaultVertexSize
			continue
		}
		v.Size = float64(v.Degree) / float64(maxDeg) * MaxVertexSize
	}
}

// Threshold returns the n-th largest value in degrees (1-based, ties
// counted individually). n is clamped to [1, len(degrees)]. Returns 0 for an
// empty slice.
func Threshold(degrees []int, n int) int {
	if len(degrees) == 0 {
		return 0
	}
	sorted := slices.Clone(degrees)
	slices.SortFunc(sorted, func(a, b int) int { return b - a })
	n = min(max(n, 1), len(sorted))
	return sorted[n-1]
}

// Prune keeps the n highest-degree vertices using the stored degrees.
//
// The threshold is the n-th largest degree; every vertex whose degree is
// strictly below it is removed along with its edges. Vertices tied at the
// threshold are all kept, so more than n vertices may remain. n <= 0 or
// n >= VertexCount prunes nothing. Returns the threshold applied (0 when
// nothing was pruned) and the number of vertices removed.
func (g *Graph) Prune(n int) (threshold, removed int) {
	if n <= 0 || n >= len(g.vertices) {
		return 0, 0
	}
	degrees := make([]int, 0, len(g.vertices))
	for _, v := range g.vertices {
		degrees = append(degrees, v.Degree)
	}
	threshold = Threshold(degrees, n)
	return threshold, g.PruneBelow(threshold)
}

// PruneBelow removes every vertex whose stored degree is below minDegree and
// returns the number of vertices removed.
func (g *Graph) PruneBelow(minDegree int) int {
	return g.RemoveVertices(func(v *Vertex) bool { return v.Degree < minDegree })
}

// SimplifyOptions selects the simplification steps.
type SimplifyOptions struct {
	RemoveMultiple bool // collapse parallel edges
	RemoveLoops    bool // delete self-loops
}

// SimplifyResult reports what [Graph.Simplify] removed.
type SimplifyResult struct {
	MultipleRemoved int
	LoopsRemoved    int
}

// Simplify removes self-loops and/or collapses parallel edges.
// Collapsed edges keep the first edge's position in the edge list and the
// sum of the parallel edges' weights.
func (g *Graph) Simplify(opts SimplifyOptions) SimplifyResult {
	var res SimplifyResult
	if opts.RemoveLoops {
		before := len(g.edges)
		g.edges = slices.DeleteFunc(g.edges, Edge.IsLoop)
		res.LoopsRemoved = before - len(g.edges)
	}
	if opts.RemoveMultiple {
		seen := make(map[[2]int]int, len(g.edges))
		out := g.edges[:0]
		for _, e := range g.edges {
			if idx, ok := seen[e.key()]; ok {
				out[idx].Weight += e.Weight
				res.MultipleRemoved++
				continue
			}
			seen[e.key()] = len(out)
			out = append(out, e)
		}
		g.edges = out
	}
	return res
}

// RemoveIsolates recomputes degrees and removes every vertex left without
// edges. Returns the number of vertices removed.
func (g *Graph) RemoveIsolates() int {
	g.UpdateDegrees()
	return g.RemoveVertices(func(v *Vertex) bool { return v.Degree == 0 })
}

// SetEdgeWidths assigns edge widths.
//
// Unweighted graphs get edgeSize for every edge. Weighted graphs scale by
// weight: width = (w + minW) / max(w + minW) * edgeSize, where minW is the
// smallest edge weight. If that maximum is zero every edge gets edgeSize.
func (g *Graph) SetEdgeWidths(edgeSize float64) {
	if !g.Weighted() || len(g.edges) == 0 {
		for i := range g.edges {
			g.edges[i].Width = edgeSize
		}
		return
	}

	minW := g.edges[0].Weight
	for _, e := range g.edges {
		minW = min(minW, e.Weight)
	}
	denom := 0.0
	for _, e := range g.edges {
		denom = max(denom, e.Weight+minW)
	}
	for i := range g.edges {
		if denom == 0 {
			g.edges[i].Width = edgeSize
			continue
		}
		g.edges[i].Width = (g.edges[i].Weight + minW) / denom * edgeSize
	}
}
