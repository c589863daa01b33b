package engine

import (
	"maps"
	"math"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/netplot/pkg/network"
)

// arc is a weighted half-edge in an adjacency list.
type arc struct {
	to int
	w  float64
}

// adjacency is a dense-indexed, loop-free view of a network.Graph.
//
// Node i corresponds to vertex ids[i]; ids are ascending. Parallel edges are
// merged into one arc whose weight is their summed weight (1 per edge for
// unweighted graphs).
type adjacency struct {
	n        int
	ids      []int
	arcs     [][]arc
	strength []float64 // weighted degree
	total    float64   // sum of edge weights (each edge once)

	weighted *simple.WeightedUndirectedGraph
	plain    *simple.UndirectedGraph
}

func newAdjacency(g *network.Graph) *adjacency {
	vertices := g.Vertices()
	a := &adjacency{
		n:        len(vertices),
		ids:      make([]int, len(vertices)),
		arcs:     make([][]arc, len(vertices)),
		strength: make([]float64, len(vertices)),
		weighted: simple.NewWeightedUndirectedGraph(0, 0),
		plain:    simple.NewUndirectedGraph(),
	}
	index := make(map[int]int, len(vertices))
	for i, v := range vertices {
		a.ids[i] = v.ID
		index[v.ID] = i
		a.weighted.AddNode(simple.Node(i))
		a.plain.AddNode(simple.Node(i))
	}

	merged := make(map[[2]int]float64)
	for _, e := range g.Edges() {
		if e.IsLoop() {
			continue
		}
		w := 1.0
		if g.Weighted() {
			w = e.Weight
		}
		if w <= 0 {
			continue
		}
		u, v := index[e.From], index[e.To]
		merged[[2]int{min(u, v), max(u, v)}] += w
	}

	pairs := slices.SortedFunc(maps.Keys(merged), func(x, y [2]int) int {
		if x[0] != y[0] {
			return x[0] - y[0]
		}
		return x[1] - y[1]
	})
	for _, p := range pairs {
		w := merged[p]
		u, v := p[0], p[1]
		a.arcs[u] = append(a.arcs[u], arc{to: v, w: w})
		a.arcs[v] = append(a.arcs[v], arc{to: u, w: w})
		a.strength[u] += w
		a.strength[v] += w
		a.total += w
		a.weighted.SetWeightedEdge(a.weighted.NewWeightedEdge(simple.Node(u), simple.Node(v), w))
		a.plain.SetEdge(a.plain.NewEdge(simple.Node(u), simple.Node(v)))
	}
	return a
}

// modularity returns Newman's modularity Q of labels at resolution 1.
// It agrees with gonum's community.Q on the same weighted graph.
func (a *adjacency) modularity(labels []int) float64 {
	if a.total == 0 {
		return 0
	}
	m2 := 2 * a.total
	in := make(map[int]float64)
	tot := make(map[int]float64)
	for u := range a.n {
		c := labels[u]
		tot[c] += a.strength[u]
		for _, e := range a.arcs[u] {
			if labels[e.to] == c {
				in[c] += e.w
			}
		}
	}
	q := 0.0
	for c, t := range tot {
		q += in[c]/m2 - (t/m2)*(t/m2)
	}
	return q
}

// hopDistances returns the all-pairs shortest-path hop counts. Pairs in
// different components get one more than the largest finite distance.
func (a *adjacency) hopDistances() [][]float64 {
	paths := path.DijkstraAllPaths(a.plain)
	d := make([][]float64, a.n)
	maxFinite := 0.0
	for i := range a.n {
		d[i] = make([]float64, a.n)
		for j := range a.n {
			if i == j {
				continue
			}
			w := paths.Weight(int64(i), int64(j))
			d[i][j] = w
			if !math.IsInf(w, 1) {
				maxFinite = max(maxFinite, w)
			}
		}
	}
	for i := range a.n {
		for j := range a.n {
			if math.IsInf(d[i][j], 1) {
				d[i][j] = maxFinite + 1
			}
		}
	}
	return d
}

// ordered presents a gonum graph with nodes and neighbours in ascending ID
// order, making iteration-order-sensitive algorithms reproducible.
type ordered struct {
	graph.Undirected
}

func (g ordered) Nodes() graph.Nodes {
	return iterator.NewOrderedNodes(sortNodes(g.Undirected.Nodes()))
}

func (g ordered) From(id int64) graph.Nodes {
	return iterator.NewOrderedNodes(sortNodes(g.Undirected.From(id)))
}

func sortNodes(it graph.Nodes) []graph.Node {
	nodes := graph.NodesOf(it)
	slices.SortFunc(nodes, func(x, y graph.Node) int {
		switch {
		case x.ID() < y.ID():
			return -1
		case x.ID() > y.ID():
			return 1
		}
		return 0
	})
	return nodes
}
