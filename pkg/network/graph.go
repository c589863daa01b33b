package network

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrDuplicateVertexID is returned by [Graph.AddVertex] when a vertex with
	// the same ID already exists.
	ErrDuplicateVertexID = errors.New("duplicate vertex ID")

	// ErrUnknownVertex is returned by [Graph.AddEdge] when an endpoint does
	// not exist in the graph.
	ErrUnknownVertex = errors.New("unknown vertex")
)

// Vertex is a network node with its visual attributes.
//
// Degree is the degree as last computed by [Graph.UpdateDegrees]; X and Y are
// layout coordinates in [-1, 1] once a layout has been applied.
type Vertex struct {
	ID        int     `json:"id"`
	Label     string  `json:"label"`
	Degree    int     `json:"degree"`
	Size      float64 `json:"size"`
	LabelSize float64 `json:"label_size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Community int     `json:"community,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// Edge is an undirected connection between two vertices. From <= To.
// From == To marks a self-loop.
type Edge struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Weight float64 `json:"weight,omitempty"`
	Width  float64 `json:"width,omitempty"`
}

// IsLoop reports whether the edge connects a vertex to itself.
func (e Edge) IsLoop() bool { return e.From == e.To }

// key returns the unordered endpoint pair of the edge.
func (e Edge) key() [2]int { return [2]int{e.From, e.To} }

// Graph is an undirected multigraph with optional edge weights.
//
// The zero value is not usable - use [New] or [FromMatrix].
type Graph struct {
	vertices   map[int]*Vertex
	edges      []Edge
	weightAttr string
}

// New creates an empty graph. A non-empty weightAttr marks the graph as
// weighted; it names the attribute edge weights came from.
func New(weightAttr string) *Graph {
	return &Graph{
		vertices:   make(map[int]*Vertex),
		weightAttr: weightAttr,
	}
}

// Weighted reports whether edges carry weights.
func (g *Graph) Weighted() bool { return g.weightAttr != "" }

// WeightAttr returns the weight attribute name, or "" for unweighted graphs.
func (g *Graph) WeightAttr() string { return g.weightAttr }

// AddVertex adds v to the graph.
// Returns ErrDuplicateVertexID if a vertex with v.ID already exists.
func (g *Graph) AddVertex(v Vertex) error {
	if _, exists := g.vertices[v.ID]; exists {
		return ErrDuplicateVertexID
	}
	g.vertices[v.ID] = &v
	return nil
}

// AddEdge adds an undirected edge. Endpoints are normalized so that
// From <= To. Parallel edges and self-loops are allowed.
// Returns ErrUnknownVertex if either endpoint is missing.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.vertices[e.From]; !ok {
		return ErrUnknownVertex
	}
	if _, ok := g.vertices[e.To]; !ok {
		return ErrUnknownVertex
	}
	if e.From > e.To {
		e.From, e.To = e.To, e.From
	}
	g.edges = append(g.edges, e)
	return nil
}

// Vertex returns the vertex with the given ID.
func (g *Graph) Vertex(id int) (*Vertex, bool) {
	v, ok := g.vertices[id]
	return v, ok
}

// Vertices returns all vertices sorted by ID.
// The pointers are live: modifying a returned vertex modifies the graph.
func (g *Graph) Vertices() []*Vertex {
	ids := slices.Sorted(maps.Keys(g.vertices))
	out := make([]*Vertex, len(ids))
	for i, id := range ids {
		out[i] = g.vertices[id]
	}
	return out
}

// Edges returns the edge list in insertion order.
// The returned slice must not be modified; use [Graph.SetEdgeWidths] or the
// reduction methods to change edges.
func (g *Graph) Edges() []Edge { return g.edges }

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of edges, counting parallel edges and loops.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Degrees computes the current degree of every vertex. Parallel edges count
// individually and a self-loop adds 2, so the sum of degrees is twice the
// edge count.
func (g *Graph) Degrees() map[int]int {
	deg := make(map[int]int, len(g.vertices))
	for id := range g.vertices {
		deg[id] = 0
	}
	for _, e := range g.edges {
		deg[e.From]++
		deg[e.To]++
	}
	return deg
}

// UpdateDegrees recomputes degrees and stores them on the vertices.
func (g *Graph) UpdateDegrees() {
	for id, d := range g.Degrees() {
		g.vertices[id].Degree = d
	}
}

// MaxDegree returns the largest stored vertex degree, or 0 for an empty graph.
func (g *Graph) MaxDegree() int {
	maxDeg := 0
	for _, v := range g.vertices {
		maxDeg = max(maxDeg, v.Degree)
	}
	return maxDeg
}

// RemoveVertices deletes every vertex for which drop returns true, together
// with its incident edges, and returns the number of vertices removed.
func (g *Graph) RemoveVertices(drop func(*Vertex) bool) int {
	removed := 0
	for id, v := range g.vertices {
		if drop(v) {
			delete(g.vertices, id)
			removed++
		}
	}
	if removed > 0 {
		g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
			_, okFrom := g.vertices[e.From]
			_, okTo := g.vertices[e.To]
			return !okFrom || !okTo
		})
	}
	return removed
}
