package render

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netplot/pkg/network"
)

const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
	defaultMargin = 40.0
	titleHeight   = 32.0
	// baseFontSize is the label size in pixels for a label size of 1.
	baseFontSize = 12.0
	// haloPad is added around the outermost vertex of a halo.
	haloPad = 8.0
)

// SceneOptions controls how a graph is placed on the canvas.
type SceneOptions struct {
	Width, Height float64
	Margin        float64
	Title         string

	// Curved bends edges; 0 draws straight lines, 0.5 a moderate arc.
	Curved float64

	// Halo outlines communities. It has no effect when no vertex belongs to
	// a community.
	Halo bool
}

// Node is a vertex in pixel space.
type Node struct {
	ID        int
	Label     string
	X, Y      float64
	Radius    float64
	Color     string
	Community int
	FontSize  float64
}

// Link is an edge in pixel space.
type Link struct {
	From, To       int
	X1, Y1, X2, Y2 float64
	Width          float64
	Curve          float64
	Loop           bool
}

// Halo groups the nodes of one community.
type Halo struct {
	Community int
	Color     string
	Points    []r2.Vec // member centers
	Pad       float64  // largest member radius plus haloPad
}

// Scene is everything a Canvas needs to draw one graph.
type Scene struct {
	Width, Height float64
	Title         string
	Nodes         []Node
	Links         []Link
	Halos         []Halo
}

// NewScene projects g onto a Width x Height canvas. Vertex positions in
// [-1, 1] map onto the area inside the margins with y pointing up. Vertex
// radius is Size/200 of the smaller half-extent; label font size is
// LabelSize times 12px (vertices without a label size use 1).
func NewScene(g *network.Graph, opts SceneOptions) Scene {
	opts = withSceneDefaults(opts)

	top := opts.Margin
	if opts.Title != "" {
		top += titleHeight
	}
	plotW := opts.Width - 2*opts.Margin
	plotH := opts.Height - top - opts.Margin
	unit := min(plotW, plotH) / 2

	s := Scene{Width: opts.Width, Height: opts.Height, Title: opts.Title}
	at := make(map[int]int)
	for _, v := range g.Vertices() {
		labelSize := v.LabelSize
		if labelSize <= 0 {
			labelSize = 1
		}
		color := v.Color
		if color == "" {
			color = UniformColor
		}
		at[v.ID] = len(s.Nodes)
		s.Nodes = append(s.Nodes, Node{
			ID:        v.ID,
			Label:     v.Label,
			X:         opts.Margin + (v.X+1)/2*plotW,
			Y:         top + (1-v.Y)/2*plotH,
			Radius:    v.Size / 200 * unit,
			Color:     color,
			Community: v.Community,
			FontSize:  labelSize * baseFontSize,
		})
	}

	for _, e := range g.Edges() {
		a, b := s.Nodes[at[e.From]], s.Nodes[at[e.To]]
		s.Links = append(s.Links, Link{
			From: e.From, To: e.To,
			X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y,
			Width: e.Width,
			Curve: opts.Curved,
			Loop:  e.IsLoop(),
		})
	}

	if opts.Halo {
		s.Halos = halos(s.Nodes)
	}
	return s
}

func withSceneDefaults(opts SceneOptions) SceneOptions {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Margin <= 0 {
		opts.Margin = defaultMargin
	}
	return opts
}

func halos(nodes []Node) []Halo {
	byComm := make(map[int]*Halo)
	for _, n := range nodes {
		if n.Community < 1 {
			continue
		}
		h, ok := byComm[n.Community]
		if !ok {
			h = &Halo{Community: n.Community, Color: ColorFor(n.Community)}
			byComm[n.Community] = h
		}
		h.Points = append(h.Points, r2.Vec{X: n.X, Y: n.Y})
		h.Pad = max(h.Pad, n.Radius+haloPad)
	}
	out := make([]Halo, 0, len(byComm))
	for _, h := range byComm {
		out = append(out, *h)
	}
	slices.SortFunc(out, func(a, b Halo) int { return cmp.Compare(a.Community, b.Community) })
	return out
}

// Hull returns the convex hull of the halo's points in counter-clockwise
// order (Andrew's monotone chain). Fewer than three distinct points are
// returned as they are.
func (h Halo) Hull() []r2.Vec {
	pts := slices.Clone(h.Points)
	slices.SortFunc(pts, func(a, b r2.Vec) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})
	pts = slices.Compact(pts)
	if len(pts) < 3 {
		return pts
	}

	cross := func(o, a, b r2.Vec) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	hull := make([]r2.Vec, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// control returns the quadratic Bézier control point bending l by l.Curve.
func (l Link) control() r2.Vec {
	mid := r2.Vec{X: (l.X1 + l.X2) / 2, Y: (l.Y1 + l.Y2) / 2}
	d := r2.Vec{X: l.X2 - l.X1, Y: l.Y2 - l.Y1}
	// Perpendicular offset proportional to half the edge length.
	return r2.Add(mid, r2.Scale(l.Curve/2, r2.Vec{X: -d.Y, Y: d.X}))
}

// loopRadius is the radius of the circle drawn for a self-loop at a node of
// radius r.
func loopRadius(r float64) float64 {
	return math.Max(6, r*0.6)
}
