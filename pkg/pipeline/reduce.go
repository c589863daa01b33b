package pipeline

import (
	"math"

	"github.com/matzehuels/netplot/pkg/engine"
	"github.com/matzehuels/netplot/pkg/network"
	"github.com/matzehuels/netplot/pkg/render"
)

// Reduce applies the reduction steps to g in order: degrees and sizes on
// the full graph, top-N pruning (or MinDegree when N is unset),
// simplification, and isolate removal on fresh degrees. Stored degrees
// describe the reduced graph afterwards; sizes keep their full-graph values.
func Reduce(g *network.Graph, eng engine.Engine, opts Options, res *Result) {
	g.UpdateDegrees()
	g.SetSizes(opts.Size)

	switch {
	case opts.N > 0:
		res.Threshold, res.Stats.Pruned = g.Prune(opts.N)
	case opts.MinDegree > 0:
		res.Threshold = opts.MinDegree
		res.Stats.Pruned = g.PruneBelow(opts.MinDegree)
	}

	sr := eng.Simplify(g, network.SimplifyOptions{
		RemoveMultiple: opts.RemoveMultiple,
		RemoveLoops:    opts.NoLoops,
	})
	res.Stats.MultipleRemoved = sr.MultipleRemoved
	res.Stats.LoopsRemoved = sr.LoopsRemoved

	if opts.RemoveIsolates {
		res.Stats.Isolates = g.RemoveIsolates()
	}
	g.UpdateDegrees()
}

const minLabelScale = 0.1

// ApplyPositions copies layout coordinates onto the vertices of g.
func ApplyPositions(g *network.Graph, pos engine.Positions) {
	for _, v := range g.Vertices() {
		p := pos[v.ID]
		v.X, v.Y = p.X, p.Y
	}
}

// ApplyPartition stores communities and palette colors on the vertices.
// With ClusterNone every vertex gets render.UniformColor and no community.
func ApplyPartition(g *network.Graph, part engine.Partition, algo engine.ClusterAlgorithm) {
	for _, v := range g.Vertices() {
		if algo == engine.ClusterNone {
			v.Community = 0
			v.Color = render.UniformColor
			continue
		}
		v.Community = part[v.ID]
		v.Color = render.ColorFor(v.Community)
	}
}

// SetLabelSizes assigns label sizes. With LabelCex a vertex label is
// LabelSize * ln(1 + degree/maxDegree), at least LabelSize/10; otherwise
// every label is LabelSize.
func SetLabelSizes(g *network.Graph, eng engine.Engine, opts Options) {
	degrees := eng.Degree(g, network.DegreeAll)
	maxDeg := 0
	for _, d := range degrees {
		maxDeg = max(maxDeg, d)
	}
	for _, v := range g.Vertices() {
		if !opts.LabelCex || maxDeg == 0 {
			v.LabelSize = opts.LabelSize
			continue
		}
		scale := math.Log1p(float64(degrees[v.ID]) / float64(maxDeg))
		v.LabelSize = opts.LabelSize * max(scale, minLabelScale)
	}
}
