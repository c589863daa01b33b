package engine

import (
	"context"
	"maps"
	"math"
	"slices"

	"golang.org/x/exp/rand"
)

const (
	// infomapTrials is the number of seeded optimizations; the partition
	// with the shortest description length wins.
	infomapTrials = 10
	// infomapSweeps bounds the local move sweeps per level.
	infomapSweeps = 100
)

func plogp(p float64) float64 {
	if p <= 0 {
		return 0
	}
	return p * math.Log2(p)
}

// flowNode is a node of the (possibly aggregated) flow graph.
type flowNode struct {
	members []int   // original node indices
	flow    float64 // summed strength of members
	ext     float64 // weight of arcs leaving the node
	arcs    []arc
}

// mapState tracks module totals for the two-level map equation
//
//	L = plogp(q) - 2*sum plogp(q_i) - sum plogp(p_a) + sum plogp(q_i + p_i)
//
// where q_i is the exit flow of module i, q their sum and p_i the module's
// stationary flow. Weights are kept unnormalized; m2 is twice the total edge
// weight.
type mapState struct {
	m2      float64
	module  []int
	exit    []float64
	flow    []float64
	exitSum float64
}

func (s *mapState) term(exit, flow float64) (float64, float64) {
	return plogp(exit / s.m2), plogp((exit + flow) / s.m2)
}

// length returns the module-dependent part of the description length.
func (s *mapState) length() float64 {
	l := plogp(s.exitSum / s.m2)
	for i := range s.exit {
		e, ef := s.term(s.exit[i], s.flow[i])
		l += -2*e + ef
	}
	return l
}

// infomap partitions a by greedily minimizing the two-level map equation on
// the undirected stationary flow (strength / 2W). Each trial runs local moves
// in seeded random order, aggregates modules and repeats until no node
// moves.
func infomap(ctx context.Context, a *adjacency, seed uint64) ([]int, error) {
	var (
		best  []int
		bestL float64
	)
	for trial := range uint64(infomapTrials) {
		labels, l, err := infomapTrial(ctx, a, rand.New(rand.NewSource(seed+trial)))
		if err != nil {
			return nil, err
		}
		if best == nil || l < bestL-1e-12 {
			best, bestL = labels, l
		}
	}
	return best, nil
}

func infomapTrial(ctx context.Context, a *adjacency, rnd *rand.Rand) ([]int, float64, error) {
	nodes := make([]flowNode, a.n)
	for u := range a.n {
		nodes[u] = flowNode{
			members: []int{u},
			flow:    a.strength[u],
			ext:     a.strength[u],
			arcs:    a.arcs[u],
		}
	}
	m2 := 2 * a.total

	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		s := &mapState{
			m2:     m2,
			module: make([]int, len(nodes)),
			exit:   make([]float64, len(nodes)),
			flow:   make([]float64, len(nodes)),
		}
		for i, nd := range nodes {
			s.module[i] = i
			s.exit[i] = nd.ext
			s.flow[i] = nd.flow
			s.exitSum += nd.ext
		}

		moved := false
		for range infomapSweeps {
			if !s.sweep(nodes, rnd) {
				break
			}
			moved = true
		}
		if !moved {
			break
		}
		nodes = aggregate(nodes, s.module)
	}

	labels := make([]int, a.n)
	for i, nd := range nodes {
		for _, u := range nd.members {
			labels[u] = i
		}
	}
	final := &mapState{m2: m2, exit: make([]float64, len(nodes)), flow: make([]float64, len(nodes))}
	for i, nd := range nodes {
		final.exit[i] = nd.ext
		final.flow[i] = nd.flow
		final.exitSum += nd.ext
	}
	return labels, final.length(), nil
}

// sweep visits every node once in random order and moves it to the
// neighbouring module that shortens the description length the most.
// It reports whether any node moved.
func (s *mapState) sweep(nodes []flowNode, rnd *rand.Rand) bool {
	moved := false
	for _, i := range rnd.Perm(len(nodes)) {
		nd := nodes[i]
		from := s.module[i]

		to := make(map[int]float64)
		for _, e := range nd.arcs {
			to[s.module[e.to]] += e.w
		}

		bestDelta, bestMod := -1e-10, -1
		for mod, w := range to {
			if mod == from {
				continue
			}
			if d := s.delta(nd, from, mod, to[from], w); d < bestDelta || (d == bestDelta && mod < bestMod) {
				bestDelta, bestMod = d, mod
			}
		}
		if bestMod < 0 {
			continue
		}
		s.move(nd, from, bestMod, to[from], to[bestMod])
		s.module[i] = bestMod
		moved = true
	}
	return moved
}

// delta returns the description length change of moving nd from module a to
// module b, given its arc weight into each.
func (s *mapState) delta(nd flowNode, a, b int, wa, wb float64) float64 {
	exitA := s.exit[a] - nd.ext + 2*wa
	exitB := s.exit[b] + nd.ext - 2*wb
	flowA := s.flow[a] - nd.flow
	flowB := s.flow[b] + nd.flow
	exitSum := s.exitSum - s.exit[a] - s.exit[b] + exitA + exitB

	d := plogp(exitSum/s.m2) - plogp(s.exitSum/s.m2)
	for _, t := range [][4]float64{
		{exitA, flowA, s.exit[a], s.flow[a]},
		{exitB, flowB, s.exit[b], s.flow[b]},
	} {
		eNew, efNew := s.term(t[0], t[1])
		eOld, efOld := s.term(t[2], t[3])
		d += -2*(eNew-eOld) + (efNew - efOld)
	}
	return d
}

func (s *mapState) move(nd flowNode, a, b int, wa, wb float64) {
	exitA := s.exit[a] - nd.ext + 2*wa
	exitB := s.exit[b] + nd.ext - 2*wb
	s.exitSum += exitA + exitB - s.exit[a] - s.exit[b]
	s.exit[a], s.exit[b] = exitA, exitB
	s.flow[a] -= nd.flow
	s.flow[b] += nd.flow
}

// aggregate collapses every module into a single flow node.
func aggregate(nodes []flowNode, module []int) []flowNode {
	index := make(map[int]int)
	var out []flowNode
	for i, nd := range nodes {
		j, ok := index[module[i]]
		if !ok {
			j = len(out)
			index[module[i]] = j
			out = append(out, flowNode{})
		}
		out[j].members = append(out[j].members, nd.members...)
		out[j].flow += nd.flow
	}

	weights := make([]map[int]float64, len(out))
	for j := range weights {
		weights[j] = make(map[int]float64)
	}
	for i, nd := range nodes {
		src := index[module[i]]
		for _, e := range nd.arcs {
			dst := index[module[e.to]]
			if src != dst {
				weights[src][dst] += e.w
			}
		}
	}
	for j, ws := range weights {
		for _, dst := range slices.Sorted(maps.Keys(ws)) {
			out[j].arcs = append(out[j].arcs, arc{to: dst, w: ws[dst]})
			out[j].ext += ws[dst]
		}
	}
	return out
}
