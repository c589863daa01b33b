package engine

import (
	"context"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// girvanNewman repeatedly deletes the edge with the highest betweenness and
// returns the component split with the highest modularity seen along the
// way. Betweenness is computed on the unweighted structure; modularity uses
// the edge weights.
func girvanNewman(ctx context.Context, a *adjacency) ([]int, error) {
	work := simple.NewUndirectedGraph()
	for i := range a.n {
		work.AddNode(simple.Node(i))
	}
	for u, arcs := range a.arcs {
		for _, e := range arcs {
			if u < e.to {
				work.SetEdge(work.NewEdge(simple.Node(u), simple.Node(e.to)))
			}
		}
	}

	best := components(work, a.n)
	bestQ := a.modularity(best)
	count := maxLabel(best) + 1

	for work.Edges().Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		u, v, ok := highestBetweenness(network.EdgeBetweenness(ordered{work}))
		if !ok {
			break
		}
		work.RemoveEdge(u, v)

		labels := components(work, a.n)
		c := maxLabel(labels) + 1
		if c == count {
			continue
		}
		count = c
		if q := a.modularity(labels); q > bestQ {
			best, bestQ = labels, q
		}
	}
	return best, nil
}

// highestBetweenness returns the edge with the largest betweenness, summing
// both orientations of each undirected edge. Ties go to the smallest
// endpoint pair. ok is false for an empty map.
func highestBetweenness(eb map[[2]int64]float64) (u, v int64, ok bool) {
	sums := make(map[[2]int64]float64, len(eb))
	for k, b := range eb {
		sums[[2]int64{min(k[0], k[1]), max(k[0], k[1])}] += b
	}
	var (
		best  [2]int64
		bestB = -1.0
	)
	for k, b := range sums {
		if b > bestB || (b == bestB && less(k, best)) {
			best, bestB = k, b
		}
	}
	return best[0], best[1], len(sums) > 0
}

func less(x, y [2]int64) bool {
	if x[0] != y[0] {
		return x[0] < y[0]
	}
	return x[1] < y[1]
}

// components labels nodes by connected component. Labels follow the order
// of each component's smallest node.
func components(g *simple.UndirectedGraph, n int) []int {
	labels := make([]int, n)
	for c, nodes := range topo.ConnectedComponents(g) {
		for _, node := range nodes {
			labels[node.ID()] = c
		}
	}
	return relabel(labels)
}

func maxLabel(labels []int) int {
	m := 0
	for _, l := range labels {
		m = max(m, l)
	}
	return m
}
