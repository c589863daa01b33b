package engine

import (
	"context"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
)

const (
	// exhaustiveLimit is the largest graph partitioned by exhaustive search.
	exhaustiveLimit = 10
	// louvainRestarts is the number of seeded Louvain runs optimal compares
	// on larger graphs.
	louvainRestarts = 10
)

// louvain runs gonum's Louvain modularization at resolution 1.
func louvain(a *adjacency, seed uint64) []int {
	reduced := community.Modularize(ordered{a.weighted}, 1, rand.NewSource(seed))
	return labelsOf(a.n, reduced.Communities())
}

// labelsOf converts gonum's community slices to a per-node label slice.
func labelsOf(n int, comms [][]graph.Node) []int {
	labels := make([]int, n)
	for c, nodes := range comms {
		for _, node := range nodes {
			labels[node.ID()] = c
		}
	}
	return labels
}

// optimal returns a maximum-modularity partition. Graphs of at most
// exhaustiveLimit vertices are searched exhaustively; larger graphs keep the
// best of louvainRestarts Louvain runs.
func optimal(ctx context.Context, a *adjacency, seed uint64) ([]int, error) {
	if a.n <= exhaustiveLimit {
		return exhaustive(ctx, a)
	}
	var (
		best  []int
		bestQ float64
	)
	for i := range uint64(louvainRestarts) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		labels := louvain(a, seed+i)
		if q := a.modularity(labels); best == nil || q > bestQ {
			best, bestQ = labels, q
		}
	}
	return best, nil
}

// exhaustive enumerates every set partition as a restricted growth string
// and keeps the first one with the highest modularity.
func exhaustive(ctx context.Context, a *adjacency) ([]int, error) {
	if a.n == 0 {
		return nil, nil
	}
	labels := make([]int, a.n)
	maxPrefix := make([]int, a.n) // max label among labels[:i]
	best := append([]int(nil), labels...)
	bestQ := a.modularity(labels)

	for steps := 0; ; steps++ {
		if steps%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		// Advance to the next restricted growth string.
		i := a.n - 1
		for i > 0 && labels[i] > maxPrefix[i] {
			i--
		}
		if i == 0 {
			break
		}
		labels[i]++
		for j := i + 1; j < a.n; j++ {
			labels[j] = 0
			maxPrefix[j] = max(maxPrefix[j-1], labels[j-1])
		}
		if q := a.modularity(labels); q > bestQ {
			bestQ = q
			copy(best, labels)
		}
	}
	return best, nil
}
