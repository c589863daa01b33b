package engine

import (
	"context"
)

// walktrapSteps is the random walk length t.
const walktrapSteps = 4

// walkCommunity is a cluster in the walktrap agglomeration.
type walkCommunity struct {
	size int
	prob []float64 // P^t_C., the t-step distribution averaged over members
	nbrs map[int]struct{}
}

// walktrap agglomerates communities by the Pons-Latapy random walk distance
// and returns the dendrogram cut with the highest modularity.
//
// Every node gets a self-loop whose weight is its mean incident edge weight
// (1 for isolated nodes), so walks may stay in place.
func walktrap(ctx context.Context, a *adjacency, steps int) ([]int, error) {
	n := a.n
	loop := make([]float64, n)
	degree := make([]float64, n)
	for u := range n {
		loop[u] = 1
		if len(a.arcs[u]) > 0 {
			loop[u] = a.strength[u] / float64(len(a.arcs[u]))
		}
		degree[u] = a.strength[u] + loop[u]
	}

	comms := make(map[int]*walkCommunity, n)
	for u := range n {
		c := &walkCommunity{size: 1, prob: walk(a, loop, degree, u, steps), nbrs: make(map[int]struct{})}
		for _, e := range a.arcs[u] {
			c.nbrs[e.to] = struct{}{}
		}
		comms[u] = c
	}

	dist := make(map[[2]int]float64)
	for u, c := range comms {
		for v := range c.nbrs {
			if u < v {
				dist[[2]int{u, v}] = sigma(comms[u], comms[v], degree, n)
			}
		}
	}

	labels := singletons(n)
	best := append([]int(nil), labels...)
	bestQ := a.modularity(labels)
	next := n

	for len(dist) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var pair [2]int
		first := true
		for k, d := range dist {
			if first || d < dist[pair] || (d == dist[pair] && (k[0] < pair[0] || (k[0] == pair[0] && k[1] < pair[1]))) {
				pair, first = k, false
			}
		}
		c1, c2 := comms[pair[0]], comms[pair[1]]

		merged := &walkCommunity{
			size: c1.size + c2.size,
			prob: make([]float64, n),
			nbrs: make(map[int]struct{}, len(c1.nbrs)+len(c2.nbrs)),
		}
		for k := range merged.prob {
			merged.prob[k] = (float64(c1.size)*c1.prob[k] + float64(c2.size)*c2.prob[k]) / float64(merged.size)
		}
		for _, old := range []int{pair[0], pair[1]} {
			for nb := range comms[old].nbrs {
				delete(dist, key(old, nb))
				delete(comms[nb].nbrs, old)
				if nb != pair[0] && nb != pair[1] {
					merged.nbrs[nb] = struct{}{}
				}
			}
			delete(comms, old)
		}

		id := next
		next++
		comms[id] = merged
		for nb := range merged.nbrs {
			comms[nb].nbrs[id] = struct{}{}
			dist[key(id, nb)] = sigma(merged, comms[nb], degree, n)
		}

		for u := range labels {
			if labels[u] == pair[0] || labels[u] == pair[1] {
				labels[u] = id
			}
		}
		if q := a.modularity(labels); q > bestQ {
			bestQ = q
			copy(best, labels)
		}
	}
	return best, nil
}

// walk returns the distribution of a t-step random walk started at u.
func walk(a *adjacency, loop, degree []float64, u, steps int) []float64 {
	p := make([]float64, a.n)
	p[u] = 1
	for range steps {
		q := make([]float64, a.n)
		for v, pv := range p {
			if pv == 0 {
				continue
			}
			q[v] += pv * loop[v] / degree[v]
			for _, e := range a.arcs[v] {
				q[e.to] += pv * e.w / degree[v]
			}
		}
		p = q
	}
	return p
}

// sigma is the increase in mean squared walk distance caused by merging c1
// and c2.
func sigma(c1, c2 *walkCommunity, degree []float64, n int) float64 {
	r := 0.0
	for k := range c1.prob {
		d := c1.prob[k] - c2.prob[k]
		r += d * d / degree[k]
	}
	return float64(c1.size*c2.size) / float64(c1.size+c2.size) * r / float64(n)
}

func key(u, v int) [2]int {
	return [2]int{min(u, v), max(u, v)}
}
