// Package engine computes layouts and community partitions for a
// [network.Graph].
//
// # Overview
//
// The [Engine] interface is the capability boundary between the plotting
// pipeline and the graph algorithms it relies on. [Gonum] implements it on
// top of gonum.org/v1/gonum: the graph is converted to a
// simple.WeightedUndirectedGraph (parallel edges collapse into a summed
// weight, self-loops are dropped) and handed to gonum's community, layout,
// network, path and topo packages or to stat/mds.
//
// # Layouts
//
//   - [LayoutCircle]: evenly spaced on the unit circle in vertex order
//   - [LayoutSphere]: spiral on the unit sphere, projected onto x/y
//   - [LayoutMDS]: classical scaling of shortest-path distances
//   - [LayoutFruchterman]: spring-electrical simulation (gonum EadesR2)
//   - [LayoutKamada]: stress majorization over shortest-path distances
//
// Every layout returns coordinates rescaled to [-1, 1] on both axes.
// Randomized layouts draw from a source seeded with [Gonum.Seed], so the same
// graph and seed always give the same picture.
//
// # Communities
//
//   - [ClusterLouvain]: gonum's Louvain modularization
//   - [ClusterOptimal]: exhaustive modularity maximization for small graphs,
//     best of several Louvain runs otherwise
//   - [ClusterEdgeBetweenness]: Girvan-Newman divisive clustering
//   - [ClusterWalktrap]: Pons-Latapy random-walk agglomeration
//   - [ClusterInfomap]: map equation minimization on the stationary flow
//
// Communities are numbered 1..k in order of their smallest vertex ID.
package engine
