// Package network provides the undirected, optionally weighted graph that
// netplot reduces, lays out and renders.
//
// # Overview
//
// A [Graph] is built from a labelled adjacency matrix with [FromMatrix]: one
// vertex per matrix column, edges from the non-zero cells. The graph is then
// reduced in place, in this order:
//
//  1. [Graph.UpdateDegrees] and [Graph.SetSizes]: degree and visual size
//  2. [Graph.Prune]: keep the n highest-degree vertices (ties kept)
//  3. [Graph.Simplify]: collapse parallel edges, drop self-loops
//  4. [Graph.RemoveIsolates]: drop vertices left without edges
//
// Pruning uses the degrees of the complete graph; isolate removal recomputes
// them after simplification.
//
// # Weighting
//
// The [Weighting] passed to FromMatrix decides how cells become edges:
//
//	WeightNone        a cell value v yields round(v) parallel edges
//	WeightBool        one edge per cell, Weight = v, attribute "weight"
//	WeightNamed(name) one edge per cell, Weight = v, attribute name
//
// # Vertex Identity
//
// Vertex IDs are the matrix column positions (0-based) and never change when
// other vertices are removed. Labels are the matrix column labels and are not
// deduplicated.
//
// # Serialization
//
// [WriteJSON] writes the node-link JSON used by the CLI and the HTTP API;
// [WritePajek] writes the Pajek .net format read by VOSviewer.
//
// # Concurrency
//
// A Graph is not safe for concurrent use without external synchronization.
package network
