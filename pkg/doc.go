// Package pkg provides the libraries behind netplot, a plotter for
// bibliometric networks (co-citation, collaboration, coupling, co-word).
//
// # Overview
//
// A network starts as a square adjacency matrix whose cells count the links
// between two items. netplot turns it into a graph, keeps the most connected
// vertices, lays them out, colors their communities and draws the result.
//
// # Architecture
//
//	adjacency matrix (CSV / JSON)
//	         ↓
//	  [matrix]   validate, read
//	         ↓
//	  [network]  build, size, prune, simplify, drop isolates
//	         ↓
//	  [engine]   layout (circle, sphere, mds, fruchterman, kamada)
//	             communities (optimal, louvain, infomap, edge-betweenness, walktrap)
//	         ↓                        ↘
//	  [render]   scene → SVG/PNG/PDF     [external] VOSviewer hand-off
//
// [pipeline] runs these stages in order with caching ([cache]) and
// instrumentation ([observability]).
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/netplot/pkg/matrix"
//	    "github.com/matzehuels/netplot/pkg/pipeline"
//	    "github.com/matzehuels/netplot/pkg/render"
//	)
//
//	m, _ := matrix.ReadFile("cocitation.csv")
//	opts := pipeline.DefaultOptions()
//	opts.N = 50
//	opts.Cluster = "louvain"
//
//	var buf bytes.Buffer
//	p := pipeline.NewPlotter(nil, nil, nil)
//	res, _ := p.Plot(ctx, m, opts, render.NewSVGCanvas(&buf, render.FormatSVG))
//	fmt.Println(res.Graph.VertexCount(), res.Communities)
//
// # Packages
//
// [errors] - Coded errors shared by every package.
//
// [matrix] - The adjacency matrix input and its CSV and JSON readers.
//
// [network] - The undirected multigraph, reduction steps, and JSON and
// Pajek writers.
//
// [engine] - Layout and community detection on gonum.
//
// [render] - Scenes, the 12-color palette and canvases (SVG, Graphviz).
//
// [external] - Export to and invocation of VOSviewer.
//
// [cache] - File and Redis caches for layouts and partitions.
//
// [pipeline] - Options, validation, config files and the Plotter.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [buildinfo] - Version information set at link time.
//
// [errors]: https://pkg.go.dev/github.com/matzehuels/netplot/pkg/errors
// [matrix]: https://pkg.go.dev/github.com/matzehuels/netplot/pkg/matrix
// [network]: https://pkg.go.dev/github.com/matzehuels/netplot/pkg/network
// [engine]: https://pkg.go.dev/github.com/matzehuels/netplot/pkg/engine
// [render]: https://pkg.go.dev/github.com/matzehuels/netplot/pkg/render
// [external]: https://pkg.go.dev/github.com/matzehuels/netplot/pkg/external
// [cache]: https://pkg.go.dev/github.com/matzehuels/netplot/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/netplot/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/matzehuels/netplot/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/netplot/pkg/buildinfo
package pkg
