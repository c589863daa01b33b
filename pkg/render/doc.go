// Package render draws a laid-out [network.Graph].
//
// # Overview
//
// Rendering happens in two steps. [NewScene] turns a graph whose vertices
// carry positions, sizes and colors into a [Scene]: pixel coordinates, edge
// strokes, labels and optional community halos. A [Canvas] then draws the
// scene to its output. Nothing is drawn implicitly; callers always pass the
// canvas they want.
//
//	scene := render.NewScene(g, render.SceneOptions{Width: 800, Height: 600, Halo: true})
//	err := render.NewSVGCanvas(w, render.FormatSVG).Draw(ctx, scene)
//
// # Canvases
//
//   - [SVGCanvas] writes SVG directly; community halos are convex hulls and
//     curved edges are quadratic Béziers. PDF and PNG go through
//     rsvg-convert (see [ToPDF], [ToPNG]).
//   - [GraphvizCanvas] emits DOT with pinned neato positions and renders it
//     in-process with go-graphviz (SVG, PNG, JPG). Halos become colored
//     peripheries.
//
// # Colors
//
// Communities are colored from [Palette], the 12-color ColorBrewer "Paired"
// scheme. Community c gets Palette[(c-1) mod 12], so colors repeat once a
// graph has more than 12 communities.
package render
