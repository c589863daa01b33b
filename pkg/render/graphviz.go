package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// pointsPerInch converts scene pixels to graphviz inches.
const pointsPerInch = 72.0

// GraphvizCanvas renders a scene through go-graphviz. Node positions are
// pinned, so neato only routes edges; the layout stays the one computed by
// the engine.
type GraphvizCanvas struct {
	w      io.Writer
	format Format
}

// NewGraphvizCanvas returns a canvas writing format to w. Supported formats
// are FormatSVG, FormatPNG and FormatJPG.
func NewGraphvizCanvas(w io.Writer, format Format) *GraphvizCanvas {
	return &GraphvizCanvas{w: w, format: format}
}

// Draw implements [Canvas].
func (c *GraphvizCanvas) Draw(ctx context.Context, s Scene) error {
	var gvFormat graphviz.Format
	switch c.format {
	case FormatSVG, "":
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	case FormatJPG:
		gvFormat = graphviz.JPG
	default:
		return fmt.Errorf("graphviz canvas: unsupported format %q", c.format)
	}

	out, err := renderDOT(ctx, ToDOT(s), gvFormat)
	if err != nil {
		return err
	}
	if gvFormat == graphviz.SVG {
		out = normalizeViewBox(out)
	}
	_, err = c.w.Write(out)
	return err
}

// ToDOT converts a scene to Graphviz DOT with pinned positions. Members of
// a halo get a second periphery in their community color.
func ToDOT(s Scene) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	if s.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=18;\n", s.Title)
	}
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fixedsize=true, fontname=\"Helvetica\", fontcolor=%q, color=\"#555555\", penwidth=0.5];\n", LabelColor)
	fmt.Fprintf(&buf, "  edge [color=\"%s99\"];\n", edgeColor)
	buf.WriteString("\n")

	haloColor := make(map[int]string)
	for _, h := range s.Halos {
		haloColor[h.Community] = h.Color
	}

	for _, n := range s.Nodes {
		attrs := []string{
			fmt.Sprintf("label=%q", n.Label),
			// Graphviz y grows upwards.
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", round2(n.X/pointsPerInch), round2((s.Height-n.Y)/pointsPerInch)),
			fmt.Sprintf("width=%.3f", max(0.01, 2*n.Radius/pointsPerInch)),
			fmt.Sprintf("fillcolor=%q", n.Color),
			fmt.Sprintf("fontsize=%.1f", n.FontSize),
		}
		if c, ok := haloColor[n.Community]; ok {
			attrs = append(attrs, "peripheries=2", fmt.Sprintf("color=%q", c), "penwidth=3")
		}
		fmt.Fprintf(&buf, "  v%d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range s.Links {
		fmt.Fprintf(&buf, "  v%d -- v%d [penwidth=%.2f];\n", l.From, l.To, l.Width)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
