package render

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	edgeColor   = "#9A9A9A"
	edgeOpacity = 0.6
	haloOpacity = 0.25
	fontFamily  = "Helvetica, Arial, sans-serif"
)

// SVGCanvas writes a scene as SVG. PNG and PDF formats convert the SVG with
// rsvg-convert.
type SVGCanvas struct {
	w      io.Writer
	format Format
	scale  float64
}

// NewSVGCanvas returns a canvas writing format to w. Supported formats are
// FormatSVG, FormatPNG and FormatPDF.
func NewSVGCanvas(w io.Writer, format Format) *SVGCanvas {
	return &SVGCanvas{w: w, format: format, scale: 2}
}

// Draw implements [Canvas].
func (c *SVGCanvas) Draw(ctx context.Context, s Scene) error {
	svg := RenderSVG(s)

	var (
		out []byte
		err error
	)
	switch c.format {
	case FormatSVG, "":
		out = svg
	case FormatPDF:
		out, err = ToPDF(ctx, svg)
	case FormatPNG:
		out, err = ToPNG(ctx, svg, c.scale)
	default:
		return fmt.Errorf("svg canvas: unsupported format %q", c.format)
	}
	if err != nil {
		return err
	}
	_, err = c.w.Write(out)
	return err
}

// RenderSVG returns the SVG document for s.
func RenderSVG(s Scene) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	if s.Title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="18" font-weight="bold">%s</text>`+"\n",
			s.Width/2, titleHeight, fontFamily, escapeXML(s.Title))
	}

	for _, h := range s.Halos {
		renderHalo(&buf, h)
	}

	buf.WriteString(`  <g class="edges" fill="none">` + "\n")
	radius := make(map[int]float64, len(s.Nodes))
	for _, n := range s.Nodes {
		radius[n.ID] = n.Radius
	}
	for _, l := range s.Links {
		renderLink(&buf, l, radius[l.From])
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, `    <circle id="v%d" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="#555555" stroke-width="0.5"/>`+"\n",
			n.ID, n.X, n.Y, n.Radius, n.Color)
	}
	buf.WriteString("  </g>\n")

	fmt.Fprintf(&buf, `  <g class="labels" font-family="%s" fill="%s" text-anchor="middle" dominant-baseline="central">`+"\n",
		fontFamily, LabelColor)
	for _, n := range s.Nodes {
		if n.Label == "" {
			continue
		}
		fmt.Fprintf(&buf, `    <text x="%.2f" y="%.2f" font-size="%.1f">%s</text>`+"\n",
			n.X, n.Y, n.FontSize, escapeXML(n.Label))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderLink(buf *bytes.Buffer, l Link, nodeRadius float64) {
	stroke := fmt.Sprintf(`stroke="%s" stroke-opacity="%.2f" stroke-width="%.2f"`, edgeColor, edgeOpacity, l.Width)
	switch {
	case l.Loop:
		r := loopRadius(nodeRadius)
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f" %s/>`+"\n", l.X1, l.Y1-nodeRadius-r/2, r, stroke)
	case l.Curve != 0:
		c := l.control()
		fmt.Fprintf(buf, `    <path d="M%.2f,%.2f Q%.2f,%.2f %.2f,%.2f" %s/>`+"\n", l.X1, l.Y1, c.X, c.Y, l.X2, l.Y2, stroke)
	default:
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" %s/>`+"\n", l.X1, l.Y1, l.X2, l.Y2, stroke)
	}
}

// renderHalo draws the community outline: a circle around a single member,
// a capsule around two, and a rounded hull otherwise.
func renderHalo(buf *bytes.Buffer, h Halo) {
	style := fmt.Sprintf(`fill="%s" fill-opacity="%.2f" stroke="%s"`, h.Color, haloOpacity, h.Color)
	hull := h.Hull()
	switch len(hull) {
	case 0:
		return
	case 1:
		fmt.Fprintf(buf, `  <circle class="halo" cx="%.2f" cy="%.2f" r="%.2f" %s/>`+"\n", hull[0].X, hull[0].Y, h.Pad, style)
	case 2:
		fmt.Fprintf(buf, `  <line class="halo" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.2f" stroke-width="%.2f" stroke-linecap="round"/>`+"\n",
			hull[0].X, hull[0].Y, hull[1].X, hull[1].Y, h.Color, haloOpacity, 2*h.Pad)
	default:
		fmt.Fprintf(buf, `  <path class="halo" d="%s" stroke-width="%.2f" stroke-linejoin="round" stroke-opacity="%.2f" %s/>`+"\n",
			hullPath(hull), 2*h.Pad, haloOpacity, style)
	}
}

func hullPath(hull []r2.Vec) string {
	var sb strings.Builder
	for i, p := range hull {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&sb, "%s%.2f,%.2f ", cmd, p.X, p.Y)
	}
	sb.WriteString("Z")
	return sb.String()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// round2 rounds to two decimals; DOT and SVG coordinates share it.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
