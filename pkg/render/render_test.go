package render

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netplot/pkg/network"
)

func sampleGraph(t *testing.T) *network.Graph {
	t.Helper()
	g := network.New("")
	vertices := []network.Vertex{
		{ID: 0, Label: "SMITH J", X: -1, Y: 1, Size: 20, Community: 1, Color: ColorFor(1)},
		{ID: 1, Label: "DOE <A>", X: 1, Y: -1, Size: 10, Community: 1, Color: ColorFor(1)},
		{ID: 2, Label: "ROE B", X: 0, Y: 0, Size: 5, Community: 2, Color: ColorFor(2), LabelSize: 2},
	}
	for _, v := range vertices {
		if err := g.AddVertex(v); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []network.Edge{{From: 0, To: 1, Width: 5}, {From: 1, To: 2, Width: 2.5}, {From: 2, To: 2, Width: 1}} {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestColorFor(t *testing.T) {
	tests := []struct {
		community int
		want      string
	}{
		{1, Palette[0]},
		{2, Palette[1]},
		{12, Palette[11]},
		{13, Palette[0]},
		{25, Palette[0]},
		{0, UniformColor},
		{-3, UniformColor},
	}
	for _, tt := range tests {
		if got := ColorFor(tt.community); got != tt.want {
			t.Errorf("ColorFor(%d) = %s, want %s", tt.community, got, tt.want)
		}
	}
}

func TestNewScene(t *testing.T) {
	s := NewScene(sampleGraph(t), SceneOptions{Width: 800, Height: 600})

	if len(s.Nodes) != 3 || len(s.Links) != 3 {
		t.Fatalf("scene has %d nodes, %d links", len(s.Nodes), len(s.Links))
	}
	corner, opposite := s.Nodes[0], s.Nodes[1]
	if corner.X != defaultMargin || corner.Y != defaultMargin {
		t.Errorf("(-1, 1) mapped to (%v, %v), want top-left margin", corner.X, corner.Y)
	}
	if opposite.X != 800-defaultMargin || opposite.Y != 600-defaultMargin {
		t.Errorf("(1, -1) mapped to (%v, %v), want bottom-right margin", opposite.X, opposite.Y)
	}
	// Size 20 is a tenth of the smaller half-extent (520 / 2).
	if math.Abs(corner.Radius-26) > 1e-9 {
		t.Errorf("radius = %v, want 26", corner.Radius)
	}
	if s.Nodes[0].FontSize != baseFontSize || s.Nodes[2].FontSize != 2*baseFontSize {
		t.Errorf("font sizes = %v, %v", s.Nodes[0].FontSize, s.Nodes[2].FontSize)
	}
	if !s.Links[2].Loop {
		t.Error("self-loop not marked")
	}
	if len(s.Halos) != 0 {
		t.Errorf("halos without Halo option: %d", len(s.Halos))
	}
}

func TestNewSceneHalos(t *testing.T) {
	s := NewScene(sampleGraph(t), SceneOptions{Halo: true, Title: "Co-citation"})
	if len(s.Halos) != 2 {
		t.Fatalf("halos = %d, want 2", len(s.Halos))
	}
	if s.Halos[0].Community != 1 || len(s.Halos[0].Points) != 2 {
		t.Errorf("first halo = %+v", s.Halos[0])
	}
	if s.Halos[1].Color != ColorFor(2) {
		t.Errorf("halo color = %s, want %s", s.Halos[1].Color, ColorFor(2))
	}
	if s.Nodes[0].Y != defaultMargin+titleHeight {
		t.Errorf("title space not reserved: top node at %v", s.Nodes[0].Y)
	}
}

func TestHaloHull(t *testing.T) {
	h := Halo{Points: []r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 0, Y: 2}, {X: 0, Y: 0}}}
	hull := h.Hull()
	if len(hull) != 4 {
		t.Fatalf("hull = %v, want the 4 corners", hull)
	}
	for _, p := range hull {
		if p == (r2.Vec{X: 1, Y: 1}) {
			t.Errorf("interior point %v on hull", p)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(NewScene(sampleGraph(t), SceneOptions{Halo: true, Curved: 0.5, Title: "A & B"})))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`id="v0"`, `id="v1"`, `id="v2"`,
		"DOE &lt;A&gt;",
		"A &amp; B",
		`class="halo"`,
		" Q",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(svg, "<line x1") {
		t.Error("curved scene drew straight edges")
	}
}

func TestRenderSVGStraight(t *testing.T) {
	svg := string(RenderSVG(NewScene(sampleGraph(t), SceneOptions{})))
	if got := strings.Count(svg, "<line "); got != 2 {
		t.Errorf("straight edges = %d, want 2", got)
	}
	if strings.Contains(svg, "halo") {
		t.Error("unexpected halo")
	}
}

func TestSVGCanvas(t *testing.T) {
	var buf bytes.Buffer
	s := NewScene(sampleGraph(t), SceneOptions{})
	if err := NewSVGCanvas(&buf, FormatSVG).Draw(context.Background(), s); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), RenderSVG(s)) {
		t.Error("canvas output differs from RenderSVG")
	}
	if err := NewSVGCanvas(&buf, FormatJPG).Draw(context.Background(), s); err == nil {
		t.Error("expected error for jpg on svg canvas")
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(NewScene(sampleGraph(t), SceneOptions{Halo: true}))
	for _, want := range []string{
		"graph G {",
		"layout=neato;",
		`label="SMITH J"`,
		`pos="0.56,7.78!"`,
		"peripheries=2",
		"v0 -- v1 [penwidth=5.00];",
		"v2 -- v2",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
}

func TestGraphvizCanvas(t *testing.T) {
	var buf bytes.Buffer
	s := NewScene(sampleGraph(t), SceneOptions{})
	if err := NewGraphvizCanvas(&buf, FormatSVG).Draw(context.Background(), s); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Errorf("output is not SVG: %.80s", buf.String())
	}
	if err := NewGraphvizCanvas(&buf, FormatPDF).Draw(context.Background(), s); err == nil {
		t.Error("expected error for pdf on graphviz canvas")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{".PNG", FormatPNG, false},
		{"plot.jpeg", FormatJPG, false},
		{"out/network.pdf", FormatPDF, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q, wantErr %v", tt.input, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestNewCanvas(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		format  Format
		backend Backend
		want    string
		wantErr bool
	}{
		{FormatSVG, "", "*render.SVGCanvas", false},
		{FormatPDF, BackendSVG, "*render.SVGCanvas", false},
		{FormatPNG, BackendGraphviz, "*render.GraphvizCanvas", false},
		{FormatJPG, BackendSVG, "*render.GraphvizCanvas", false},
		{FormatPDF, BackendGraphviz, "", true},
		{FormatSVG, "cairo", "", true},
	}
	for _, tt := range tests {
		c, err := NewCanvas(&buf, tt.format, tt.backend)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewCanvas(%s, %s) error = %v, wantErr %v", tt.format, tt.backend, err, tt.wantErr)
			continue
		}
		if err == nil && fmt.Sprintf("%T", c) != tt.want {
			t.Errorf("NewCanvas(%s, %s) = %T, want %s", tt.format, tt.backend, c, tt.want)
		}
	}
}

type countingCanvas struct{ n int }

func (c *countingCanvas) Draw(context.Context, Scene) error {
	c.n++
	return nil
}

func TestMulti(t *testing.T) {
	a, b := &countingCanvas{}, &countingCanvas{}
	if err := Multi(a, b).Draw(context.Background(), Scene{}); err != nil {
		t.Fatal(err)
	}
	if a.n != 1 || b.n != 1 {
		t.Errorf("draw counts = %d, %d; want 1, 1", a.n, b.n)
	}
}
