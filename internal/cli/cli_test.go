package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netplot/pkg/network"
)

const triangleCSV = "A,B,C,D\n0,1,1,0\n1,0,1,0\n1,1,0,0\n0,0,0,0\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"SVG, png ,pdf", []string{"svg", "png", "pdf"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := validateFormats([]string{"svg", "png", "jpg", "jpeg", "pdf"}); err != nil {
		t.Errorf("valid formats rejected: %v", err)
	}
	if err := validateFormats([]string{"svg", "gif"}); err == nil {
		t.Error("gif accepted")
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		output, input string
		formats       []string
		want          []string
	}{
		{"", "data/cocitation.csv", []string{"svg"}, []string{"data/cocitation.svg"}},
		{"out.svg", "in.csv", []string{"svg"}, []string{"out.svg"}},
		{"out", "in.csv", []string{"svg", "png"}, []string{"out.svg", "out.png"}},
		{"out.svg", "in.csv", []string{"svg", "pdf"}, []string{"out.svg", "out.pdf"}},
		{"", "-", []string{"png"}, []string{"netplot.png"}},
	}
	for _, tt := range tests {
		got := outputPaths(tt.output, tt.input, tt.formats)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("outputPaths(%q, %q, %v) = %v, want %v", tt.output, tt.input, tt.formats, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct{ output, input, want string }{
		{"", "net.json", "net"},
		{"plot.PNG", "x.csv", "plot"},
		{"plot.v2", "x.csv", "plot.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func newFlagCommand(t *testing.T, args ...string) (*cobra.Command, *plotFlags) {
	t.Helper()
	f := newPlotFlags()
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	cmd.SetContext(context.Background())
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return cmd, f
}

func TestResolveFlags(t *testing.T) {
	cmd, f := newFlagCommand(t, "-n", "25", "--cluster", "louvain", "--curved", "--no-cache")
	opts, err := f.resolve(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if opts.N != 25 || opts.Cluster != "louvain" {
		t.Errorf("opts = n %d cluster %q, want 25 louvain", opts.N, opts.Cluster)
	}
	if opts.Curved != 0.5 {
		t.Errorf("bare --curved = %v, want 0.5", opts.Curved)
	}
	if !opts.NoCache || opts.Logger == nil {
		t.Errorf("runtime options not set: NoCache=%v Logger=%v", opts.NoCache, opts.Logger)
	}
	if !opts.NoLoops || !opts.RemoveMultiple {
		t.Error("default reduction switches lost")
	}
}

func TestResolveConfigBeneathFlags(t *testing.T) {
	cfg := writeFile(t, "netplot.toml", "n = 10\ncluster = \"infomap\"\nhalo = true\ntitle = \"Co-citation\"\n")

	cmd, f := newFlagCommand(t, "--config", cfg, "--cluster", "louvain")
	opts, err := f.resolve(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if opts.N != 10 || !opts.Halo || opts.Title != "Co-citation" {
		t.Errorf("config not applied: %+v", opts)
	}
	if opts.Cluster != "louvain" {
		t.Errorf("cluster = %q, explicit flag should win over config", opts.Cluster)
	}
}

func TestResolveCurvedAndWeighted(t *testing.T) {
	cmd, f := newFlagCommand(t, "--curved=0.8", "--weighted", "true")
	opts, err := f.resolve(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Curved != 0.8 || opts.Weighted != "true" {
		t.Errorf("curved = %v, weighted = %q", opts.Curved, opts.Weighted)
	}

	cfg := writeFile(t, "bool.toml", "curved = true\nweighted = true\n")
	cmd, f = newFlagCommand(t, "--config", cfg, "--curved=false")
	if opts, err = f.resolve(cmd); err != nil {
		t.Fatal(err)
	}
	if opts.Curved != 0 {
		t.Errorf("curved = %v, explicit --curved=false should win over config", opts.Curved)
	}
	if opts.Weighted != "weight" {
		t.Errorf("weighted = %q, want the config's boolean as the weight attribute", opts.Weighted)
	}
}

func TestResolveConfigErrors(t *testing.T) {
	cfg := writeFile(t, "bad.toml", "colour = \"red\"\n")
	cmd, f := newFlagCommand(t, "--config", cfg)
	if _, err := f.resolve(cmd); err == nil {
		t.Error("unknown config key accepted")
	}

	cmd, f = newFlagCommand(t, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	if _, err := f.resolve(cmd); err == nil {
		t.Error("missing config file accepted")
	}
}

func TestExportCommand(t *testing.T) {
	in := writeFile(t, "triangle.csv", triangleCSV)

	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{"json", func(t *testing.T, out string) {
			g, err := network.ReadJSON(strings.NewReader(out))
			if err != nil {
				t.Fatal(err)
			}
			if g.VertexCount() != 3 || g.EdgeCount() != 3 {
				t.Errorf("exported %d vertices %d edges, want 3 and 3", g.VertexCount(), g.EdgeCount())
			}
		}},
		{"pajek", func(t *testing.T, out string) {
			if !strings.HasPrefix(out, "*Vertices 3\n") {
				t.Errorf("pajek output starts %q", out[:min(len(out), 20)])
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "net."+tt.format)
			if err := execute(t, "export", in, "-f", tt.format, "-o", out, "--remove-isolates", "--no-cache"); err != nil {
				t.Fatalf("export: %v", err)
			}
			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, string(data))
		})
	}
}

func TestExportInvalidFormat(t *testing.T) {
	in := writeFile(t, "triangle.csv", triangleCSV)
	if err := execute(t, "export", in, "-f", "graphml"); err == nil {
		t.Error("graphml accepted")
	}
}

func TestPlotCommandWritesSVG(t *testing.T) {
	in := writeFile(t, "triangle.csv", triangleCSV)
	out := filepath.Join(t.TempDir(), "triangle.svg")

	if err := execute(t, "plot", in, "-o", out, "--cluster", "none", "--remove-isolates"); err != nil {
		t.Fatalf("plot: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output is not SVG")
	}
}

func TestPlotMissingInput(t *testing.T) {
	if err := execute(t, "plot", filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("missing input accepted")
	}
}

func testGraph(t *testing.T) *network.Graph {
	t.Helper()
	g := network.New("")
	for i, v := range []network.Vertex{
		{ID: 0, Label: "A", Degree: 1, Community: 2, Color: "#A6CEE3"},
		{ID: 1, Label: "B", Degree: 3, Community: 1, Color: "#1F78B4"},
		{ID: 2, Label: "C", Degree: 3, Community: 1, Color: "#1F78B4"},
		{ID: 3, Label: "D", Degree: 2, Community: 1, Color: "#1F78B4"},
	} {
		if err := g.AddVertex(v); err != nil {
			t.Fatalf("AddVertex %d: %v", i, err)
		}
	}
	return g
}

func TestVertexRowsOrder(t *testing.T) {
	rows := vertexRows(testGraph(t))
	var ids []int
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	if want := []int{1, 2, 3, 0}; !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestCommunitySummary(t *testing.T) {
	got := communitySummary(vertexRows(testGraph(t)))
	want := [][2]int{{1, 3}, {2, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("communitySummary = %v, want %v", got, want)
	}
}

func TestVertexListModelNavigation(t *testing.T) {
	m := NewVertexListModel("test", testGraph(t))
	m.Height = 2

	key := func(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }
	step := func(msg tea.Msg) {
		next, _ := m.Update(msg)
		m = next.(VertexListModel)
	}

	step(key("j"))
	step(key("j"))
	if m.Cursor != 2 || m.Offset != 1 {
		t.Errorf("after j j: cursor %d offset %d, want 2 1", m.Cursor, m.Offset)
	}
	step(key("G"))
	if m.Cursor != 3 || m.Offset != 2 {
		t.Errorf("after G: cursor %d offset %d, want 3 2", m.Cursor, m.Offset)
	}
	step(key("k"))
	step(key("g"))
	if m.Cursor != 0 || m.Offset != 0 {
		t.Errorf("after g: cursor %d offset %d, want 0 0", m.Cursor, m.Offset)
	}

	step(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected == nil || m.Selected.ID != 1 {
		t.Errorf("selected = %+v, want vertex 1", m.Selected)
	}
	if !strings.Contains(m.View(), "test") {
		t.Error("view has no title")
	}
}

func TestExampleInputs(t *testing.T) {
	for _, in := range []string{"../../examples/matrix/cocitation.csv", "../../examples/matrix/coupling.json"} {
		t.Run(filepath.Base(in), func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "net.json")
			if err := execute(t, "export", in, "-c", "../../examples/netplot.toml", "-o", out, "--no-cache"); err != nil {
				t.Fatalf("export: %v", err)
			}
			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatal(err)
			}
			g, err := network.ReadJSON(strings.NewReader(string(data)))
			if err != nil {
				t.Fatal(err)
			}
			if g.VertexCount() == 0 {
				t.Error("example network is empty")
			}
		})
	}
}
