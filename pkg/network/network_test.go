package network

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/netplot/pkg/errors"
	"github.com/matzehuels/netplot/pkg/matrix"
)

// square builds an n x n matrix labelled v0..v{n-1} with the given cells set
// symmetrically.
func square(t *testing.T, n int, cells map[[2]int]float64) *matrix.Adjacency {
	t.Helper()
	labels := make([]string, n)
	values := make([][]float64, n)
	for i := range n {
		labels[i] = "v" + string(rune('a'+i))
		values[i] = make([]float64, n)
	}
	for ij, v := range cells {
		values[ij[0]][ij[1]] = v
		values[ij[1]][ij[0]] = v
	}
	m, err := matrix.New(labels, values)
	if err != nil {
		t.Fatalf("matrix.New: %v", err)
	}
	return m
}

func TestFromMatrix(t *testing.T) {
	tests := []struct {
		name      string
		cells     map[[2]int]float64
		weighting Weighting
		wantEdges int
		check     func(t *testing.T, g *Graph)
	}{
		{
			name:      "SingleCell",
			cells:     map[[2]int]float64{{2, 7}: 1},
			wantEdges: 1,
			check: func(t *testing.T, g *Graph) {
				deg := g.Degrees()
				ones, zeros := 0, 0
				for _, d := range deg {
					switch d {
					case 0:
						zeros++
					case 1:
						ones++
					}
				}
				if ones != 2 || zeros != 8 {
					t.Errorf("degree 1: %d, degree 0: %d; want 2 and 8", ones, zeros)
				}
			},
		},
		{
			name:      "Multiplicity",
			cells:     map[[2]int]float64{{0, 1}: 3},
			wantEdges: 3,
		},
		{
			name:      "FractionalRoundsToAtLeastOne",
			cells:     map[[2]int]float64{{0, 1}: 0.2, {1, 2}: 2.6},
			wantEdges: 4,
		},
		{
			name:      "Weighted",
			cells:     map[[2]int]float64{{0, 1}: 3.5},
			weighting: WeightBool,
			wantEdges: 1,
			check: func(t *testing.T, g *Graph) {
				if w := g.Edges()[0].Weight; w != 3.5 {
					t.Errorf("weight = %v, want 3.5", w)
				}
				if g.WeightAttr() != "weight" {
					t.Errorf("WeightAttr() = %q, want weight", g.WeightAttr())
				}
			},
		},
		{
			name:      "SelfLoop",
			cells:     map[[2]int]float64{{4, 4}: 1},
			wantEdges: 1,
			check: func(t *testing.T, g *Graph) {
				if d := g.Degrees()[4]; d != 2 {
					t.Errorf("loop degree = %d, want 2", d)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromMatrix(square(t, 10, tt.cells), tt.weighting)
			if err != nil {
				t.Fatalf("FromMatrix: %v", err)
			}
			if g.VertexCount() != 10 {
				t.Errorf("vertices = %d, want 10", g.VertexCount())
			}
			if g.EdgeCount() != tt.wantEdges {
				t.Errorf("edges = %d, want %d", g.EdgeCount(), tt.wantEdges)
			}
			if tt.check != nil {
				tt.check(t, g)
			}
		})
	}
}

func TestFromMatrixAsymmetricTakesMax(t *testing.T) {
	m, err := matrix.New([]string{"a", "b"}, [][]float64{{0, 1}, {4, 0}})
	if err != nil {
		t.Fatal(err)
	}
	g, err := FromMatrix(m, WeightNamed("cocit"))
	if err != nil {
		t.Fatalf("FromMatrix: %v", err)
	}
	if g.EdgeCount() != 1 || g.Edges()[0].Weight != 4 {
		t.Errorf("edges = %+v, want one edge of weight 4", g.Edges())
	}
}

func TestFromMatrixInvalid(t *testing.T) {
	m := &matrix.Adjacency{Labels: []string{"a", "b"}, Values: [][]float64{{0, 1}}}
	if _, err := FromMatrix(m, WeightNone); !errors.Is(err, errors.ErrCodeInvalidMatrix) {
		t.Errorf("FromMatrix error = %v, want INVALID_MATRIX", err)
	}
}

func TestFromMatrixDuplicateLabels(t *testing.T) {
	m, err := matrix.New([]string{"same", "same"}, [][]float64{{0, 1}, {1, 0}})
	if err != nil {
		t.Fatal(err)
	}
	g, err := FromMatrix(m, WeightNone)
	if err != nil {
		t.Fatalf("FromMatrix: %v", err)
	}
	if g.VertexCount() != 2 {
		t.Errorf("vertices = %d, want 2 (labels are not deduplicated)", g.VertexCount())
	}
}

func TestParseWeighting(t *testing.T) {
	tests := []struct {
		input   string
		want    Weighting
		wantErr bool
	}{
		{"", WeightNone, false},
		{"none", WeightNone, false},
		{"false", WeightNone, false},
		{"true", WeightBool, false},
		{"TRUE", WeightBool, false},
		{"strength", WeightNamed("strength"), false},
		{"bad name", WeightNone, true},
	}

	for _, tt := range tests {
		got, err := ParseWeighting(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWeighting(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseWeighting(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSetSizes(t *testing.T) {
	g, err := FromMatrix(square(t, 4, map[[2]int]float64{{0, 1}: 1, {0, 2}: 1, {0, 3}: 1}), WeightNone)
	if err != nil {
		t.Fatal(err)
	}
	g.UpdateDegrees()

	g.SetSizes(true)
	maxSize := 0.0
	for _, v := range g.Vertices() {
		maxSize = max(maxSize, v.Size)
	}
	if maxSize != MaxVertexSize {
		t.Errorf("max size = %v, want %v", maxSize, MaxVertexSize)
	}
	if v, _ := g.Vertex(1); math.Abs(v.Size-MaxVertexSize/3) > 1e-9 {
		t.Errorf("leaf size = %v, want %v", v.Size, MaxVertexSize/3)
	}

	g.SetSizes(false)
	for _, v := range g.Vertices() {
		if v.Size != DefaultVertexSize {
			t.Errorf("vertex %d size = %v, want %v", v.ID, v.Size, DefaultVertexSize)
		}
	}
}

func TestSetSizesAllZeroDegrees(t *testing.T) {
	g, err := FromMatrix(square(t, 3, nil), WeightNone)
	if err != nil {
		t.Fatal(err)
	}
	g.UpdateDegrees()
	g.SetSizes(true)
	for _, v := range g.Vertices() {
		if v.Size != DefaultVertexSize {
			t.Errorf("vertex %d size = %v, want %v", v.ID, v.Size, DefaultVertexSize)
		}
	}
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		degrees []int
		n       int
		want    int
	}{
		{[]int{5, 1, 3, 3, 2}, 1, 5},
		{[]int{5, 1, 3, 3, 2}, 2, 3},
		{[]int{5, 1, 3, 3, 2}, 3, 3},
		{[]int{5, 1, 3, 3, 2}, 4, 2},
		{[]int{5, 1, 3, 3, 2}, 99, 1},
		{[]int{5, 1, 3, 3, 2}, 0, 5},
		{nil, 3, 0},
	}

	for _, tt := range tests {
		if got := Threshold(tt.degrees, tt.n); got != tt.want {
			t.Errorf("Threshold(%v, %d) = %d, want %d", tt.degrees, tt.n, got, tt.want)
		}
	}
}

func TestPrune(t *testing.T) {
	// Star around 0 plus a triangle 1-2-3: degrees 0:4, 1:3, 2:3, 3:3, 4:1.
	cells := map[[2]int]float64{
		{0, 1}: 1, {0, 2}: 1, {0, 3}: 1, {0, 4}: 1,
		{1, 2}: 1, {1, 3}: 1, {2, 3}: 1,
	}

	tests := []struct {
		name          string
		n             int
		wantThreshold int
		wantVertices  int
	}{
		{"KeepsTop", 1, 4, 1},
		{"TiesRetained", 2, 3, 4},
		{"ExactBoundary", 4, 3, 4},
		{"AllVertices", 5, 0, 5},
		{"MoreThanVertices", 50, 0, 5},
		{"Disabled", 0, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromMatrix(square(t, 5, cells), WeightNone)
			if err != nil {
				t.Fatal(err)
			}
			g.UpdateDegrees()

			threshold, _ := g.Prune(tt.n)
			if threshold != tt.wantThreshold {
				t.Errorf("threshold = %d, want %d", threshold, tt.wantThreshold)
			}
			if g.VertexCount() != tt.wantVertices {
				t.Errorf("vertices = %d, want %d", g.VertexCount(), tt.wantVertices)
			}
			for _, e := range g.Edges() {
				if _, ok := g.Vertex(e.From); !ok {
					t.Errorf("edge %v references removed vertex", e)
				}
				if _, ok := g.Vertex(e.To); !ok {
					t.Errorf("edge %v references removed vertex", e)
				}
			}
		})
	}
}

func TestSimplify(t *testing.T) {
	cells := map[[2]int]float64{{0, 1}: 3, {1, 1}: 2, {1, 2}: 1}

	t.Run("RemoveMultiple", func(t *testing.T) {
		g, _ := FromMatrix(square(t, 3, cells), WeightNone)
		res := g.Simplify(SimplifyOptions{RemoveMultiple: true})
		seen := map[[2]int]bool{}
		for _, e := range g.Edges() {
			if seen[e.key()] {
				t.Errorf("duplicate edge %v", e)
			}
			seen[e.key()] = true
		}
		if res.MultipleRemoved != 3 {
			t.Errorf("MultipleRemoved = %d, want 3", res.MultipleRemoved)
		}
	})

	t.Run("RemoveLoops", func(t *testing.T) {
		g, _ := FromMatrix(square(t, 3, cells), WeightNone)
		res := g.Simplify(SimplifyOptions{RemoveLoops: true})
		for _, e := range g.Edges() {
			if e.IsLoop() {
				t.Errorf("loop %v retained", e)
			}
		}
		if res.LoopsRemoved != 2 {
			t.Errorf("LoopsRemoved = %d, want 2", res.LoopsRemoved)
		}
		if g.EdgeCount() != 4 {
			t.Errorf("edges = %d, want 4", g.EdgeCount())
		}
	})

	t.Run("WeightsSummed", func(t *testing.T) {
		g := New(DefaultWeightAttr)
		g.AddVertex(Vertex{ID: 0})
		g.AddVertex(Vertex{ID: 1})
		g.AddEdge(Edge{From: 0, To: 1, Weight: 2})
		g.AddEdge(Edge{From: 1, To: 0, Weight: 3})
		g.Simplify(SimplifyOptions{RemoveMultiple: true})
		if g.EdgeCount() != 1 || g.Edges()[0].Weight != 5 {
			t.Errorf("edges = %+v, want one edge of weight 5", g.Edges())
		}
	})
}

func TestRemoveIsolates(t *testing.T) {
	g, err := FromMatrix(square(t, 10, map[[2]int]float64{{3, 8}: 1}), WeightNone)
	if err != nil {
		t.Fatal(err)
	}
	removed := g.RemoveIsolates()
	if removed != 8 || g.VertexCount() != 2 {
		t.Errorf("removed %d, remaining %d; want 8 and 2", removed, g.VertexCount())
	}
}

func TestRemoveIsolatesUsesFreshDegrees(t *testing.T) {
	// Vertex 1 only has a self-loop: degree 2 before simplification, 0 after.
	g, err := FromMatrix(square(t, 3, map[[2]int]float64{{1, 1}: 1, {0, 2}: 1}), WeightNone)
	if err != nil {
		t.Fatal(err)
	}
	g.UpdateDegrees()
	g.Simplify(SimplifyOptions{RemoveLoops: true})
	g.RemoveIsolates()

	if _, ok := g.Vertex(1); ok {
		t.Error("vertex with only a removed self-loop should be an isolate")
	}
	for _, v := range g.Vertices() {
		if v.Degree == 0 {
			t.Errorf("vertex %d retained with degree 0", v.ID)
		}
	}
}

func TestSetEdgeWidths(t *testing.T) {
	g := New(DefaultWeightAttr)
	for i := range 3 {
		g.AddVertex(Vertex{ID: i})
	}
	g.AddEdge(Edge{From: 0, To: 1, Weight: 1})
	g.AddEdge(Edge{From: 1, To: 2, Weight: 3})

	g.SetEdgeWidths(5)
	// minW = 1: widths (1+1)/(3+1)*5 and (3+1)/(3+1)*5.
	if w := g.Edges()[0].Width; w != 2.5 {
		t.Errorf("width[0] = %v, want 2.5", w)
	}
	if w := g.Edges()[1].Width; w != 5 {
		t.Errorf("width[1] = %v, want 5", w)
	}

	u := New("")
	u.AddVertex(Vertex{ID: 0})
	u.AddVertex(Vertex{ID: 1})
	u.AddEdge(Edge{From: 0, To: 1})
	u.SetEdgeWidths(2)
	if w := u.Edges()[0].Width; w != 2 {
		t.Errorf("unweighted width = %v, want 2", w)
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := New("")
	if err := g.AddVertex(Vertex{ID: 1}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddVertex(Vertex{ID: 1}); err != ErrDuplicateVertexID {
		t.Errorf("AddVertex duplicate = %v, want ErrDuplicateVertexID", err)
	}
	if err := g.AddEdge(Edge{From: 1, To: 2}); err != ErrUnknownVertex {
		t.Errorf("AddEdge unknown = %v, want ErrUnknownVertex", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	g, err := FromMatrix(square(t, 3, map[[2]int]float64{{0, 1}: 2}), WeightBool)
	if err != nil {
		t.Fatal(err)
	}
	g.UpdateDegrees()

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.VertexCount() != 3 || got.EdgeCount() != 1 || !got.Weighted() {
		t.Errorf("decoded graph: %d vertices, %d edges, weighted=%v", got.VertexCount(), got.EdgeCount(), got.Weighted())
	}
}

func TestWritePajek(t *testing.T) {
	tests := []struct {
		name      string
		weighting Weighting
		want      string
	}{
		{
			name: "Unweighted",
			want: "*Vertices 3\n1 \"va\"\n2 \"vb\"\n3 \"vc\"\n*Edges\n1 3\n",
		},
		{
			name:      "Weighted",
			weighting: WeightBool,
			want:      "*Vertices 3\n1 \"va\"\n2 \"vb\"\n3 \"vc\"\n*Edges\n1 3 2.5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromMatrix(square(t, 3, map[[2]int]float64{{0, 2}: 2.5}), tt.weighting)
			if err != nil {
				t.Fatal(err)
			}
			if tt.weighting == WeightNone {
				g.Simplify(SimplifyOptions{RemoveMultiple: true})
			}
			var buf bytes.Buffer
			if err := WritePajek(g, &buf); err != nil {
				t.Fatalf("WritePajek: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("WritePajek =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestWritePajekRenumbersAfterPruning(t *testing.T) {
	g, err := FromMatrix(square(t, 4, map[[2]int]float64{{2, 3}: 1}), WeightNone)
	if err != nil {
		t.Fatal(err)
	}
	g.RemoveIsolates()

	var buf bytes.Buffer
	if err := WritePajek(g, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "*Edges\n1 2\n") {
		t.Errorf("edges not renumbered:\n%s", buf.String())
	}
}

func TestWritePajekLabels(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{`SMITH J`, `1 "SMITH J"`},
		{`O"BRIEN P`, `1 "O'BRIEN P"`},
		{`C:\DOE`, `1 "C:\DOE"`},
		{"MÜLLER K", `1 "MÜLLER K"`},
		{"ROE\nB", `1 "ROE B"`},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			g := New("")
			if err := g.AddVertex(Vertex{ID: 0, Label: tt.label}); err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := WritePajek(g, &buf); err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(buf.String(), "\n")
			if lines[1] != tt.want {
				t.Errorf("vertex line = %s, want %s", lines[1], tt.want)
			}
		})
	}
}

func TestWriteJSONFile(t *testing.T) {
	g, err := FromMatrix(square(t, 3, map[[2]int]float64{{0, 1}: 1}), WeightNone)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	path := filepath.Join(dir, "network.json")
	if err := WriteJSONFile(g, path); err != nil {
		t.Fatalf("WriteJSONFile: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := ReadJSON(f)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.VertexCount() != 3 {
		t.Errorf("read back %d vertices, want 3", got.VertexCount())
	}

	if err := WriteJSONFile(g, filepath.Join(dir, "missing", "network.json")); err == nil {
		t.Error("expected error for missing directory")
	}
}
