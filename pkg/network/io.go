package network

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Document is the node-link JSON form of a Graph.
//
//	{
//	  "weight_attr": "weight",
//	  "vertices": [{"id": 0, "label": "SMITH J", "degree": 3, ...}],
//	  "edges": [{"from": 0, "to": 1, "weight": 2, "width": 5}]
//	}
type Document struct {
	WeightAttr string   `json:"weight_attr,omitempty"`
	Vertices   []Vertex `json:"vertices"`
	Edges      []Edge   `json:"edges"`
}

// ToDocument converts g to its serializable form. Vertices are sorted by ID.
func ToDocument(g *Graph) Document {
	doc := Document{
		WeightAttr: g.weightAttr,
		Vertices:   make([]Vertex, 0, len(g.vertices)),
		Edges:      make([]Edge, len(g.edges)),
	}
	for _, v := range g.Vertices() {
		doc.Vertices = append(doc.Vertices, *v)
	}
	copy(doc.Edges, g.edges)
	return doc
}

// FromDocument rebuilds a Graph from its serializable form.
func FromDocument(doc Document) (*Graph, error) {
	g := New(doc.WeightAttr)
	for _, v := range doc.Vertices {
		if err := g.AddVertex(v); err != nil {
			return nil, fmt.Errorf("vertex %d: %w", v.ID, err)
		}
	}
	for _, e := range doc.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("edge %d-%d: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// MarshalJSON converts g to indented JSON bytes.
// Output is deterministic for a given graph.
func MarshalJSON(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes g as indented JSON to w.
func WriteJSON(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a graph written by [WriteJSON].
func ReadJSON(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDocument(doc)
}

// WriteJSONFile writes g as JSON to path.
func WriteJSONFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var pajekLabel = strings.NewReplacer(`"`, "'", "\r\n", " ", "\n", " ", "\r", " ")

// WritePajek writes g in the Pajek .net format:
//
//	*Vertices 3
//	1 "SMITH J"
//	2 "DOE A"
//	3 "ROE B"
//	*Edges
//	1 2 4
//
// Vertices are renumbered 1..n in ID order. Edge weights are written only
// for weighted graphs. Pajek has no escape sequences, so double quotes in
// labels become single quotes and line breaks become spaces.
func WritePajek(g *Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)
	vertices := g.Vertices()
	index := make(map[int]int, len(vertices))

	fmt.Fprintf(bw, "*Vertices %d\n", len(vertices))
	for i, v := range vertices {
		index[v.ID] = i + 1
		fmt.Fprintf(bw, "%d \"%s\"\n", i+1, pajekLabel.Replace(v.Label))
	}

	bw.WriteString("*Edges\n")
	for _, e := range g.edges {
		if g.Weighted() {
			fmt.Fprintf(bw, "%d %d %s\n", index[e.From], index[e.To], strconv.FormatFloat(e.Weight, 'g', -1, 64))
		} else {
			fmt.Fprintf(bw, "%d %d\n", index[e.From], index[e.To])
		}
	}
	return bw.Flush()
}

// WritePajekFile writes g in Pajek format to path.
func WritePajekFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePajek(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
