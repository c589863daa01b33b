// Package pipeline turns an adjacency matrix into a plotted network.
//
// This package implements the complete build → reduce → layout → partition →
// render pipeline shared by the CLI and the HTTP API, so both entry points
// prune, cluster and color a network identically.
//
// # Stages
//
//  1. Build: one vertex per matrix column, edges from non-zero cells
//  2. Reduce: size by degree, keep the top-N vertices, simplify, drop isolates
//  3. Layout: compute positions, or hand the graph to VOSviewer
//  4. Partition: detect communities and color them from the palette
//  5. Render: draw the annotated graph on a [render.Canvas]
//
// The reduced, annotated graph is always returned, whether or not anything
// was drawn.
//
// # Usage
//
//	p := pipeline.NewPlotter(nil, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.N = 50
//	opts.Cluster = "louvain"
//	var buf bytes.Buffer
//	result, err := p.Plot(ctx, m, opts, render.NewSVGCanvas(&buf, render.FormatSVG))
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netplot/pkg/cache"
	"github.com/matzehuels/netplot/pkg/engine"
	"github.com/matzehuels/netplot/pkg/external"
	"github.com/matzehuels/netplot/pkg/network"
	"github.com/matzehuels/netplot/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultEdgeSize is the width of an unweighted edge.
	DefaultEdgeSize = 5.0

	// DefaultLabelSize scales vertex labels.
	DefaultLabelSize = 1.0

	// DefaultCurved is the curvature used when curving is switched on
	// without an explicit amount.
	DefaultCurved = 0.5

	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = render.DefaultWidth

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = render.DefaultHeight

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(engine.DefaultSeed)

	// DefaultExternalTimeout bounds a VOSviewer session.
	DefaultExternalTimeout = external.DefaultTimeout
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the plotting pipeline.
// It supports JSON (API requests) and TOML (config files).
//
// Boolean switches are off in the zero value; use [DefaultOptions] for the
// usual defaults (loops and parallel edges removed).
type Options struct {
	// Reduction options
	N              int     `json:"n,omitempty" toml:"n" validate:"gte=0"`
	MinDegree      int     `json:"min_degree,omitempty" toml:"min_degree" validate:"gte=0"`
	Size           bool    `json:"size,omitempty" toml:"size"`
	NoLoops        bool    `json:"noloops,omitempty" toml:"noloops"`
	RemoveMultiple bool    `json:"remove_multiple,omitempty" toml:"remove_multiple"`
	RemoveIsolates bool    `json:"remove_isolates,omitempty" toml:"remove_isolates"`
	Weighted       Weights `json:"weighted,omitempty" toml:"weighted"`

	// Layout and clustering. Unknown names fall back to the defaults.
	Type    string `json:"type,omitempty" toml:"type"`
	Cluster string `json:"cluster,omitempty" toml:"cluster"`
	Seed    uint64 `json:"seed,omitempty" toml:"seed"`

	// Render options
	Halo      bool    `json:"halo,omitempty" toml:"halo"`
	Curved    Curve   `json:"curved,omitempty" toml:"curved" validate:"gte=-1,lte=1"`
	EdgeSize  float64 `json:"edgesize,omitempty" toml:"edgesize" validate:"gte=0"`
	LabelSize float64 `json:"labelsize,omitempty" toml:"labelsize" validate:"gte=0"`
	LabelCex  bool    `json:"label_cex,omitempty" toml:"label_cex"`
	Title     string  `json:"title,omitempty" toml:"title" validate:"max=256"`
	Width     float64 `json:"width,omitempty" toml:"width" validate:"gte=0,lte=20000"`
	Height    float64 `json:"height,omitempty" toml:"height" validate:"gte=0,lte=20000"`

	// External tool options
	ExternalToolPath string        `json:"external_tool_path,omitempty" toml:"external_tool_path"`
	ExternalTimeout  time.Duration `json:"external_timeout,omitempty" toml:"external_timeout"`
	Java             string        `json:"java,omitempty" toml:"java"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`
	// NoCache bypasses the layout and partition cache.
	NoCache bool `json:"-" toml:"-"`
}

// DefaultOptions returns options with every default applied and loops and
// parallel edges removed.
func DefaultOptions() Options {
	o := Options{
		NoLoops:        true,
		RemoveMultiple: true,
	}
	o.SetDefaults()
	return o
}

// SetDefaults fills unset fields with their defaults. It is idempotent.
// Type and Cluster are normalized to their canonical names.
func (o *Options) SetDefaults() {
	o.Type = string(o.Layout())
	o.Cluster = string(o.ClusterAlgorithm())
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.EdgeSize == 0 {
		o.EdgeSize = DefaultEdgeSize
	}
	if o.LabelSize == 0 {
		o.LabelSize = DefaultLabelSize
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.ExternalTimeout == 0 {
		o.ExternalTimeout = DefaultExternalTimeout
	}
	if o.Java == "" {
		o.Java = external.DefaultJava
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Layout returns the layout strategy, falling back to the default for
// empty or unknown names.
func (o *Options) Layout() engine.LayoutType {
	t, _ := engine.ParseLayout(o.Type)
	return t
}

// ClusterAlgorithm returns the community algorithm, falling back to the
// default for empty or unknown names.
func (o *Options) ClusterAlgorithm() engine.ClusterAlgorithm {
	a, _ := engine.ParseCluster(o.Cluster)
	return a
}

// IsExternal returns true if the external tool replaces layout and rendering.
func (o *Options) IsExternal() bool {
	return o.Layout() == engine.LayoutExternal
}

// Weighting parses the Weighted option.
func (o *Options) Weighting() (network.Weighting, error) {
	return o.Weighted.Weighting()
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Type: string(o.Layout()), Seed: o.Seed}
}

// PartitionKeyOpts returns cache key options for community detection.
func (o *Options) PartitionKeyOpts() cache.PartitionKeyOpts {
	return cache.PartitionKeyOpts{Algorithm: string(o.ClusterAlgorithm()), Seed: o.Seed}
}

// sceneOptions returns the render options for a plot.
func (o *Options) sceneOptions() render.SceneOptions {
	return render.SceneOptions{
		Width:  o.Width,
		Height: o.Height,
		Title:  o.Title,
		Curved: float64(o.Curved),
		Halo:   o.Halo && o.ClusterAlgorithm() != engine.ClusterNone,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and API responses.
	RunID string

	// Graph is the reduced and annotated network.
	Graph *network.Graph

	// GraphHash is the structural hash of the reduced graph used for cache keys.
	GraphHash string

	// Layout and Cluster are the strategies actually applied.
	Layout  engine.LayoutType
	Cluster engine.ClusterAlgorithm

	// Communities is the number of communities found (1 for "none").
	Communities int

	// Threshold is the degree cut-off applied by pruning (0 if none).
	Threshold int

	// External is set when the external tool was requested.
	External *ExternalInfo

	// Rendered reports whether a canvas was drawn.
	Rendered bool

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// ExternalInfo describes an external tool hand-off.
type ExternalInfo struct {
	// File is the exported network file; empty when the tool was missing.
	File string
	// ExitStatus is the tool's exit status, -1 if it never ran.
	ExitStatus int
	// Skipped is true when the jar was not found.
	Skipped bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	InputVertices   int
	InputEdges      int
	Vertices        int
	Edges           int
	Pruned          int
	Isolates        int
	MultipleRemoved int
	LoopsRemoved    int
	BuildTime       time.Duration
	ReduceTime      time.Duration
	LayoutTime      time.Duration
	PartitionTime   time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit    bool // Whether positions came from cache
	PartitionHit bool // Whether communities came from cache
}
