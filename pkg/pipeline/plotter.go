package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/netplot/pkg/cache"
	"github.com/matzehuels/netplot/pkg/engine"
	"github.com/matzehuels/netplot/pkg/errors"
	"github.com/matzehuels/netplot/pkg/external"
	"github.com/matzehuels/netplot/pkg/matrix"
	"github.com/matzehuels/netplot/pkg/network"
	"github.com/matzehuels/netplot/pkg/observability"
	"github.com/matzehuels/netplot/pkg/render"
)

// Plotter executes the pipeline with caching.
// Both CLI and API use it so that plots are identical across entry points.
//
// The Plotter holds no per-plot state; multiple goroutines can share one
// Plotter with different options.
type Plotter struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Engine computes layouts and partitions. When nil, each plot uses a
	// gonum engine seeded with Options.Seed.
	Engine engine.Engine

	// External replaces the VOSviewer runner in external mode. When nil,
	// each plot configures one from Options.Java and Options.ExternalTimeout.
	External external.Renderer
}

// NewPlotter creates a plotter with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, caching is disabled.
func NewPlotter(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Plotter {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Plotter{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Plot builds the network described by m, reduces it, lays it out, colors
// its communities and draws it on canvas. A nil canvas skips drawing.
//
// In external mode the graph is exported for VOSviewer instead; layout,
// partition and canvas are skipped. If the tool fails, the Result is
// returned together with the error so callers can read the exit status.
func (p *Plotter) Plot(ctx context.Context, m *matrix.Adjacency, opts Options, canvas render.Canvas) (*Result, error) {
	p.applyLogger(&opts)
	rawType, rawCluster := opts.Type, opts.Cluster
	opts.SetDefaults()
	logFallbacks(opts.Logger, rawType, rawCluster)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res := &Result{
		RunID:   uuid.NewString(),
		Layout:  opts.Layout(),
		Cluster: opts.ClusterAlgorithm(),
	}
	logger := opts.Logger.With("run", res.RunID[:8])
	eng := p.engine(opts)
	start := time.Now()

	g, err := p.run(ctx, m, opts, canvas, eng, logger, res)
	if g != nil {
		res.Stats.Vertices = g.VertexCount()
		res.Stats.Edges = g.EdgeCount()
	}
	observability.Pipeline().OnPlotComplete(ctx, res.Stats.Vertices, res.Stats.Edges, time.Since(start), err)
	if err != nil {
		if res.Graph == nil {
			return nil, err
		}
		return res, err
	}

	logger.Info("plotted network",
		"vertices", res.Stats.Vertices,
		"edges", res.Stats.Edges,
		"layout", res.Layout,
		"cluster", res.Cluster,
		"duration", time.Since(start).Round(time.Millisecond))
	return res, nil
}

func (p *Plotter) run(ctx context.Context, m *matrix.Adjacency, opts Options, canvas render.Canvas, eng engine.Engine, logger *log.Logger, res *Result) (*network.Graph, error) {
	var g *network.Graph
	err := stage(ctx, observability.StageBuild, string(opts.Weighted), &res.Stats.BuildTime, func() error {
		w, err := opts.Weighting()
		if err != nil {
			return err
		}
		g, err = network.FromMatrix(m, w)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	res.Stats.InputVertices = g.VertexCount()
	res.Stats.InputEdges = g.EdgeCount()
	logger.Debug("built network", "vertices", g.VertexCount(), "edges", g.EdgeCount(), "weighted", g.WeightAttr())

	_ = stage(ctx, observability.StageReduce, "", &res.Stats.ReduceTime, func() error {
		Reduce(g, eng, opts, res)
		return nil
	})
	res.Graph = g
	logger.Debug("reduced network",
		"threshold", res.Threshold,
		"pruned", res.Stats.Pruned,
		"multiple", res.Stats.MultipleRemoved,
		"loops", res.Stats.LoopsRemoved,
		"isolates", res.Stats.Isolates)

	if opts.IsExternal() {
		return g, stage(ctx, observability.StageExternal, opts.ExternalToolPath, &res.Stats.LayoutTime, func() error {
			return p.runExternal(ctx, g, opts, logger, res)
		})
	}

	res.GraphHash = StructureHash(g)

	err = stage(ctx, observability.StageLayout, string(res.Layout), &res.Stats.LayoutTime, func() error {
		pos, hit, err := p.layout(ctx, g, eng, opts, res.GraphHash)
		if err != nil {
			return err
		}
		res.CacheInfo.LayoutHit = hit
		ApplyPositions(g, pos)
		return nil
	})
	if err != nil {
		return g, stageError("layout", err)
	}

	err = stage(ctx, observability.StagePartition, string(res.Cluster), &res.Stats.PartitionTime, func() error {
		part, hit, err := p.partition(ctx, g, eng, opts, res.GraphHash)
		if err != nil {
			return err
		}
		res.CacheInfo.PartitionHit = hit
		res.Communities = part.Count()
		ApplyPartition(g, part, res.Cluster)
		return nil
	})
	if err != nil {
		return g, stageError("partition", err)
	}
	logger.Debug("detected communities", "algorithm", res.Cluster, "communities", res.Communities)

	SetLabelSizes(g, eng, opts)
	g.SetEdgeWidths(opts.EdgeSize)

	if canvas == nil {
		return g, nil
	}
	err = stage(ctx, observability.StageRender, "", &res.Stats.RenderTime, func() error {
		return canvas.Draw(ctx, render.NewScene(g, opts.sceneOptions()))
	})
	if err != nil {
		return g, stageError("render", err)
	}
	res.Rendered = true
	return g, nil
}

// runExternal exports g and starts VOSviewer. A missing jar is reported
// with a warning and is not an error.
func (p *Plotter) runExternal(ctx context.Context, g *network.Graph, opts Options, logger *log.Logger, res *Result) error {
	info := &ExternalInfo{ExitStatus: -1}
	res.External = info

	file, status, err := external.Run(ctx, p.external(opts, logger), g, opts.ExternalToolPath)
	if stderrors.Is(err, external.ErrToolMissing) {
		logger.Warn("VOSviewer not found, skipping external layout", "jar", external.JarPath(opts.ExternalToolPath))
		info.Skipped = true
		return nil
	}
	info.File, info.ExitStatus = file, status
	return err
}

func (p *Plotter) layout(ctx context.Context, g *network.Graph, eng engine.Engine, opts Options, hash string) (engine.Positions, bool, error) {
	key := p.keyer().LayoutKey(hash, opts.LayoutKeyOpts())
	return cached(ctx, p.cache(), key, "layout", cache.TTLLayout, opts.NoCache, func() (engine.Positions, error) {
		return eng.Layout(ctx, g, opts.Layout())
	})
}

func (p *Plotter) partition(ctx context.Context, g *network.Graph, eng engine.Engine, opts Options, hash string) (engine.Partition, bool, error) {
	if opts.ClusterAlgorithm() == engine.ClusterNone {
		part, err := eng.Partition(ctx, g, engine.ClusterNone)
		return part, false, err
	}
	key := p.keyer().PartitionKey(hash, opts.PartitionKeyOpts())
	return cached(ctx, p.cache(), key, "partition", cache.TTLPartition, opts.NoCache, func() (engine.Partition, error) {
		return eng.Partition(ctx, g, opts.ClusterAlgorithm())
	})
}

// cached returns the value stored under key, or computes and stores it.
// Cache failures degrade to recomputation.
func cached[T any](ctx context.Context, c cache.Cache, key, keyType string, ttl time.Duration, bypass bool, compute func() (T, error)) (T, bool, error) {
	hooks := observability.Cache()
	if !bypass {
		if data, hit, err := c.Get(ctx, key); err == nil && hit {
			var v T
			if err := json.Unmarshal(data, &v); err == nil {
				hooks.OnCacheHit(ctx, keyType)
				return v, true, nil
			}
		}
		hooks.OnCacheMiss(ctx, keyType)
	}

	v, err := compute()
	if err != nil {
		return v, false, err
	}
	if !bypass {
		if data, err := json.Marshal(v); err == nil {
			if err := c.Set(ctx, key, data, ttl); err == nil {
				hooks.OnCacheSet(ctx, keyType, len(data))
			}
		}
	}
	return v, false, nil
}

// stage runs fn between the pipeline hooks and records its duration.
func stage(ctx context.Context, st observability.Stage, detail string, d *time.Duration, fn func() error) error {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, st, detail)
	start := time.Now()
	err := fn()
	*d = time.Since(start)
	hooks.OnStageComplete(ctx, st, detail, *d, err)
	return err
}

// stageError keeps coded errors and context errors as they are and marks
// anything else as an internal engine failure.
func stageError(name string, err error) error {
	if errors.GetCode(err) != "" ||
		stderrors.Is(err, context.Canceled) ||
		stderrors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", name, err)
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "%s", name)
}

// StructureHash hashes the vertex IDs, edges and weight attribute of g.
// Sizes, colors and positions do not contribute.
func StructureHash(g *network.Graph) string {
	doc := struct {
		WeightAttr string         `json:"w"`
		Vertices   []int          `json:"v"`
		Edges      []network.Edge `json:"e"`
	}{WeightAttr: g.WeightAttr()}
	for _, v := range g.Vertices() {
		doc.Vertices = append(doc.Vertices, v.ID)
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, network.Edge{From: e.From, To: e.To, Weight: e.Weight})
	}
	data, _ := json.Marshal(doc)
	return cache.Hash(data)
}

// logFallbacks reports layout and cluster names that fall back to defaults.
func logFallbacks(logger *log.Logger, layout, cluster string) {
	if layout != "" {
		if t, ok := engine.ParseLayout(layout); !ok {
			logger.Debug("unknown layout, using default", "type", layout, "default", t)
		}
	}
	if cluster != "" {
		if a, ok := engine.ParseCluster(cluster); !ok {
			logger.Debug("unknown cluster algorithm, using default", "cluster", cluster, "default", a)
		}
	}
}

func (p *Plotter) cache() cache.Cache {
	if p.Cache == nil {
		return cache.NewNullCache()
	}
	return p.Cache
}

func (p *Plotter) keyer() cache.Keyer {
	if p.Keyer == nil {
		return cache.NewDefaultKeyer()
	}
	return p.Keyer
}

func (p *Plotter) engine(opts Options) engine.Engine {
	if p.Engine != nil {
		return p.Engine
	}
	return engine.New(opts.Seed)
}

func (p *Plotter) external(opts Options, logger *log.Logger) external.Renderer {
	if p.External != nil {
		return p.External
	}
	return &external.VOSviewer{
		Java:    opts.Java,
		Timeout: opts.ExternalTimeout,
		Logger:  logger,
	}
}

// Close releases resources held by the plotter (primarily the cache).
func (p *Plotter) Close() error {
	if p.Cache != nil {
		return p.Cache.Close()
	}
	return nil
}

// applyLogger sets the plotter's logger on options if not already set.
func (p *Plotter) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = p.Logger
	}
}
