// Package observability lets callers watch plots, cache lookups and API
// requests without the pipeline knowing about any metrics backend.
//
// The pipeline and the server report events to whatever hooks are
// registered; the defaults do nothing. [LogHooks] writes every event to a
// charmbracelet logger:
//
//	observability.Register(observability.NewLogHooks(logger))
//
// Individual hook sets can be swapped with [SetPipelineHooks],
// [SetCacheHooks] and [SetHTTPHooks]; passing nil restores the no-op.
package observability

import (
	"context"
	"sync"
	"time"
)

// Stage names a step of the plot pipeline.
type Stage string

// Plot stages in execution order.
const (
	StageBuild     Stage = "build"
	StageReduce    Stage = "reduce"
	StageLayout    Stage = "layout"
	StageExternal  Stage = "external"
	StagePartition Stage = "partition"
	StageRender    Stage = "render"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the plot pipeline.
type PipelineHooks interface {
	// OnStageStart fires before a stage runs. Detail names the algorithm
	// or format when the stage has one.
	OnStageStart(ctx context.Context, stage Stage, detail string)

	// OnStageComplete fires after a stage, with its error if it failed.
	OnStageComplete(ctx context.Context, stage Stage, detail string, duration time.Duration, err error)

	// OnPlotComplete fires once per plot with the final graph size.
	OnPlotComplete(ctx context.Context, vertices, edges int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, requestID, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, requestID, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, Stage, string)                          {}
func (NoopPipelineHooks) OnStageComplete(context.Context, Stage, string, time.Duration, error) {}
func (NoopPipelineHooks) OnPlotComplete(context.Context, int, int, time.Duration, error)       {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var hooks = &registry{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	http:     NoopHTTPHooks{},
}

// SetPipelineHooks installs h for pipeline events; nil restores the no-op.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		h = NoopPipelineHooks{}
	}
	hooks.mu.Lock()
	hooks.pipeline = h
	hooks.mu.Unlock()
}

// SetCacheHooks installs h for cache events; nil restores the no-op.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		h = NoopCacheHooks{}
	}
	hooks.mu.Lock()
	hooks.cache = h
	hooks.mu.Unlock()
}

// SetHTTPHooks installs h for HTTP events; nil restores the no-op.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		h = NoopHTTPHooks{}
	}
	hooks.mu.Lock()
	hooks.http = h
	hooks.mu.Unlock()
}

// Register installs h for every event kind it implements.
func Register(h any) {
	if p, ok := h.(PipelineHooks); ok {
		SetPipelineHooks(p)
	}
	if c, ok := h.(CacheHooks); ok {
		SetCacheHooks(c)
	}
	if x, ok := h.(HTTPHooks); ok {
		SetHTTPHooks(x)
	}
}

// Pipeline returns the current pipeline hooks.
func Pipeline() PipelineHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.pipeline
}

// Cache returns the current cache hooks.
func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

// HTTP returns the current HTTP hooks.
func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Reset restores every no-op.
func Reset() {
	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)
}
