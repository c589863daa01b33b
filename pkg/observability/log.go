package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger: stage and cache events at debug,
// finished plots at info, failures at warn.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or to log.Default when nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnStageStart(_ context.Context, stage Stage, detail string) {
	h.Logger.Debug("stage start", "stage", stage, "detail", detail)
}

func (h *LogHooks) OnStageComplete(_ context.Context, stage Stage, detail string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("stage failed", "stage", stage, "detail", detail, "err", err)
		return
	}
	h.Logger.Debug("stage done", "stage", stage, "detail", detail, "took", d)
}

func (h *LogHooks) OnPlotComplete(_ context.Context, vertices, edges int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("plot failed", "err", err, "took", d)
		return
	}
	h.Logger.Info("plot complete", "vertices", vertices, "edges", edges, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, requestID, method, path string) {
	h.Logger.Debug("request start", "request_id", requestID, "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, requestID, method, path string, status int, d time.Duration) {
	if status >= 500 {
		h.Logger.Warn("request failed", "request_id", requestID, "method", method, "path", path, "status", status, "took", d)
	}
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
