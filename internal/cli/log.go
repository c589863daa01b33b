package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netplot/pkg/errors"
	"github.com/matzehuels/netplot/pkg/observability"
)

// Log formats accepted by --log-format.
const (
	logFormatText   = "text"
	logFormatJSON   = "json"
	logFormatLogfmt = "logfmt"
)

// newLogger returns a text logger with centisecond timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// setLogFormat switches l to the named formatter.
func setLogFormat(l *log.Logger, format string) error {
	switch format {
	case "", logFormatText:
		l.SetFormatter(log.TextFormatter)
	case logFormatJSON:
		l.SetFormatter(log.JSONFormatter)
	case logFormatLogfmt:
		l.SetFormatter(log.LogfmtFormatter)
	default:
		return errors.New(errors.ErrCodeInvalidOption, "invalid log format %q (must be text, json or logfmt)", format)
	}
	return nil
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger stored by withLogger, or log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// stageReporter follows a plot through the pipeline hooks: each stage
// relabels the spinner when it starts and is logged at debug when it ends.
type stageReporter struct {
	observability.NoopPipelineHooks
	logger  *log.Logger
	spinner *Spinner
}

// reportStages installs a stageReporter until the returned func is called.
func reportStages(logger *log.Logger, spinner *Spinner) (restore func()) {
	prev := observability.Pipeline()
	observability.SetPipelineHooks(stageReporter{logger: logger, spinner: spinner})
	return func() { observability.SetPipelineHooks(prev) }
}

func (r stageReporter) OnStageStart(_ context.Context, stage observability.Stage, detail string) {
	if r.spinner != nil {
		r.spinner.SetMessage(stageMessage(stage, detail))
	}
}

func (r stageReporter) OnStageComplete(_ context.Context, stage observability.Stage, detail string, d time.Duration, err error) {
	if err != nil {
		r.logger.Debug("stage failed", "stage", stage, "detail", detail, "err", err)
		return
	}
	r.logger.Debug("stage done", "stage", stage, "detail", detail, "took", d.Round(time.Millisecond))
}

// stageMessage is the spinner text for a running stage.
func stageMessage(stage observability.Stage, detail string) string {
	var verb string
	switch stage {
	case observability.StageBuild:
		verb = "Building network"
	case observability.StageReduce:
		verb = "Reducing network"
	case observability.StageLayout:
		verb = "Computing layout"
	case observability.StagePartition:
		verb = "Detecting communities"
	case observability.StageExternal:
		verb = "Running VOSviewer"
	case observability.StageRender:
		verb = "Rendering"
	default:
		verb = string(stage)
	}
	if detail == "" {
		return verb + "..."
	}
	return fmt.Sprintf("%s (%s)...", verb, detail)
}
