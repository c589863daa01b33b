package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/matzehuels/netplot/pkg/buildinfo"
	"github.com/matzehuels/netplot/pkg/engine"
	"github.com/matzehuels/netplot/pkg/errors"
	"github.com/matzehuels/netplot/pkg/matrix"
	"github.com/matzehuels/netplot/pkg/network"
	"github.com/matzehuels/netplot/pkg/pipeline"
	"github.com/matzehuels/netplot/pkg/render"
)

// PlotRequest is the body of POST /api/v1/plot and /api/v1/network.
type PlotRequest struct {
	Matrix   *matrix.Adjacency `json:"matrix" validate:"required"`
	Options  pipeline.Options  `json:"options" validate:"-"`
	Format   string            `json:"format,omitempty" validate:"omitempty,oneof=svg png jpg jpeg pdf"`
	Renderer string            `json:"renderer,omitempty" validate:"omitempty,oneof=svg graphviz"`
}

// PlotResponse is returned by the plot and network endpoints.
type PlotResponse struct {
	RunID       string           `json:"run_id"`
	Layout      string           `json:"layout"`
	Cluster     string           `json:"cluster"`
	Communities int              `json:"communities"`
	Threshold   int              `json:"threshold"`
	Network     network.Document `json:"network"`
	Stats       ResponseStats    `json:"stats"`
	Format      string           `json:"format,omitempty"`
	// Image is base64 encoded in JSON.
	Image []byte `json:"image,omitempty"`
}

// ResponseStats summarizes a run.
type ResponseStats struct {
	InputVertices int   `json:"input_vertices"`
	InputEdges    int   `json:"input_edges"`
	Vertices      int   `json:"vertices"`
	Edges         int   `json:"edges"`
	Pruned        int   `json:"pruned"`
	Isolates      int   `json:"isolates"`
	LayoutCached  bool  `json:"layout_cached"`
	DurationMS    int64 `json:"duration_ms"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error     bool   `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) strategies(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"layouts":          engine.LayoutTypes(),
		"clusters":         engine.ClusterAlgorithms(),
		"default_layout":   engine.DefaultLayout,
		"default_cluster":  engine.DefaultCluster,
		"external_allowed": false,
	})
}

// plot handles POST /api/v1/plot.
func (s *Server) plot(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, true)
}

// network handles POST /api/v1/network.
func (s *Server) network(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, false)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, draw bool) {
	req, err := s.decode(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	m, err := matrix.New(req.Matrix.Labels, req.Matrix.Values)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var (
		buf    bytes.Buffer
		canvas render.Canvas
		format render.Format
	)
	if draw {
		format, err = render.ParseFormat(req.Format)
		if err != nil {
			s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "format"))
			return
		}
		canvas, err = render.NewCanvas(&buf, format, render.Backend(req.Renderer))
		if err != nil {
			s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "renderer"))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout())
	defer cancel()

	opts := req.Options
	opts.Logger = s.Logger.With("request_id", RequestIDFrom(r.Context()))

	start := time.Now()
	res, err := s.Plotter.Plot(ctx, m, opts, canvas)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := PlotResponse{
		RunID:       res.RunID,
		Layout:      string(res.Layout),
		Cluster:     string(res.Cluster),
		Communities: res.Communities,
		Threshold:   res.Threshold,
		Network:     network.ToDocument(res.Graph),
		Stats: ResponseStats{
			InputVertices: res.Stats.InputVertices,
			InputEdges:    res.Stats.InputEdges,
			Vertices:      res.Stats.Vertices,
			Edges:         res.Stats.Edges,
			Pruned:        res.Stats.Pruned,
			Isolates:      res.Stats.Isolates,
			LayoutCached:  res.CacheInfo.LayoutHit,
			DurationMS:    time.Since(start).Milliseconds(),
		},
	}
	if draw {
		resp.Format = string(format)
		resp.Image = buf.Bytes()
	}
	respondJSON(w, http.StatusOK, resp)
}

// decode reads and validates a PlotRequest. Options start from
// pipeline.DefaultOptions so omitted fields keep their defaults.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*PlotRequest, error) {
	req := &PlotRequest{Options: pipeline.DefaultOptions(), Format: string(render.FormatSVG)}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	if err := pipeline.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.Options.IsExternal() {
		return nil, errors.New(errors.ErrCodeUnsupported, "layout %q is not available over HTTP", engine.LayoutExternal)
	}
	return req, nil
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidMatrix, errors.ErrCodeInvalidOption,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidLabel:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeExternalTool:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	msg := message(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err, "request_id", RequestIDFrom(r.Context()))
		msg = "internal error"
	}
	respondJSON(w, status, errorResponse{
		Error:     true,
		Code:      code,
		Message:   msg,
		RequestID: RequestIDFrom(r.Context()),
	})
}

// message is the client-facing text of err, without the code prefix.
func message(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return errors.UserMessage(err)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
