package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/netplot/pkg/cache"
	"github.com/matzehuels/netplot/pkg/errors"
	"github.com/matzehuels/netplot/pkg/observability"
	"github.com/matzehuels/netplot/pkg/pipeline"
)

// twoTriangles is two triangles joined by the edge C-D.
const twoTriangles = `{
	"labels": ["A", "B", "C", "D", "E", "F"],
	"values": [
		[0, 1, 1, 0, 0, 0],
		[1, 0, 1, 0, 0, 0],
		[1, 1, 0, 1, 0, 0],
		[0, 0, 1, 0, 1, 1],
		[0, 0, 0, 1, 0, 1],
		[0, 0, 0, 1, 1, 0]
	]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(pipeline.NewPlotter(cache.NewNullCache(), nil, nil), nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("request ID %q is not a UUID: %v", resp.Header.Get(RequestIDHeader), err)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request ID = %q, want abc-123", got)
	}
}

func TestStrategies(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/strategies")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body := decodeBody[struct {
		Layouts        []string `json:"layouts"`
		Clusters       []string `json:"clusters"`
		DefaultLayout  string   `json:"default_layout"`
		DefaultCluster string   `json:"default_cluster"`
	}](t, resp)

	if body.DefaultLayout != "kamada" || body.DefaultCluster != "walktrap" {
		t.Errorf("defaults = %s/%s, want kamada/walktrap", body.DefaultLayout, body.DefaultCluster)
	}
	if len(body.Layouts) == 0 || len(body.Clusters) == 0 {
		t.Errorf("empty strategy lists: %+v", body)
	}
}

func TestPlotSVG(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/api/v1/plot", fmt.Sprintf(`{"matrix": %s, "options": {"cluster": "louvain"}}`, twoTriangles))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody[PlotResponse](t, resp)

	if body.Format != "svg" {
		t.Errorf("format = %q, want svg", body.Format)
	}
	if !bytes.Contains(body.Image, []byte("<svg")) {
		t.Errorf("image is not SVG: %.60q", body.Image)
	}
	if got := len(body.Network.Vertices); got != 6 {
		t.Errorf("vertices = %d, want 6", got)
	}
	if got := len(body.Network.Edges); got != 7 {
		t.Errorf("edges = %d, want 7", got)
	}
	if body.Cluster != "louvain" || body.Layout != "kamada" {
		t.Errorf("strategies = %s/%s, want kamada/louvain", body.Layout, body.Cluster)
	}
	if body.Communities != 2 {
		t.Errorf("communities = %d, want 2", body.Communities)
	}
	if body.RunID == "" {
		t.Error("run_id is empty")
	}
}

func TestNetworkHasNoImage(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/api/v1/network", fmt.Sprintf(`{"matrix": %s}`, twoTriangles))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody[PlotResponse](t, resp)

	if len(body.Image) != 0 || body.Format != "" {
		t.Errorf("network response carries an image (%s, %d bytes)", body.Format, len(body.Image))
	}
	for _, v := range body.Network.Vertices {
		if v.Color == "" {
			t.Errorf("vertex %d has no color", v.ID)
		}
	}
}

func TestPlotErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"not square", `{"matrix": {"labels": ["A", "B"], "values": [[0, 1, 0], [1, 0, 0]]}}`, 400, errors.ErrCodeInvalidMatrix},
		{"negative cell", `{"matrix": {"labels": ["A"], "values": [[-1]]}}`, 400, errors.ErrCodeInvalidMatrix},
		{"missing matrix", `{"options": {}}`, 400, errors.ErrCodeInvalidOption},
		{"bad format", fmt.Sprintf(`{"matrix": %s, "format": "gif"}`, twoTriangles), 400, errors.ErrCodeInvalidOption},
		{"unknown field", fmt.Sprintf(`{"matrix": %s, "colour": "red"}`, twoTriangles), 400, errors.ErrCodeInvalidInput},
		{"malformed json", `{"matrix": `, 400, errors.ErrCodeInvalidInput},
		{"bad option", fmt.Sprintf(`{"matrix": %s, "options": {"curved": 3}}`, twoTriangles), 400, errors.ErrCodeInvalidOption},
		{"external layout", fmt.Sprintf(`{"matrix": %s, "options": {"type": "vosviewer"}}`, twoTriangles), 422, errors.ErrCodeUnsupported},
		{"pdf via graphviz", fmt.Sprintf(`{"matrix": %s, "format": "pdf", "renderer": "graphviz"}`, twoTriangles), 400, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/api/v1/plot", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decodeBody[errorResponse](t, resp)
			if !body.Error || body.Code != string(tt.code) {
				t.Errorf("error = %+v, want code %s", body, tt.code)
			}
			if body.RequestID == "" {
				t.Error("error response has no request ID")
			}
		})
	}
}

func TestPlotRequiresJSON(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/plot", "text/plain", strings.NewReader(twoTriangles))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidLabel, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{errors.New(errors.ErrCodeExternalTool, "x"), http.StatusBadGateway},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{fmt.Errorf("layout: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu        sync.Mutex
	requests  []string
	responses []int
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, id, method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, id, method, path string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	h := New(pipeline.NewPlotter(cache.NewNullCache(), nil, nil), nil).Handler()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plot", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if want := []string{"GET /healthz", "POST /api/v1/plot"}; fmt.Sprint(hooks.requests) != fmt.Sprint(want) {
		t.Errorf("requests = %v, want %v", hooks.requests, want)
	}
	if want := []int{200, 400}; fmt.Sprint(hooks.responses) != fmt.Sprint(want) {
		t.Errorf("responses = %v, want %v", hooks.responses, want)
	}
}
