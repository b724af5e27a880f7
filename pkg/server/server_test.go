package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/xyframe/pkg/annotation"
	"github.com/matzehuels/xyframe/pkg/cache"
	xerrors "github.com/matzehuels/xyframe/pkg/errors"
	"github.com/matzehuels/xyframe/pkg/observability"
	"github.com/matzehuels/xyframe/pkg/pipeline"
)

func chartJSON(key, version string) string {
	return `{
  "key": "` + key + `",
  "data_version": "` + version + `",
  "width": 300,
  "height": 200,
  "lines": [{"id": "north", "coordinates": [{"x": 0, "y": 1}, {"x": 10, "y": 8}]}],
  "points": [{"x": 5, "y": 4}],
  "axes": [{"orient": "left"}, {"orient": "bottom"}],
  "annotations": [{"type": "xy", "x": 5, "y": 4, "label": "mid"}, {"type": "nope"}]
}`
}

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	srv := New(pipeline.NewRunner(c, nil, nil), opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func errorCode(t *testing.T, body []byte) xerrors.Code {
	t.Helper()
	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Error.Code
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestPostFrame(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/v1/frame", chartJSON("sales", "v1"))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "miss", resp.Header.Get(HeaderCache))
	assert.Equal(t, "1", resp.Header.Get(HeaderSkipped))
	assert.Equal(t, "sales", resp.Header.Get(HeaderKey))

	var out struct {
		Key  string `json:"key"`
		Size struct {
			Width float64 `json:"width"`
		} `json:"size"`
		Annotations []struct {
			Kind string `json:"kind"`
		} `json:"annotations"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "sales", out.Key)
	assert.Equal(t, 300.0, out.Size.Width)
	require.Len(t, out.Annotations, 1)
	assert.Equal(t, "marker", out.Annotations[0].Kind)

	// Same key and revision: served from the frame cache.
	resp, again := do(t, http.MethodPost, ts.URL+"/v1/frame", chartJSON("sales", "v1"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hit", resp.Header.Get(HeaderCache))
	assert.JSONEq(t, string(body), string(again))

	// A different size is a different cache entry.
	resp, _ = do(t, http.MethodPost, ts.URL+"/v1/frame?width=600&height=400", chartJSON("sales", "v1"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "miss", resp.Header.Get(HeaderCache))
}

func TestPostFrameSharedCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	first := httptest.NewServer(New(pipeline.NewRunner(c, nil, nil)).Handler())
	t.Cleanup(first.Close)
	second := httptest.NewServer(New(pipeline.NewRunner(c, nil, nil)).Handler())
	t.Cleanup(second.Close)

	resp, _ := do(t, http.MethodPost, first.URL+"/v1/frame", chartJSON("sales", "v1"))
	require.Equal(t, "miss", resp.Header.Get(HeaderCache))

	// The second instance is served from the shared cache but still keeps
	// the chart for later requests.
	resp, _ = do(t, http.MethodPost, second.URL+"/v1/frame", chartJSON("sales", "v1"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hit", resp.Header.Get(HeaderCache))

	resp, body := do(t, http.MethodPost, second.URL+"/v1/frames/sales/hover", `{"datum": {"x": 5, "y": 4}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, _ = do(t, http.MethodGet, second.URL+"/v1/frames/sales", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPostFrameWithoutKey(t *testing.T) {
	ts := newTestServer(t)
	resp, body := do(t, http.MethodPost, ts.URL+"/v1/frame?pretty=true", chartJSON("", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "none", resp.Header.Get(HeaderCache))
	assert.Contains(t, string(body), "\n  ")
}

func TestPostFrameErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		url  string
		body string
		code xerrors.Code
	}{
		{"bad json", "/v1/frame", "{", xerrors.ErrCodeInvalidDocument},
		{"unknown field", "/v1/frame", `{"widht": 1}`, xerrors.ErrCodeInvalidDocument},
		{"bad key", "/v1/frame", chartJSON("a/b", ""), xerrors.ErrCodeInvalidInput},
		{"bad width", "/v1/frame?width=abc&height=1", chartJSON("k", ""), xerrors.ErrCodeInvalidSize},
		{"bad flag", "/v1/frame?annotations=maybe", chartJSON("k", ""), xerrors.ErrCodeInvalidInput},
		{"bad orient", "/v1/frame", `{"axes": [{"orient": "middle"}]}`, xerrors.ErrCodeInvalidOrient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, ts.URL+tt.url, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.code, errorCode(t, body))
		})
	}
}

func TestGetAndDeleteFrame(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/v1/frames/sales", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, xerrors.ErrCodeFrameNotFound, errorCode(t, body))

	resp, _ = do(t, http.MethodPost, ts.URL+"/v1/frame", chartJSON("sales", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, http.MethodGet, ts.URL+"/v1/frames/sales?annotations=false", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"annotations":[]`)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/v1/frames/sales", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, http.MethodDelete, ts.URL+"/v1/frames/sales", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHover(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := do(t, http.MethodPost, ts.URL+"/v1/frame", chartJSON("sales", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, http.MethodPost, ts.URL+"/v1/frames/sales/hover", `{"datum": {"x": 5, "y": 4}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out struct {
		Tooltip *annotation.Tooltip `json:"tooltip"`
		Marker  json.RawMessage     `json:"marker"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotNil(t, out.Tooltip)
	assert.Equal(t, []string{"5", "4"}, out.Tooltip.Lines)
	assert.NotEqual(t, "null", string(out.Marker))

	resp, body = do(t, http.MethodPost, ts.URL+"/v1/frames/sales/hover", `{"datum": {"x": "bad"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, xerrors.ErrCodeInvalidAnnotation, errorCode(t, body))

	resp, _ = do(t, http.MethodPost, ts.URL+"/v1/frames/sales/hover", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, ts.URL+"/v1/frames/other/hover", `{"datum": {"x": 1}}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/v1/render", chartJSON("sales", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(string(body), "<svg"))
	assert.Equal(t, "miss", resp.Header.Get(HeaderCache))

	resp, again := do(t, http.MethodPost, ts.URL+"/v1/render", chartJSON("sales", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hit", resp.Header.Get(HeaderCache))
	assert.Equal(t, body, again)

	resp, body = do(t, http.MethodPost, ts.URL+"/v1/render?format=json", chartJSON("sales", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.True(t, json.Valid(body))

	resp, body = do(t, http.MethodPost, ts.URL+"/v1/render?format=png", chartJSON("sales", ""))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, xerrors.ErrCodeInvalidFormat, errorCode(t, body))
}

func TestEviction(t *testing.T) {
	ts := newTestServer(t, WithMaxFrames(1))

	resp, _ := do(t, http.MethodPost, ts.URL+"/v1/frame", chartJSON("a", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, http.MethodPost, ts.URL+"/v1/frame", chartJSON("b", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/v1/frames/a", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, http.MethodGet, ts.URL+"/v1/frames/b", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

type serverRecorder struct {
	observability.NoopServerHooks
	mu       sync.Mutex
	patterns []string
	statuses []int
}

func (h *serverRecorder) OnResponse(_ context.Context, _, path string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.patterns = append(h.patterns, path)
	h.statuses = append(h.statuses, status)
}

func TestServerHooks(t *testing.T) {
	rec := &serverRecorder{}
	observability.SetServerHooks(rec)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	do(t, http.MethodPost, ts.URL+"/v1/frame", chartJSON("sales", ""))
	do(t, http.MethodGet, ts.URL+"/v1/frames/nope", "")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.patterns, 2)
	assert.Equal(t, "/v1/frame", rec.patterns[0])
	assert.Equal(t, http.StatusOK, rec.statuses[0])
	assert.Contains(t, rec.patterns[1], "{key}")
	assert.Equal(t, http.StatusNotFound, rec.statuses[1])
}
