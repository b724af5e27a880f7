package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/xyframe/pkg/chartio"
	xerrors "github.com/matzehuels/xyframe/pkg/errors"
	"github.com/matzehuels/xyframe/pkg/observability"
	"github.com/matzehuels/xyframe/pkg/sink"
)

const sampleChart = `{
  "key": "sales",
  "width": 300,
  "height": 200,
  "lines": [{"id": "north", "coordinates": [{"x": 0, "y": 1}, {"x": 10, "y": 8}]}],
  "points": [{"x": 5, "y": 4}],
  "axes": [{"orient": "left"}, {"orient": "bottom"}],
  "annotations": [
    {"type": "xy", "x": 5, "y": 4, "label": "mid"},
    {"type": "xy", "x": "bad"},
    {"type": "nope"}
  ]
}`

func sampleDoc(t *testing.T) *chartio.Document {
	t.Helper()
	doc, err := chartio.ReadJSON(strings.NewReader(sampleChart))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return doc
}

// memCache is an in-memory cache.Cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("empty options should pass: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	opts = Options{Formats: []string{"svg", "png"}}
	err := opts.ValidateAndSetDefaults()
	if !xerrors.Is(err, xerrors.ErrCodeInvalidFormat) {
		t.Errorf("png should be rejected with INVALID_FORMAT, got %v", err)
	}

	opts = Options{Width: 100, Height: -1}
	if err := opts.ValidateAndSetDefaults(); !xerrors.Is(err, xerrors.ErrCodeInvalidSize) {
		t.Errorf("negative height should be rejected with INVALID_SIZE, got %v", err)
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"json"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first validation failed: %v", err)
	}
	logger := opts.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second validation failed: %v", err)
	}
	if opts.Logger != logger {
		t.Error("Logger changed on second call")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Pretty: true, NoAnnotations: true}
	if k := opts.ArtifactKeyOpts(FormatSVG); k.Pretty || k.Annotations || k.Theme != "" {
		t.Errorf("unexpected svg key opts: %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatJSON); !k.Pretty {
		t.Error("pretty should apply to json")
	}

	theme := sink.DefaultTheme
	opts.Theme = &theme
	if k := opts.ArtifactKeyOpts(FormatSVG); k.Theme == "" {
		t.Error("theme should be part of the svg key")
	}
	if k := opts.ArtifactKeyOpts(FormatJSON); k.Theme != "" {
		t.Error("theme should not affect the json key")
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	res, err := r.Execute(ctx, sampleDoc(t), Options{Formats: []string{"svg", "json"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Frame.Key != "sales" {
		t.Errorf("frame key = %q, want sales", res.Frame.Key)
	}
	if res.Stats.Records != 3 {
		t.Errorf("records = %d, want 3", res.Stats.Records)
	}
	if len(res.Skipped) != 1 {
		t.Errorf("skipped = %v, want one unknown descriptor", res.Skipped)
	}
	if res.Stats.Annotations != 1 || res.Stats.Dropped != 1 {
		t.Errorf("annotations = %d dropped = %d, want 1 and 1", res.Stats.Annotations, res.Stats.Dropped)
	}
	if res.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if !strings.HasPrefix(string(res.Artifacts["svg"]), "<svg") {
		t.Error("svg artifact missing")
	}
	var decoded map[string]any
	if err := json.Unmarshal(res.Artifacts["json"], &decoded); err != nil {
		t.Errorf("json artifact should decode: %v", err)
	}
	if c.sets != 2 {
		t.Errorf("cache sets = %d, want 2", c.sets)
	}

	again, err := r.Execute(ctx, sampleDoc(t), Options{Formats: []string{"svg", "json"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !again.CacheInfo.RenderHit {
		t.Error("second run should hit the cache")
	}
	if again.DocHash != res.DocHash {
		t.Error("doc hash should be stable")
	}

	refreshed, err := r.Execute(ctx, sampleDoc(t), Options{Formats: []string{"svg", "json"}, Refresh: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if refreshed.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), sampleDoc(t), Options{
		Formats:       []string{"svg"},
		Width:         640,
		Height:        480,
		NoAnnotations: true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Frame.Size.W != 640 || res.Frame.Size.H != 480 {
		t.Errorf("size = %+v, want 640x480", res.Frame.Size)
	}
	if strings.Contains(string(res.Artifacts["svg"]), `class="annotations"`) {
		t.Error("annotations should not be drawn")
	}
}

func TestExecuteInvalidDocument(t *testing.T) {
	doc := sampleDoc(t)
	doc.Axes = append(doc.Axes, chartio.Axis{Orient: "middle"})
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), doc, Options{})
	if !xerrors.Is(err, xerrors.ErrCodeInvalidOrient) {
		t.Errorf("want INVALID_ORIENT, got %v", err)
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	a, _, err := BuildFrame(context.Background(), sampleDoc(t), Options{})
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	_, err = render(a.Current(), nil, Options{Formats: []string{"png"}})
	if !xerrors.Is(err, xerrors.ErrCodeUnsupported) {
		t.Errorf("want UNSUPPORTED, got %v", err)
	}
}

type loadRecorder struct {
	observability.NoopPipelineHooks
	mu      sync.Mutex
	records []int
	errs    []error
}

func (h *loadRecorder) OnLoadComplete(_ context.Context, _ string, records int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, records)
	h.errs = append(h.errs, err)
}

func TestLoad(t *testing.T) {
	rec := &loadRecorder{}
	observability.SetPipelineHooks(rec)
	t.Cleanup(observability.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "chart.json")
	if err := os.WriteFile(path, []byte(sampleChart), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	doc, err := Load(ctx, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Key != "sales" {
		t.Errorf("key = %q, want sales", doc.Key)
	}

	if _, err := Load(ctx, filepath.Join(dir, "missing.json")); !xerrors.Is(err, xerrors.ErrCodeFileNotFound) {
		t.Errorf("want FILE_NOT_FOUND, got %v", err)
	}

	if _, err := LoadJSON(ctx, "inline", strings.NewReader(sampleChart)); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.records) != 3 || rec.records[0] != 3 || rec.records[2] != 3 {
		t.Errorf("load records = %v, want [3 0 3]", rec.records)
	}
	if rec.errs[1] == nil {
		t.Error("missing file should be reported to hooks")
	}
}
