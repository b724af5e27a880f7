// Package pipeline runs the load → frame → render pipeline for xyframe.
//
// The CLI and the HTTP server share this package so that a chart
// definition produces the same frame and the same artifacts whichever way
// it is submitted.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a chart definition from a JSON or TOML file
//  2. Frame: Convert the definition to frame inputs and recompute the frame
//  3. Render: Resolve annotations and encode the frame (SVG, JSON)
//
// Rendered artifacts are cached by a hash of the definition and the render
// options. Frames are not cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	doc, err := pipeline.Load(ctx, "chart.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, doc, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/xyframe/pkg/annotation"
	"github.com/matzehuels/xyframe/pkg/cache"
	xerrors "github.com/matzehuels/xyframe/pkg/errors"
	"github.com/matzehuels/xyframe/pkg/frame"
	"github.com/matzehuels/xyframe/pkg/sink"
)

// Format constants for output formats.
const (
	FormatSVG  = xerrors.FormatSVG
	FormatJSON = xerrors.FormatJSON
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatSVG

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the render configuration of one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Formats []string `json:"formats,omitempty"`

	// Width and Height override the definition's frame size when both are
	// set.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	NoAnnotations bool `json:"no_annotations,omitempty"`
	Pretty        bool `json:"pretty,omitempty"` // Indent JSON output
	Refresh       bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Theme  *sink.Theme `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Frame is the recomputed frame.
	Frame *frame.Frame

	// Resolved holds the annotations that produced geometry.
	Resolved []annotation.Resolved

	// Skipped holds descriptors that could not be decoded.
	Skipped []error

	// DocHash is the content hash of the chart definition.
	DocHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records     int
	Annotations int
	Dropped     int
	FrameTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := xerrors.ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Width != 0 || o.Height != 0 {
		if err := xerrors.ValidateSize(o.Width, o.Height); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// OverridesSize reports whether Width and Height replace the definition's
// size.
func (o *Options) OverridesSize() bool {
	return o.Width > 0 && o.Height > 0
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:      format,
		Width:       o.Width,
		Height:      o.Height,
		Annotations: !o.NoAnnotations,
		Pretty:      o.Pretty && format == FormatJSON,
	}
	if o.Theme != nil && format == FormatSVG {
		if data, err := json.Marshal(o.Theme); err == nil {
			k.Theme = cache.Hash(data)
		}
	}
	return k
}
