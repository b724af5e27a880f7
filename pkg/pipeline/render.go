package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/xyframe/pkg/annotation"
	xerrors "github.com/matzehuels/xyframe/pkg/errors"
	"github.com/matzehuels/xyframe/pkg/frame"
	"github.com/matzehuels/xyframe/pkg/observability"
	"github.com/matzehuels/xyframe/pkg/sink"
)

// Render encodes f in every requested format. resolved are the frame's
// resolved annotations; they are ignored when opts.NoAnnotations is set.
func Render(ctx context.Context, f *frame.Frame, resolved []annotation.Resolved, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := render(f, resolved, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func render(f *frame.Frame, resolved []annotation.Resolved, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(f, svgOptions(resolved, opts)...)
		case FormatJSON:
			data, err = sink.RenderJSON(f, jsonOptions(resolved, opts)...)
		default:
			return nil, xerrors.New(xerrors.ErrCodeUnsupported, "unsupported format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func svgOptions(resolved []annotation.Resolved, opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.Theme != nil {
		out = append(out, sink.WithTheme(*opts.Theme))
	}
	if opts.NoAnnotations {
		return append(out, sink.WithoutAnnotations())
	}
	return append(out, sink.WithAnnotations(resolved))
}

func jsonOptions(resolved []annotation.Resolved, opts Options) []sink.JSONOption {
	if opts.NoAnnotations {
		resolved = nil
	}
	out := []sink.JSONOption{sink.WithJSONAnnotations(resolved)}
	if !opts.Pretty {
		out = append(out, sink.WithJSONCompact())
	}
	return out
}
