// Package sink provides output format renderers for chart frames.
//
// # Overview
//
// A "sink" transforms a computed [frame.Frame] into a final output format.
// This package provides renderers for:
//
//   - SVG: a static drawing of the frame
//   - JSON: frame state export for external renderers
//
// Sinks only read the frame. Annotations are resolved on every call unless
// already resolved annotations are passed in, so the same frame can be
// rendered with different annotation sets.
//
// # SVG Output
//
// [RenderSVG] draws the layers in the frame's draw order, then axes,
// annotations, the matte, the title and the legend:
//
//	svg := sink.RenderSVG(f,
//	    sink.WithTheme(sink.DefaultTheme),
//	    sink.WithAnnotations(assembler.Resolve(ctx)),
//	)
//
// # SVG Options
//
//   - [WithTheme]: Colors for strokes, fills, axes and text
//   - [WithAnnotations]: Use already resolved annotations
//   - [WithoutAnnotations]: Skip annotations entirely
//
// # JSON Output
//
// [RenderJSON] exports sizes, extents, projected layers, axis geometry and
// resolved annotations. Records are exported as-is, so any value that
// encodes as JSON survives the export.
//
// [frame.Frame]: github.com/matzehuels/xyframe/pkg/frame.Frame
package sink
