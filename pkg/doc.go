// Package pkg provides the libraries behind xyframe, which turns XY chart
// data into drawable geometry.
//
// # Overview
//
// A chart is described by its size, margins, data layers (lines, areas and
// points), axes and annotations. xyframe computes everything a renderer
// needs to draw it: extents, pixel scales, projected coordinates, tick
// positions and the screen geometry of every annotation.
//
// # Architecture
//
// The data flow for one frame:
//
//	chart definition (JSON / TOML)
//	         ↓
//	    [chartio] (decode into frame inputs)
//	         ↓
//	    [frame] (extents → scales → projection → axes)
//	         ↓
//	    [annotation] (resolve descriptors into geometry)
//	         ↓
//	    [sink] (SVG / JSON)
//
// # Quick Start
//
//	doc, _ := chartio.ImportFile("sales.json")
//	in, _, _ := doc.Inputs()
//
//	a := frame.NewAssembler(frame.WithKey(doc.Key))
//	a.Update(ctx, in)
//
//	svg := sink.RenderSVG(a.Current(), sink.WithAnnotations(a.Resolve(ctx)))
//
// # Main Packages
//
// ## Core
//
// [data] - Records, groups and accessors. Data points are untyped records;
// accessors read numeric fields from them.
//
// [extent] - Data extents with explicit bounds, inversion and change
// notification.
//
// [scale] - Linear data-to-pixel scales and tick selection.
//
// [project] - Projection of every layer through the scales, line gap
// filling and interpolation, and the [project.Locator] used to place
// annotations.
//
// [axis] - Tick and label geometry for top, right, bottom and left axes.
//
// [annotation] - Annotation descriptors, the resolver that turns them into
// geometry, and hover tooltips.
//
// [frame] - Frame assembly. [frame.Recompute] skips all work when nothing
// that affects the frame changed; [frame.Assembler] keeps the previous
// frame for a chart.
//
// [geom] - Points, sizes, margins and shapes shared by the other packages.
//
// ## Infrastructure
//
// [chartio] - Chart definition files and annotation descriptor decoding.
//
// [sink] - SVG and JSON renderers.
//
// [cache] - Artifact and frame caches (null, file, Redis) and key builders.
//
// [pipeline] - Load → frame → render used by the CLI and the server, with
// artifact caching.
//
// [server] - HTTP API keeping one assembler per chart key.
//
// [observability] - Hooks for metrics and tracing, no-ops by default.
//
// [errors] - Error codes and input validation.
//
// # Testing
//
//	go test ./pkg/...
//	go test ./pkg/frame/...
//
// [data]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/data
// [extent]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/extent
// [scale]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/scale
// [project]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/project
// [project.Locator]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/project#Locator
// [axis]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/axis
// [annotation]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/annotation
// [frame]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/frame
// [frame.Recompute]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/frame#Recompute
// [frame.Assembler]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/frame#Assembler
// [geom]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/geom
// [chartio]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/chartio
// [sink]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/sink
// [cache]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/xyframe/pkg/errors
package pkg
