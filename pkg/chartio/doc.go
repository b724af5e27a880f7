// Package chartio reads chart definitions from JSON and TOML.
//
// A chart definition is a [Document]: the datasets, accessor field names,
// extent settings, axes, annotations and decorations of one chart. It is
// the declarative counterpart of [frame.Inputs]; accessor functions are
// expressed as field names and annotation descriptors as flat records.
//
// # JSON Format
//
//	{
//	  "key": "revenue",
//	  "width": 600, "height": 400,
//	  "title": "Revenue",
//	  "lines": [
//	    {"id": "2023", "coordinates": [{"month": 1, "value": 10}, {"month": 2, "value": 14}]}
//	  ],
//	  "x": "month", "y": "value",
//	  "axes": [{"orient": "left"}, {"orient": "bottom", "label": "month"}],
//	  "annotations": [
//	    {"type": "x", "month": 2, "label": "launch"},
//	    {"type": "enclose", "coordinates": [{"month": 1, "value": 10}], "padding": 4}
//	  ]
//	}
//
// The same keys are used in TOML. "margin" accepts a number for a uniform
// margin or a table with top, right, bottom and left.
//
// # Annotations
//
// Each descriptor is a record whose "type" names the annotation kind (see
// [annotation.Kinds]). The descriptor itself is the annotated datum, so
// its x and y fields are read through the chart's accessors. Descriptors
// that cannot be decoded are reported by [Document.Inputs] and skipped;
// they never fail the chart.
//
// # Import
//
// Use [ImportFile] to read a definition by path (the format follows the
// extension), or [ReadJSON] and [ReadTOML] to read from any io.Reader:
//
//	doc, err := chartio.ImportFile("revenue.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	in, skipped, err := doc.Inputs()
//
// [frame.Inputs]: github.com/matzehuels/xyframe/pkg/frame.Inputs
// [annotation.Kinds]: github.com/matzehuels/xyframe/pkg/annotation.Kinds
package chartio
