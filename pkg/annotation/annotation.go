// Package annotation resolves declarative annotation descriptors into
// screen-space geometry.
//
// Descriptors form a closed set of kinds; each kind is a value type that
// implements [Annotation]. A [Resolver] turns a descriptor into a
// [Geometry] in this order:
//
//  1. a caller-supplied [Rule], when set and returning non-nil, is the
//     result and no built-in rule runs;
//  2. otherwise the built-in rule for the descriptor's kind runs.
//
// Single-point kinds are placed with the frame's [project.Locator], so a
// point without its own y lands on the line it names exactly as projected
// data does. Coordinate lists are mapped vertex by vertex and offset by the
// adjusted chart position.
//
// Resolution never fails: a descriptor that cannot be placed yields nil and
// is reported to the resolver's drop handler.
package annotation

import (
	"github.com/matzehuels/xyframe/pkg/data"
	"github.com/matzehuels/xyframe/pkg/geom"
)

// Annotation is a declarative overlay descriptor. The set of kinds is
// closed; see the types in this file.
type Annotation interface {
	// Kind returns the descriptor's type tag (e.g. "xy", "enclose").
	Kind() string
	annotation()
}

// Note is the text attached to an annotation.
type Note struct {
	Title string `json:"title,omitempty"`
	Label string `json:"label,omitempty"`
}

// Empty reports whether the note has no text.
func (n Note) Empty() bool { return n.Title == "" && n.Label == "" }

// XY marks a single data point.
type XY struct {
	Point data.Record
	Label string
	Class string
}

// FrameHover marks the hovered data point. Percent, when set and non-zero,
// is appended to its tooltip.
type FrameHover struct {
	Point   data.Record
	Percent *float64
	Class   string
}

// Callout is a generic note connected to a data point. When At is set it
// is used as the anchor verbatim, in plot coordinates.
type Callout struct {
	Point  data.Record
	At     *geom.Point
	DX, DY float64
	Note   Note
	Class  string
}

// Enclose draws the smallest circle around its coordinates.
type Enclose struct {
	Coordinates []data.Record
	Padding     float64
	Note        Note
	Class       string
}

// EncloseRect draws the bounding rectangle around its coordinates.
type EncloseRect struct {
	Coordinates []data.Record
	Padding     float64
	Note        Note
	Class       string
}

// XLine draws a vertical reference line across the plot at the point's x.
type XLine struct {
	Point data.Record
	Note  Note
	Class string
}

// YLine draws a horizontal reference line across the plot at the point's y.
type YLine struct {
	Point data.Record
	Note  Note
	Class string
}

// Bounds draws a rectangle between one or two corner records. A corner
// value that does not resolve falls back to the plot edge.
type Bounds struct {
	Bounds []data.Record
	Note   Note
	Class  string
}

// Line draws a polyline through its coordinates.
type Line struct {
	Coordinates []data.Record
	Note        Note
	Class       string
}

// Area draws a closed polygon through its coordinates.
type Area struct {
	Coordinates []data.Record
	Note        Note
	Class       string
}

// HorizontalPoints highlights every point and line member sharing the
// point's y value.
type HorizontalPoints struct {
	Point data.Record
	Class string
}

// VerticalPoints highlights every point and line member sharing the
// point's x value.
type VerticalPoints struct {
	Point data.Record
	Class string
}

func (XY) Kind() string               { return "xy" }
func (FrameHover) Kind() string       { return "frame-hover" }
func (Callout) Kind() string          { return "react-annotation" }
func (Enclose) Kind() string          { return "enclose" }
func (EncloseRect) Kind() string      { return "enclose-rect" }
func (XLine) Kind() string            { return "x" }
func (YLine) Kind() string            { return "y" }
func (Bounds) Kind() string           { return "bounds" }
func (Line) Kind() string             { return "line" }
func (Area) Kind() string             { return "area" }
func (HorizontalPoints) Kind() string { return "horizontal-points" }
func (VerticalPoints) Kind() string   { return "vertical-points" }

func (XY) annotation()               {}
func (FrameHover) annotation()       {}
func (Callout) annotation()          {}
func (Enclose) annotation()          {}
func (EncloseRect) annotation()      {}
func (XLine) annotation()            {}
func (YLine) annotation()            {}
func (Bounds) annotation()           {}
func (Line) annotation()             {}
func (Area) annotation()             {}
func (HorizontalPoints) annotation() {}
func (VerticalPoints) annotation()   {}

// Kinds lists every descriptor type tag.
var Kinds = []string{
	"xy", "frame-hover", "react-annotation", "enclose", "enclose-rect",
	"x", "y", "bounds", "line", "area", "horizontal-points", "vertical-points",
}

// anchored is implemented by kinds placed at a single record.
type anchored interface {
	anchor() data.Record
}

// shaped is implemented by kinds defined by a coordinate list.
type shaped interface {
	coordinates() []data.Record
}

// Positioned reports whether the geometry of a already includes the chart
// position. Only kinds defined by a coordinate list are offset; all other
// geometry is relative to the plot origin.
func Positioned(a Annotation) bool {
	_, ok := a.(shaped)
	return ok
}

func (a XY) anchor() data.Record               { return a.Point }
func (a FrameHover) anchor() data.Record       { return a.Point }
func (a Callout) anchor() data.Record          { return a.Point }
func (a XLine) anchor() data.Record            { return a.Point }
func (a YLine) anchor() data.Record            { return a.Point }
func (a HorizontalPoints) anchor() data.Record { return a.Point }
func (a VerticalPoints) anchor() data.Record   { return a.Point }

func (a Enclose) coordinates() []data.Record     { return a.Coordinates }
func (a EncloseRect) coordinates() []data.Record { return a.Coordinates }
func (a Line) coordinates() []data.Record        { return a.Coordinates }
func (a Area) coordinates() []data.Record        { return a.Coordinates }
