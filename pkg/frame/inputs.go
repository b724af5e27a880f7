package frame

import (
	"github.com/matzehuels/xyframe/pkg/annotation"
	"github.com/matzehuels/xyframe/pkg/axis"
	"github.com/matzehuels/xyframe/pkg/data"
	"github.com/matzehuels/xyframe/pkg/extent"
	"github.com/matzehuels/xyframe/pkg/geom"
	"github.com/matzehuels/xyframe/pkg/project"
	"github.com/matzehuels/xyframe/pkg/scale"
)

// Default frame size.
const (
	DefaultWidth  = 500
	DefaultHeight = 500
)

// Accessor declares a numeric accessor either by field name or as a
// function. Func wins when both are set.
type Accessor struct {
	Field string
	Func  data.Accessor
}

func (a Accessor) resolve(fallback data.Accessor) data.Accessor {
	return data.Resolve(a.Field, a.Func, fallback)
}

func (a Accessor) declared() bool { return a.Field != "" || a.Func != nil }

// IDAccessor declares a group identifier accessor.
type IDAccessor struct {
	Field string
	Func  data.IDAccessor
}

// LayerStyle configures how one layer is drawn. Nil functions fall back to
// empty styles, empty classes and positional render keys.
type LayerStyle struct {
	Style     data.StyleFunc
	Class     data.ClassFunc
	RenderKey data.KeyFunc
}

// Legend configures the chart legend. When Groups is empty and the frame
// has lines, one group with an item per line is generated.
type Legend struct {
	Title  string
	Groups []LegendGroup
}

// LegendGroup is one block of legend items.
type LegendGroup struct {
	Label string
	// Type is "line" or "fill".
	Type  string
	Style data.StyleFunc
	Items []LegendItem
}

// LegendItem is one legend entry.
type LegendItem struct {
	Label  string
	Record data.Record
}

// Matte covers the margin with an opaque frame. Inset grows the plot
// opening on every side.
type Matte struct {
	Inset float64
}

// AreaLabel places a callout at an anchor of every area.
type AreaLabel struct {
	// Position names the anchor used, "center" by default.
	Position string
	DX, DY   float64
	Class    string
	// Content computes the label text. By default it is the area's
	// "value" field, then its id, then its index.
	Content func(a *data.Area, i int) string
}

// Inputs is everything one frame is computed from.
type Inputs struct {
	Lines  []data.Line
	Points []data.Record
	Areas  []data.Area

	X, Y          Accessor
	YTop, YBottom Accessor
	LineID        IDAccessor

	XExtent, YExtent extent.Settings
	XScale, YScale   scale.Factory

	// Size is the full frame size; zero means 500x500.
	Size     geom.Size
	Position geom.Point
	// Margin overrides the default margins derived from axes and title.
	Margin *geom.Margin

	Axes        []axis.Spec
	Annotations []annotation.Annotation

	Title     string
	Legend    *Legend
	Matte     *Matte
	LineType  string
	AreaLabel *AreaLabel

	LineStyle, PointStyle, AreaStyle LayerStyle

	// DataVersion is the revision token. When set and unchanged, the frame
	// is reused even if other inputs are not referentially stable.
	DataVersion string
	// Key identifies the frame across revisions. It does not affect
	// recomputation.
	Key string

	Rule           annotation.Rule
	HTMLRule       annotation.HTMLRule
	TooltipContent func(annotation.FrameHover) []string
}

func (in Inputs) withDefaults() Inputs {
	if in.Size.W == 0 && in.Size.H == 0 {
		in.Size = geom.Size{W: DefaultWidth, H: DefaultHeight}
	}
	return in
}

// accessors normalizes the accessor declarations once per recomputation.
func (in Inputs) accessors() project.Accessors {
	acc := project.Accessors{
		X:      in.X.resolve(data.Field("x")),
		Y:      in.Y.resolve(data.Field("y")),
		LineID: data.ResolveID(in.LineID.Field, in.LineID.Func, data.IDField(data.DefaultLineIDField)),
	}
	if in.YTop.declared() && in.YBottom.declared() {
		acc.YTop = in.YTop.resolve(nil)
		acc.YBottom = in.YBottom.resolve(nil)
	}
	return acc
}

func (in Inputs) dataset() project.Input {
	return project.Input{Lines: in.Lines, Points: in.Points, Areas: in.Areas}
}

// Records returns the number of records across all layers.
func (in Inputs) Records() int {
	n := len(in.Points)
	for _, l := range in.Lines {
		n += len(l.Coordinates)
	}
	for _, a := range in.Areas {
		n += len(a.Coordinates)
	}
	return n
}
