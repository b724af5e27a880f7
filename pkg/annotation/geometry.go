package annotation

import (
	"github.com/matzehuels/xyframe/pkg/data"
	"github.com/matzehuels/xyframe/pkg/geom"
)

// Geometry is a resolved draw instruction. Custom rules may return their
// own implementations; sinks draw the kinds they know and skip the rest.
type Geometry interface {
	Kind() string
}

// Marker is a circle at a point.
type Marker struct {
	Center geom.Point
	R      float64
	Label  string
	Class  string
}

// Label is a note offset from its anchor by (DX, DY).
type Label struct {
	Anchor geom.Point
	DX, DY float64
	Note   Note
	Class  string
}

// Circle encloses a set of points.
type Circle struct {
	Circle geom.Circle
	Note   Note
	Class  string
}

// Box is an axis-aligned rectangle.
type Box struct {
	Rect  geom.Rect
	Note  Note
	Class string
}

// Reference is a line spanning the plot with a note near one end.
type Reference struct {
	Line   geom.Segment
	NoteAt geom.Point
	DX, DY float64
	Note   Note
	Class  string
}

// Path is a polyline, or a polygon when Closed is set.
type Path struct {
	Points []geom.Point
	Closed bool
	Note   Note
	Class  string
}

// StyledPoint is one highlighted point of a [Cluster].
type StyledPoint struct {
	Center geom.Point
	Style  data.Style
}

// Cluster is a set of highlighted data points.
type Cluster struct {
	Points []StyledPoint
	Class  string
}

func (Marker) Kind() string    { return "marker" }
func (Label) Kind() string     { return "label" }
func (Circle) Kind() string    { return "circle" }
func (Box) Kind() string       { return "box" }
func (Reference) Kind() string { return "reference" }
func (Path) Kind() string      { return "path" }
func (Cluster) Kind() string   { return "cluster" }

// Tooltip is an HTML-targeted annotation: lines of text at a screen point.
type Tooltip struct {
	At    geom.Point
	Lines []string
	Class string
}
