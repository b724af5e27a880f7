package annotation

import (
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/xyframe/pkg/data"
	"github.com/matzehuels/xyframe/pkg/geom"
	"github.com/matzehuels/xyframe/pkg/project"
)

const (
	markerRadius = 5

	// Reference-line notes sit this far from the line's end.
	referenceDX = 50
	referenceDY = 20
)

// Env is the frame state annotations are resolved against. It is read-only.
type Env struct {
	Locator *project.Locator
	Layers  project.Layers

	// Size and Position are the adjusted plot size and offset.
	Size     geom.Size
	Position geom.Point
	Margin   geom.Margin

	// PointStyle styles the markers of point clusters.
	PointStyle data.StyleFunc
}

// Context is what a rule sees for one descriptor.
type Context struct {
	Annotation Annotation
	Index      int
	// Screen holds the descriptor's screen coordinates when they resolved:
	// one point for single-point kinds, the offset vertices for coordinate
	// lists, nothing otherwise.
	Screen []geom.Point
	Env    *Env
}

// Rule is a caller-supplied resolver. A non-nil result replaces the
// built-in rule for that descriptor.
type Rule func(Context) Geometry

// HTMLRule is the tooltip counterpart of [Rule].
type HTMLRule func(Context) *Tooltip

// DropFunc is told about descriptors that produced no geometry.
type DropFunc func(a Annotation, index int, reason string)

// Resolver resolves descriptors against one frame. It never mutates the
// frame and may be called as often as needed, e.g. once per pointer move.
type Resolver struct {
	Env      Env
	Rule     Rule
	HTMLRule HTMLRule
	// TooltipContent, when set, replaces the default tooltip lines of a
	// frame-hover descriptor.
	TooltipContent func(FrameHover) []string
	OnDrop         DropFunc
	Logger         *log.Logger
}

// NewResolver returns a resolver over env with only built-in rules.
func NewResolver(env Env) *Resolver {
	return &Resolver{Env: env, Logger: log.New(io.Discard)}
}

// Resolved pairs a descriptor with its geometry.
type Resolved struct {
	Index      int
	Annotation Annotation
	Geometry   Geometry
}

// ResolveAll resolves every descriptor and returns those that produced
// geometry, in input order.
func (r *Resolver) ResolveAll(list []Annotation) []Resolved {
	out := make([]Resolved, 0, len(list))
	for i, a := range list {
		if g := r.Resolve(a, i); g != nil {
			out = append(out, Resolved{Index: i, Annotation: a, Geometry: g})
		}
	}
	return out
}

// Resolve returns the geometry of one descriptor, or nil.
func (r *Resolver) Resolve(a Annotation, i int) Geometry {
	if a == nil {
		r.drop(a, i, "nil descriptor")
		return nil
	}
	ctx := r.context(a, i)
	if r.Rule != nil {
		if g := r.Rule(ctx); g != nil {
			return g
		}
	}
	g, reason := r.builtin(ctx)
	if g == nil {
		r.drop(a, i, reason)
	}
	return g
}

func (r *Resolver) context(a Annotation, i int) Context {
	ctx := Context{Annotation: a, Index: i, Env: &r.Env}
	loc := r.Env.Locator
	if loc == nil {
		return ctx
	}
	switch v := a.(type) {
	case Callout:
		if v.At != nil {
			ctx.Screen = []geom.Point{*v.At}
			return ctx
		}
	case shaped:
		if pts, ok := loc.Vertices(v.coordinates()); ok {
			ctx.Screen = pts
		}
		return ctx
	}
	if v, ok := a.(anchored); ok {
		if p, ok := loc.Locate(v.anchor()); ok {
			ctx.Screen = []geom.Point{p}
		}
	}
	return ctx
}

func (r *Resolver) builtin(ctx Context) (Geometry, string) {
	switch a := ctx.Annotation.(type) {
	case XY:
		if len(ctx.Screen) != 1 {
			return nil, "invalid coordinates"
		}
		return Marker{Center: ctx.Screen[0], R: markerRadius, Label: a.Label, Class: a.Class}, ""
	case FrameHover:
		if len(ctx.Screen) != 1 {
			return nil, "invalid coordinates"
		}
		return Marker{Center: ctx.Screen[0], R: markerRadius, Class: joinClass("frame-hover", a.Class)}, ""
	case Callout:
		if len(ctx.Screen) != 1 {
			return nil, "invalid coordinates"
		}
		return Label{Anchor: ctx.Screen[0], DX: a.DX, DY: a.DY, Note: a.Note, Class: a.Class}, ""
	case Enclose:
		c, ok := geom.Enclose(ctx.Screen)
		if !ok {
			return nil, shapeDropReason(a.Coordinates)
		}
		c.R += a.Padding
		return Circle{Circle: c, Note: a.Note, Class: a.Class}, ""
	case EncloseRect:
		rect, ok := geom.BoundingRect(ctx.Screen)
		if !ok {
			return nil, shapeDropReason(a.Coordinates)
		}
		rect = geom.Rect{X: rect.X - a.Padding, Y: rect.Y - a.Padding, W: rect.W + 2*a.Padding, H: rect.H + 2*a.Padding}
		return Box{Rect: rect, Note: a.Note, Class: a.Class}, ""
	case XLine:
		return r.xLine(a)
	case YLine:
		return r.yLine(a)
	case Bounds:
		return r.bounds(a)
	case Line:
		if len(ctx.Screen) < 2 {
			return nil, "line needs two valid coordinates"
		}
		return Path{Points: ctx.Screen, Note: a.Note, Class: a.Class}, ""
	case Area:
		if len(ctx.Screen) < 3 {
			return nil, "area needs three valid coordinates"
		}
		return Path{Points: ctx.Screen, Closed: true, Note: a.Note, Class: a.Class}, ""
	case HorizontalPoints:
		return r.cluster(a.Point, a.Class, true)
	case VerticalPoints:
		return r.cluster(a.Point, a.Class, false)
	default:
		return nil, "unknown kind"
	}
}

// shapeDropReason tells an absent coordinate list from one with a vertex
// that did not resolve.
func shapeDropReason(coords []data.Record) string {
	if len(coords) == 0 {
		return "missing coordinates"
	}
	return "invalid coordinates"
}

func (r *Resolver) accessors() (project.Accessors, bool) {
	if r.Env.Locator == nil {
		return project.Accessors{}, false
	}
	return r.Env.Locator.Accessors(), true
}

func (r *Resolver) xLine(a XLine) (Geometry, string) {
	acc, ok := r.accessors()
	if !ok {
		return nil, "no scales"
	}
	v, ok := acc.X(a.Point)
	if !ok {
		return nil, "invalid coordinates"
	}
	sx := r.Env.Locator.X(v)
	if !finite(sx) {
		return nil, "invalid coordinates"
	}
	return Reference{
		Line:   geom.Segment{X1: sx, Y1: 0, X2: sx, Y2: r.Env.Size.H},
		NoteAt: geom.Point{X: sx, Y: r.Env.Margin.Top},
		DX:     referenceDX,
		DY:     referenceDY,
		Note:   a.Note,
		Class:  joinClass("x-annotation", a.Class),
	}, ""
}

func (r *Resolver) yLine(a YLine) (Geometry, string) {
	acc, ok := r.accessors()
	if !ok {
		return nil, "no scales"
	}
	y, ok := acc.Y(a.Point)
	if !ok {
		// A point without its own y may still sit on a line.
		if _, y, ok = r.Env.Locator.DataPoint(a.Point); !ok {
			return nil, "invalid coordinates"
		}
	}
	sy := r.Env.Locator.Y(y)
	if !finite(sy) {
		return nil, "invalid coordinates"
	}
	return Reference{
		Line:   geom.Segment{X1: 0, Y1: sy, X2: r.Env.Size.W, Y2: sy},
		NoteAt: geom.Point{X: r.Env.Margin.Left, Y: sy},
		DX:     referenceDX,
		DY:     -referenceDY,
		Note:   a.Note,
		Class:  joinClass("y-annotation", a.Class),
	}, ""
}

// bounds builds a rectangle from one or two corners. An unresolved first
// corner falls back to the bottom-left of the plot, an unresolved second
// corner to the top-right.
func (r *Resolver) bounds(a Bounds) (Geometry, string) {
	acc, ok := r.accessors()
	if !ok {
		return nil, "no scales"
	}
	if len(a.Bounds) == 0 {
		return nil, "missing bounds"
	}
	loc, size := r.Env.Locator, r.Env.Size

	x0, y0 := 0.0, size.H
	x1, y1 := size.W, 0.0
	if v, ok := acc.X(a.Bounds[0]); ok {
		x0 = loc.X(v)
	}
	if v, ok := acc.Y(a.Bounds[0]); ok {
		y0 = loc.Y(v)
	}
	if len(a.Bounds) > 1 {
		if v, ok := acc.X(a.Bounds[1]); ok {
			x1 = loc.X(v)
		}
		if v, ok := acc.Y(a.Bounds[1]); ok {
			y1 = loc.Y(v)
		}
	}
	if !finite(x0) || !finite(y0) || !finite(x1) || !finite(y1) {
		return nil, "invalid coordinates"
	}
	rect := geom.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}.Normalize()
	return Box{Rect: rect, Note: a.Note, Class: joinClass("bounds-annotation", a.Class)}, ""
}

// cluster collects the valid points and line members whose y (horizontal)
// or x (vertical) equals the anchor's.
func (r *Resolver) cluster(anchor data.Record, class string, horizontal bool) (Geometry, string) {
	acc, ok := r.accessors()
	if !ok {
		return nil, "no scales"
	}
	var target float64
	if horizontal {
		target, ok = acc.Y(anchor)
	} else {
		target, ok = acc.X(anchor)
	}
	if !ok {
		return nil, "invalid coordinates"
	}

	style := r.Env.PointStyle
	var pts []StyledPoint
	for i := range r.Env.Layers.Full {
		d := &r.Env.Layers.Full[i]
		if d.Kind == project.KindArea {
			continue
		}
		v := d.Data.X
		if horizontal {
			v = d.Data.Y
		}
		if v != target {
			continue
		}
		sp := StyledPoint{Center: d.Point()}
		if style != nil {
			sp.Style = style(d.Record, d.Index)
		}
		pts = append(pts, sp)
	}
	if len(pts) == 0 {
		return nil, "no matching points"
	}
	return Cluster{Points: pts, Class: class}, ""
}

func (r *Resolver) drop(a Annotation, i int, reason string) {
	kind := "nil"
	if a != nil {
		kind = a.Kind()
	}
	if r.Logger != nil {
		r.Logger.Debug("annotation dropped", "index", i, "kind", kind, "reason", reason)
	}
	if r.OnDrop != nil {
		r.OnDrop(a, i, reason)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func joinClass(base, extra string) string {
	if extra == "" {
		return base
	}
	return base + " " + extra
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
