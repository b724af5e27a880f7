// Package geom holds the screen-space value types shared by the layout
// stages: points, sizes, margins, segments, rectangles and circles.
//
// All coordinates are in user units (pixels in SVG) with the origin at the
// top-left corner of the plot area.
package geom

import "math"

// Point is a screen-space position.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Valid reports whether both coordinates are finite numbers.
func (p Point) Valid() bool {
	return finite(p.X) && finite(p.Y)
}

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// Margin is the space reserved around the plot area.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Uniform returns a margin of v on every side.
func Uniform(v float64) Margin { return Margin{v, v, v, v} }

// Horizontal returns Left + Right.
func (m Margin) Horizontal() float64 { return m.Left + m.Right }

// Vertical returns Top + Bottom.
func (m Margin) Vertical() float64 { return m.Top + m.Bottom }

// Segment is a straight line between two points.
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// Length returns the euclidean length of the segment.
func (s Segment) Length() float64 { return math.Hypot(s.X2-s.X1, s.Y2-s.Y1) }

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Right returns X + W.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns Y + H.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Normalize returns r with non-negative width and height.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X, r.W = r.X+r.W, -r.W
	}
	if r.H < 0 {
		r.Y, r.H = r.Y+r.H, -r.H
	}
	return r
}

// BoundingRect returns the smallest rectangle containing pts.
// It returns false for an empty slice.
func BoundingRect(pts []Point) (Rect, bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

// Circle is a circle in screen space.
type Circle struct {
	X, Y, R float64
}

// Contains reports whether p lies inside c, with a small tolerance.
func (c Circle) Contains(p Point) bool {
	const eps = 1e-9
	return math.Hypot(p.X-c.X, p.Y-c.Y) <= c.R+eps
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
