package project

import (
	"github.com/matzehuels/xyframe/pkg/data"
	"github.com/matzehuels/xyframe/pkg/geom"
)

// Kind identifies the layer a datum belongs to.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindArea
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindArea:
		return "area"
	default:
		return "point"
	}
}

// Coord is a projected position with its vertical band.
// For records without a band, YTop, YMiddle and YBottom equal Y.
type Coord struct {
	X, Y, YTop, YMiddle, YBottom float64
}

// Datum is a record decorated with its projected coordinates.
type Datum struct {
	Record data.Record
	Kind   Kind
	// Index is the record's position in its layer or parent group.
	Index int

	// Line or Area is set for records that belong to a group.
	Line *data.Line
	Area *data.Area

	Data   Coord
	Screen Coord

	// HasX and HasY report which data-space values resolved.
	HasX, HasY bool
	// Interpolated is set when Y was derived from neighbouring line samples.
	Interpolated bool
	// Valid is set once both screen coordinates are finite.
	Valid bool
}

// Point returns the datum's screen position (using the band middle).
func (d *Datum) Point() geom.Point {
	return geom.Point{X: d.Screen.X, Y: d.Screen.YMiddle}
}

// Parent returns the record of the group the datum belongs to, or nil.
func (d *Datum) Parent() data.Record {
	switch {
	case d.Line != nil:
		return d.Line.Record()
	case d.Area != nil:
		return d.Area.Record()
	default:
		return nil
	}
}

// Flatten returns the record with its parent group's fields laid over it,
// the shape used when exporting every point with its series context.
func (d *Datum) Flatten() data.Record {
	if p := d.Parent(); p != nil {
		return d.Record.Merge(p)
	}
	return d.Record.Clone()
}

// LineLayer is one projected line.
type LineLayer struct {
	Line *data.Line
	Data []Datum
}

// Points returns the screen positions of the line's valid data, in order.
func (l LineLayer) Points() []geom.Point {
	return validPoints(l.Data)
}

// AreaLayer is one projected area.
type AreaLayer struct {
	Area *data.Area
	Data []Datum
}

// Points returns the screen positions of the area's valid vertices.
func (a AreaLayer) Points() []geom.Point {
	return validPoints(a.Data)
}

func validPoints(ds []Datum) []geom.Point {
	out := make([]geom.Point, 0, len(ds))
	for i := range ds {
		if ds[i].Valid {
			out = append(out, ds[i].Point())
		}
	}
	return out
}
