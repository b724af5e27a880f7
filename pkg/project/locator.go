package project

import (
	"github.com/matzehuels/xyframe/pkg/data"
	"github.com/matzehuels/xyframe/pkg/geom"
	"github.com/matzehuels/xyframe/pkg/scale"
)

// Locator places arbitrary records on screen with the same rules the
// projector applies to layer data. It is read-only and safe to share.
type Locator struct {
	x, y   scale.Scale
	acc    Accessors
	index  lineIndex
	offset geom.Point
}

// NewLocator returns a locator over the given scales and projected layers.
// offset is added to vertices of explicit coordinate lists.
func NewLocator(x, y scale.Scale, acc Accessors, layers Layers, offset geom.Point) *Locator {
	return &Locator{x: x, y: y, acc: acc.Normalize(), index: layers.index, offset: offset}
}

// Locate returns the screen position of rec relative to the plot origin.
func (l *Locator) Locate(rec data.Record) (geom.Point, bool) {
	if l == nil || l.x == nil || l.y == nil {
		return geom.Point{}, false
	}
	x, y, ok := l.DataPoint(rec)
	if !ok {
		return geom.Point{}, false
	}
	p := geom.Point{X: l.x.Map(x), Y: l.y.Map(y)}
	return p, p.Valid()
}

// DataPoint resolves the data-space position of rec. A record without its
// own y is placed on the line it names, if any.
func (l *Locator) DataPoint(rec data.Record) (x, y float64, ok bool) {
	d := resolve(rec, l.acc)
	if !d.HasX {
		return 0, 0, false
	}
	if d.HasY {
		return d.Data.X, d.Data.YMiddle, true
	}
	id, ok := l.acc.LineID(rec)
	if !ok {
		return 0, 0, false
	}
	y, ok = l.index.interpolate(id, d.Data.X)
	return d.Data.X, y, ok
}

// LocateDatum returns the position of an already projected datum.
func (l *Locator) LocateDatum(d *Datum) (geom.Point, bool) {
	if d == nil || !d.Valid {
		return geom.Point{}, false
	}
	return d.Point(), true
}

// Vertices maps every record of an explicit coordinate list and offsets it
// by the adjusted chart position. It fails when any vertex is invalid or
// the list is empty.
func (l *Locator) Vertices(coords []data.Record) ([]geom.Point, bool) {
	if len(coords) == 0 {
		return nil, false
	}
	out := make([]geom.Point, len(coords))
	for i, c := range coords {
		p, ok := l.Locate(c)
		if !ok {
			return nil, false
		}
		out[i] = p.Add(l.offset)
	}
	return out, true
}

// X maps a data-space x value.
func (l *Locator) X(v float64) float64 { return l.x.Map(v) }

// Y maps a data-space y value.
func (l *Locator) Y(v float64) float64 { return l.y.Map(v) }

// Accessors returns the normalized accessors the locator resolves with.
func (l *Locator) Accessors() Accessors { return l.acc }
