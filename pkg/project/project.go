package project

import (
	"sort"

	"github.com/matzehuels/xyframe/pkg/data"
	"github.com/matzehuels/xyframe/pkg/extent"
	"github.com/matzehuels/xyframe/pkg/geom"
	"github.com/matzehuels/xyframe/pkg/scale"
)

// Accessors are the resolved value accessors of one frame.
type Accessors struct {
	X, Y data.Accessor
	// YTop and YBottom are optional band accessors. When both resolve for a
	// record, its YMiddle is their midpoint.
	YTop, YBottom data.Accessor
	LineID        data.IDAccessor
}

// Normalize fills missing accessors with their defaults.
func (a Accessors) Normalize() Accessors {
	if a.X == nil {
		a.X = data.Undefined
	}
	if a.Y == nil {
		a.Y = data.Undefined
	}
	if a.LineID == nil {
		a.LineID = data.IDField(data.DefaultLineIDField)
	}
	return a
}

// Input is the raw dataset of one frame.
type Input struct {
	Lines  []data.Line
	Points []data.Record
	Areas  []data.Area
}

// Layers is the projected dataset, partitioned by layer.
type Layers struct {
	Lines  []LineLayer
	Points []Datum
	Areas  []AreaLayer
	// Full holds every valid datum: points, then line members, then area
	// vertices. It backs frame-wide behaviour such as hover targeting.
	Full []Datum

	index lineIndex
}

// Len returns the number of data across all layers, valid or not.
func (l Layers) Len() int {
	n := len(l.Points)
	for _, ll := range l.Lines {
		n += len(ll.Data)
	}
	for _, al := range l.Areas {
		n += len(al.Data)
	}
	return n
}

// Prepare resolves data-space coordinates for every record. It does not
// touch scales; call [Layers.Project] afterwards.
func Prepare(in Input, acc Accessors) Layers {
	acc = acc.Normalize()
	var out Layers

	out.Lines = make([]LineLayer, len(in.Lines))
	for i := range in.Lines {
		line := &in.Lines[i]
		ds := make([]Datum, len(line.Coordinates))
		for j, r := range line.Coordinates {
			ds[j] = resolve(r, acc)
			ds[j].Kind, ds[j].Index, ds[j].Line = KindLine, j, line
		}
		fillLineGaps(ds)
		out.Lines[i] = LineLayer{Line: line, Data: ds}
	}
	out.index = buildLineIndex(out.Lines)

	out.Points = make([]Datum, len(in.Points))
	for i, r := range in.Points {
		d := resolve(r, acc)
		d.Kind, d.Index = KindPoint, i
		if d.HasX && !d.HasY {
			if id, ok := acc.LineID(r); ok {
				if y, ok := out.index.interpolate(id, d.Data.X); ok {
					setY(&d, y)
					d.Interpolated = true
				}
			}
		}
		out.Points[i] = d
	}

	out.Areas = make([]AreaLayer, len(in.Areas))
	for i := range in.Areas {
		area := &in.Areas[i]
		ds := make([]Datum, len(area.Coordinates))
		for j, r := range area.Coordinates {
			ds[j] = resolve(r, acc)
			ds[j].Kind, ds[j].Index, ds[j].Area = KindArea, j, area
		}
		out.Areas[i] = AreaLayer{Area: area, Data: ds}
	}
	return out
}

// resolve computes the data-space coordinates of one record.
func resolve(r data.Record, acc Accessors) Datum {
	d := Datum{Record: r}
	d.Data.X, d.HasX = acc.X(r)

	y, hasY := acc.Y(r)
	var top, bottom float64
	var hasTop, hasBottom bool
	if acc.YTop != nil {
		top, hasTop = acc.YTop(r)
	}
	if acc.YBottom != nil {
		bottom, hasBottom = acc.YBottom(r)
	}

	switch {
	case hasTop && hasBottom:
		d.Data.YTop, d.Data.YBottom = top, bottom
		d.Data.YMiddle = (top + bottom) / 2
		d.Data.Y = d.Data.YMiddle
		if hasY {
			d.Data.Y = y
		}
		d.HasY = true
	case hasY:
		setY(&d, y)
	}
	return d
}

func setY(d *Datum, y float64) {
	d.Data.Y, d.Data.YTop, d.Data.YMiddle, d.Data.YBottom = y, y, y, y
	d.HasY = true
}

// fillLineGaps interpolates the y of line members that have an x but no y.
func fillLineGaps(ds []Datum) {
	var missing bool
	for i := range ds {
		if ds[i].HasX && !ds[i].HasY {
			missing = true
			break
		}
	}
	if !missing {
		return
	}
	samples := sortedSamples(ds)
	for i := range ds {
		if ds[i].HasX && !ds[i].HasY {
			if y, ok := interpolate(samples, ds[i].Data.X); ok {
				setY(&ds[i], y)
				ds[i].Interpolated = true
			}
		}
	}
}

// Project maps every datum through the scales and returns a new Layers
// value; the receiver is not modified.
func (l Layers) Project(x, y scale.Scale) Layers {
	out := Layers{index: l.index}

	out.Points = projectAll(l.Points, x, y)
	out.Lines = make([]LineLayer, len(l.Lines))
	for i, ll := range l.Lines {
		out.Lines[i] = LineLayer{Line: ll.Line, Data: projectAll(ll.Data, x, y)}
	}
	out.Areas = make([]AreaLayer, len(l.Areas))
	for i, al := range l.Areas {
		out.Areas[i] = AreaLayer{Area: al.Area, Data: projectAll(al.Data, x, y)}
	}

	out.Full = make([]Datum, 0, l.Len())
	out.Full = appendValid(out.Full, out.Points)
	for _, ll := range out.Lines {
		out.Full = appendValid(out.Full, ll.Data)
	}
	for _, al := range out.Areas {
		out.Full = appendValid(out.Full, al.Data)
	}
	return out
}

func projectAll(in []Datum, x, y scale.Scale) []Datum {
	out := make([]Datum, len(in))
	for i, d := range in {
		d.Valid = false
		if d.HasX && d.HasY {
			d.Screen = Coord{
				X:       x.Map(d.Data.X),
				Y:       y.Map(d.Data.Y),
				YTop:    y.Map(d.Data.YTop),
				YMiddle: y.Map(d.Data.YMiddle),
				YBottom: y.Map(d.Data.YBottom),
			}
			d.Valid = geom.Point{X: d.Screen.X, Y: d.Screen.Y}.Valid()
		}
		out[i] = d
	}
	return out
}

func appendValid(dst, src []Datum) []Datum {
	for _, d := range src {
		if d.Valid {
			dst = append(dst, d)
		}
	}
	return dst
}

// Extents collects the calculated x and y extents of every layer. Band
// records contribute their top and bottom to the y extent.
func (l Layers) Extents(xFallback, yFallback *extent.Extent) (x, y extent.Extent) {
	xc, yc := extent.NewCollector(), extent.NewCollector()
	add := func(ds []Datum) {
		for _, d := range ds {
			if d.HasX {
				xc.Add(d.Data.X)
			}
			if d.HasY {
				yc.Add(d.Data.Y)
				yc.Add(d.Data.YTop)
				yc.Add(d.Data.YBottom)
			}
		}
	}
	add(l.Points)
	for _, ll := range l.Lines {
		add(ll.Data)
	}
	for _, al := range l.Areas {
		add(al.Data)
	}
	x, _ = xc.Extent(xFallback)
	y, _ = yc.Extent(yFallback)
	return x, y
}

// =============================================================================
// Line interpolation
// =============================================================================

// sample is one resolved line member in data space.
type sample struct {
	x, y float64
}

// lineIndex maps a line id to its samples sorted by x.
type lineIndex map[string][]sample

func buildLineIndex(lines []LineLayer) lineIndex {
	ix := make(lineIndex, len(lines))
	for _, ll := range lines {
		if ll.Line == nil || ll.Line.ID == "" {
			continue
		}
		ix[ll.Line.ID] = sortedSamples(ll.Data)
	}
	return ix
}

func sortedSamples(ds []Datum) []sample {
	out := make([]sample, 0, len(ds))
	for _, d := range ds {
		if d.HasX && d.HasY && !d.Interpolated {
			out = append(out, sample{x: d.Data.X, y: d.Data.YMiddle})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].x < out[j].x })
	return out
}

func (ix lineIndex) interpolate(id string, x float64) (float64, bool) {
	samples, ok := ix[id]
	if !ok {
		return 0, false
	}
	return interpolate(samples, x)
}

// interpolate returns the y at x on the polyline through samples.
// x must lie within [first.x, last.x].
func interpolate(samples []sample, x float64) (float64, bool) {
	n := len(samples)
	if n == 0 || x < samples[0].x || x > samples[n-1].x {
		return 0, false
	}
	i := sort.Search(n, func(i int) bool { return samples[i].x >= x })
	if samples[i].x == x {
		return samples[i].y, true
	}
	a, b := samples[i-1], samples[i]
	t := (x - a.x) / (b.x - a.x)
	return a.y + t*(b.y-a.y), true
}
