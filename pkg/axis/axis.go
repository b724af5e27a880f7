// Package axis computes tick positions, tick lines, labels and baselines for
// the axes of a chart.
//
// Each [Spec] picks its scale from its orientation: top and bottom axes use
// the x scale, left and right axes the y scale. Only one baseline is drawn
// per orientation: the first axis of an orientation gets one unless it opts
// out, and later axes on that orientation get one only when they force it
// with [BaselineOn].
package axis

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/xyframe/pkg/geom"
	"github.com/matzehuels/xyframe/pkg/project"
	"github.com/matzehuels/xyframe/pkg/scale"
)

// Orient is the side of the plot an axis is attached to.
type Orient string

const (
	Top    Orient = "top"
	Bottom Orient = "bottom"
	Left   Orient = "left"
	Right  Orient = "right"
)

// Horizontal reports whether the axis runs along x.
func (o Orient) Horizontal() bool { return o == Top || o == Bottom }

// Valid reports whether o is one of the four orientations.
func (o Orient) Valid() bool {
	switch o {
	case Top, Bottom, Left, Right:
		return true
	}
	return false
}

// Baseline is a tri-state baseline request.
type Baseline int

const (
	// BaselineAuto draws a baseline only for the first axis of an orientation.
	BaselineAuto Baseline = iota
	// BaselineOn forces a baseline even when the orientation already has one.
	BaselineOn
	// BaselineOff never draws a baseline.
	BaselineOff
)

// TickGenerator computes tick values from the valid projected data, the
// full frame size and the axis scale.
type TickGenerator func(full []project.Datum, size geom.Size, s scale.Scale) []float64

// Spec describes one axis.
type Spec struct {
	Orient Orient

	// TickValues wins over TickGenerator, which wins over the scale's own
	// tick selection with Ticks as the requested count.
	TickValues    []float64
	TickGenerator TickGenerator
	Ticks         int
	TickFormat    func(float64) string

	Baseline Baseline

	// Padding is the gap between a tick and its label. Nil means 5.
	Padding *float64
	// TickSize is the length of tick lines. Nil means the plot height for
	// top and bottom axes and the plot width for left and right axes, so
	// tick lines double as gridlines. Footer axes default to -10.
	TickSize *float64
	Footer   bool

	Label     string
	Rotate    float64
	ClassName string
	Key       string
}

// Env is the geometry an axis is laid out in.
type Env struct {
	X, Y scale.Scale
	// Size is the adjusted plot size; FrameSize the full frame size passed
	// to tick generators.
	Size      geom.Size
	FrameSize geom.Size
	Margin    geom.Margin
	Full      []project.Datum
}

// Text is a positioned label.
type Text struct {
	X, Y   float64
	Text   string
	Anchor string
	Rotate float64
}

// Tick is one tick of an axis.
type Tick struct {
	Value float64
	// Pos is the screen position along the axis.
	Pos   float64
	Line  geom.Segment
	Label Text
}

// Geometry is the laid-out form of one axis.
type Geometry struct {
	Orient   Orient
	Key      string
	Class    string
	Ticks    []Tick
	Baseline *geom.Segment
	Label    *Text
}

// TickLines returns the tick segments of the axis.
func (g Geometry) TickLines() []geom.Segment {
	out := make([]geom.Segment, len(g.Ticks))
	for i, t := range g.Ticks {
		out[i] = t.Line
	}
	return out
}

// Set is the output of [Build]: one geometry per spec in input order, and
// the tick lines of each axis for use as standalone gridlines.
type Set struct {
	Axes      []Geometry
	TickLines [][]geom.Segment
}

const defaultPadding = 5

// Build lays out every axis spec. Specs with an unknown orientation are
// skipped.
func Build(specs []Spec, env Env) Set {
	var set Set
	drawn := make(map[Orient]bool, 4)

	for i, spec := range specs {
		if !spec.Orient.Valid() {
			continue
		}
		baseline := spec.Baseline == BaselineOn ||
			(spec.Baseline == BaselineAuto && !drawn[spec.Orient])
		drawn[spec.Orient] = true

		g := layout(spec, env, baseline)
		if g.Key == "" {
			g.Key = fmt.Sprintf("axis-%d", i)
		}
		set.Axes = append(set.Axes, g)
		set.TickLines = append(set.TickLines, g.TickLines())
	}
	return set
}

func layout(spec Spec, env Env, baseline bool) Geometry {
	s := env.Y
	axisClass := "y"
	if spec.Orient.Horizontal() {
		s = env.X
		axisClass = "x"
	}
	g := Geometry{
		Orient: spec.Orient,
		Key:    spec.Key,
		Class:  joinClass(spec.ClassName, "axis", axisClass, string(spec.Orient)),
	}
	if s == nil {
		return g
	}

	padding := float64(defaultPadding)
	if spec.Padding != nil {
		padding = *spec.Padding
	}
	tickSize := defaultTickSize(spec, env.Size)
	format := spec.TickFormat
	if format == nil {
		format = FormatTick
	}

	for _, v := range tickValues(spec, env, s) {
		pos := s.Map(v)
		if math.IsNaN(pos) || math.IsInf(pos, 0) {
			continue
		}
		t := place(spec.Orient, pos, tickSize, padding, env.Size)
		t.Value = v
		t.Label.Text = format(v)
		t.Label.Rotate = spec.Rotate
		g.Ticks = append(g.Ticks, t)
	}

	if baseline {
		b := baselineSegment(spec.Orient, env.Size)
		g.Baseline = &b
	}
	if spec.Label != "" {
		l := labelText(spec.Orient, spec.Label, env.Size, env.Margin)
		g.Label = &l
	}
	return g
}

func tickValues(spec Spec, env Env, s scale.Scale) []float64 {
	switch {
	case spec.TickValues != nil:
		return spec.TickValues
	case spec.TickGenerator != nil:
		return spec.TickGenerator(env.Full, env.FrameSize, s)
	}
	if t, ok := s.(scale.Ticker); ok {
		return t.Ticks(spec.Ticks)
	}
	return nil
}

func defaultTickSize(spec Spec, size geom.Size) float64 {
	switch {
	case spec.TickSize != nil:
		return *spec.TickSize
	case spec.Footer:
		return -10
	case spec.Orient.Horizontal():
		return size.H
	default:
		return size.W
	}
}

// place positions the tick line and label of one tick.
func place(o Orient, pos, tickSize, padding float64, size geom.Size) Tick {
	t := Tick{Pos: pos}
	switch o {
	case Top:
		t.Line = geom.Segment{X1: pos, Y1: 0, X2: pos, Y2: tickSize}
		t.Label = Text{X: pos, Y: -(20 - padding), Anchor: "middle"}
	case Bottom:
		t.Line = geom.Segment{X1: pos, Y1: size.H, X2: pos, Y2: size.H - tickSize}
		t.Label = Text{X: pos, Y: size.H + 20 + padding, Anchor: "middle"}
	case Right:
		t.Line = geom.Segment{X1: size.W, Y1: pos, X2: size.W - tickSize, Y2: pos}
		t.Label = Text{X: size.W + 5 + padding, Y: pos + 5, Anchor: "start"}
	default:
		t.Line = geom.Segment{X1: 0, Y1: pos, X2: tickSize, Y2: pos}
		t.Label = Text{X: -(5 + padding), Y: pos + 5, Anchor: "end"}
	}
	return t
}

func baselineSegment(o Orient, size geom.Size) geom.Segment {
	switch o {
	case Top:
		return geom.Segment{X1: 0, Y1: 0, X2: size.W, Y2: 0}
	case Bottom:
		return geom.Segment{X1: 0, Y1: size.H, X2: size.W, Y2: size.H}
	case Right:
		return geom.Segment{X1: size.W, Y1: 0, X2: size.W, Y2: size.H}
	default:
		return geom.Segment{X1: 0, Y1: 0, X2: 0, Y2: size.H}
	}
}

// labelText centers the axis title inside the margin on its side.
func labelText(o Orient, text string, size geom.Size, m geom.Margin) Text {
	switch o {
	case Top:
		return Text{X: size.W / 2, Y: -m.Top + 15, Text: text, Anchor: "middle"}
	case Bottom:
		return Text{X: size.W / 2, Y: size.H + m.Bottom - 5, Text: text, Anchor: "middle"}
	case Right:
		return Text{X: size.W + m.Right - 5, Y: size.H / 2, Text: text, Anchor: "middle", Rotate: 90}
	default:
		return Text{X: -m.Left + 15, Y: size.H / 2, Text: text, Anchor: "middle", Rotate: -90}
	}
}

// FormatTick is the default tick label format.
func FormatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func joinClass(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
