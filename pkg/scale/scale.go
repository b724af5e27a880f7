// Package scale maps data-space values onto the pixel box of a chart.
//
// Every scale has a range. Scales that manage their domain from the data
// also implement [DomainSetter]; scales that do not (rank or ordinal-like
// scales whose domain the caller manages) are left untouched by [Build].
// Scales that can suggest tick values implement [Ticker].
//
// Scales are cheap to create and are rebuilt on every full frame
// recomputation from a [Factory]. A scale instance belongs to exactly one
// frame snapshot and is never shared between charts.
package scale

import (
	"github.com/matzehuels/xyframe/pkg/extent"
	"github.com/matzehuels/xyframe/pkg/geom"
)

// Scale maps a domain value to a screen coordinate.
type Scale interface {
	Map(v float64) float64
	SetRange(r0, r1 float64)
	Range() (r0, r1 float64)
}

// DomainSetter is implemented by scales whose domain follows the extent.
type DomainSetter interface {
	SetDomain(min, max float64)
	Domain() (min, max float64)
}

// Ticker is implemented by scales that can propose tick values.
type Ticker interface {
	// Ticks returns at most n tick values in increasing order.
	Ticks(n int) []float64
}

// Factory creates a fresh scale.
type Factory func() Scale

// LinearFactory is the default [Factory].
func LinearFactory() Scale { return NewLinear() }

// Build constructs the x and y scales for one frame.
//
// The x range is [0, size.W] and the y range is [size.H, 0] because the
// drawing origin is the top-left corner. Domains are set from the extents
// only when the scale implements [DomainSetter]. Nil factories default to
// [LinearFactory].
func Build(xExt, yExt extent.Extent, size geom.Size, xf, yf Factory) (x, y Scale) {
	if xf == nil {
		xf = LinearFactory
	}
	if yf == nil {
		yf = LinearFactory
	}
	x, y = xf(), yf()

	if d, ok := x.(DomainSetter); ok {
		d.SetDomain(xExt.Min, xExt.Max)
	}
	if d, ok := y.(DomainSetter); ok {
		d.SetDomain(yExt.Min, yExt.Max)
	}
	x.SetRange(0, size.W)
	y.SetRange(size.H, 0)
	return x, y
}
