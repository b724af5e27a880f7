// Package extent resolves the numeric domain bounds of one chart axis.
//
// An extent is either supplied by the caller, partially overridden, or
// computed from every visible record. The computed ("calculated") extent is
// always derived from the data so that change notifications can report what
// the data currently spans even when the caller pins the axis.
package extent

import (
	"math"
	"strconv"
)

// Extent is the [Min, Max] domain of one axis.
type Extent struct {
	Min, Max float64
}

// Span returns Max - Min.
func (e Extent) Span() float64 { return e.Max - e.Min }

// String renders the extent as "min,max", the form used for change
// comparison.
func (e Extent) String() string {
	return strconv.FormatFloat(e.Min, 'g', -1, 64) + "," + strconv.FormatFloat(e.Max, 'g', -1, 64)
}

// Slice returns the extent as a two-element sequence.
func (e Extent) Slice() []float64 { return []float64{e.Min, e.Max} }

// Compute reduces values to their [min, max]. NaN and infinite values are
// skipped. With no usable value it returns fallback (or [0,0] when fallback
// is nil) and false.
func Compute(values []float64, fallback *Extent) (Extent, bool) {
	c := NewCollector()
	for _, v := range values {
		c.Add(v)
	}
	return c.Extent(fallback)
}

// Collector accumulates values into an extent.
// The zero value is not ready for use; call [NewCollector].
type Collector struct {
	min, max float64
	n        int
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{min: math.Inf(1), max: math.Inf(-1)}
}

// Add includes v unless it is NaN or infinite.
func (c *Collector) Add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if v < c.min {
		c.min = v
	}
	if v > c.max {
		c.max = v
	}
	c.n++
}

// Len reports how many values were included.
func (c *Collector) Len() int { return c.n }

// Extent returns the collected extent, or fallback (default [0,0]) and false
// when nothing was collected.
func (c *Collector) Extent(fallback *Extent) (Extent, bool) {
	if c.n == 0 {
		if fallback != nil {
			return *fallback, false
		}
		return Extent{}, false
	}
	return Extent{Min: c.min, Max: c.max}, true
}
