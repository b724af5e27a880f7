package scale

import (
	"fmt"
	"math"

	mscale "github.com/aclements/go-moremath/scale"
)

// defaultTicks matches the tick count most charting libraries use when the
// caller does not ask for one.
const defaultTicks = 10

// Linear is a continuous linear scale. Domain normalization and tick
// selection are delegated to go-moremath; Linear adds the pixel range.
type Linear struct {
	domain mscale.Linear
	r0, r1 float64
}

// NewLinear returns a linear scale with domain [0,1] and range [0,1].
func NewLinear() *Linear {
	return &Linear{domain: mscale.Linear{Min: 0, Max: 1}, r0: 0, r1: 1}
}

// SetDomain sets the domain. min may exceed max for an inverted axis.
func (s *Linear) SetDomain(min, max float64) {
	s.domain.Min, s.domain.Max = min, max
}

// Domain returns the current domain.
func (s *Linear) Domain() (min, max float64) { return s.domain.Min, s.domain.Max }

// SetRange sets the output range.
func (s *Linear) SetRange(r0, r1 float64) { s.r0, s.r1 = r0, r1 }

// Range returns the output range.
func (s *Linear) Range() (r0, r1 float64) { return s.r0, s.r1 }

// Map returns the screen coordinate of v. A degenerate domain maps every
// value to the middle of the range.
func (s *Linear) Map(v float64) float64 {
	if s.domain.Min == s.domain.Max {
		return (s.r0 + s.r1) / 2
	}
	t := s.domain.Map(v)
	return s.r0 + t*(s.r1-s.r0)
}

// Invert returns the domain value at screen coordinate px.
func (s *Linear) Invert(px float64) float64 {
	if s.r0 == s.r1 {
		return s.domain.Min
	}
	t := (px - s.r0) / (s.r1 - s.r0)
	return s.domain.Min + t*(s.domain.Max-s.domain.Min)
}

// Ticks returns at most n major tick values inside the domain, in
// increasing order. n <= 0 selects the default count.
func (s *Linear) Ticks(n int) []float64 {
	if n <= 0 {
		n = defaultTicks
	}
	lo, hi := s.domain.Min, s.domain.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi || math.IsNaN(lo) || math.IsNaN(hi) {
		return []float64{lo}
	}
	ls := mscale.Linear{Min: lo, Max: hi}
	major, _ := ls.Ticks(mscale.TickOptions{Max: n})
	return major
}

// String describes the scale for debug logging.
func (s *Linear) String() string {
	return fmt.Sprintf("linear [%g,%g] => [%g,%g]", s.domain.Min, s.domain.Max, s.r0, s.r1)
}

var (
	_ Scale        = (*Linear)(nil)
	_ DomainSetter = (*Linear)(nil)
	_ Ticker       = (*Linear)(nil)
)
