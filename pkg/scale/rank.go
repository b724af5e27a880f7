package scale

import "fmt"

// Rank places integer ranks 0..n-1 at the centers of n equal bands.
//
// Its domain is managed by the caller through the band count, so it does
// not implement [DomainSetter] and [Build] leaves it alone.
type Rank struct {
	n      int
	r0, r1 float64
}

// NewRank returns a rank scale over n bands.
func NewRank(n int) *Rank {
	if n < 1 {
		n = 1
	}
	return &Rank{n: n, r0: 0, r1: 1}
}

// RankFactory returns a [Factory] producing rank scales over n bands.
func RankFactory(n int) Factory {
	return func() Scale { return NewRank(n) }
}

// Bands returns the number of bands.
func (s *Rank) Bands() int { return s.n }

// Bandwidth returns the screen width of one band (signed with the range).
func (s *Rank) Bandwidth() float64 { return (s.r1 - s.r0) / float64(s.n) }

// SetRange sets the output range.
func (s *Rank) SetRange(r0, r1 float64) { s.r0, s.r1 = r0, r1 }

// Range returns the output range.
func (s *Rank) Range() (r0, r1 float64) { return s.r0, s.r1 }

// Map returns the center of band v.
func (s *Rank) Map(v float64) float64 {
	return s.r0 + (v+0.5)*s.Bandwidth()
}

// Ticks returns every rank when it fits in n values, otherwise an evenly
// strided subset.
func (s *Rank) Ticks(n int) []float64 {
	if n <= 0 {
		n = defaultTicks
	}
	step := 1
	for s.n/step > n {
		step++
	}
	ticks := make([]float64, 0, s.n/step+1)
	for i := 0; i < s.n; i += step {
		ticks = append(ticks, float64(i))
	}
	return ticks
}

func (s *Rank) String() string {
	return fmt.Sprintf("rank %d => [%g,%g]", s.n, s.r0, s.r1)
}

var (
	_ Scale  = (*Rank)(nil)
	_ Ticker = (*Rank)(nil)
)
