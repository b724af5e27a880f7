package axis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/xyframe/pkg/extent"
	"github.com/matzehuels/xyframe/pkg/geom"
	"github.com/matzehuels/xyframe/pkg/project"
	"github.com/matzehuels/xyframe/pkg/scale"
)

func testEnv() Env {
	size := geom.Size{W: 200, H: 100}
	x, y := scale.Build(extent.Extent{Min: 0, Max: 10}, extent.Extent{Min: 0, Max: 100}, size, nil, nil)
	return Env{X: x, Y: y, Size: size, FrameSize: geom.Size{W: 300, H: 200}, Margin: geom.Uniform(50)}
}

func baselines(set Set) []bool {
	out := make([]bool, len(set.Axes))
	for i, g := range set.Axes {
		out[i] = g.Baseline != nil
	}
	return out
}

func TestBaselineDedup(t *testing.T) {
	tests := []struct {
		name  string
		specs []Spec
		want  []bool
	}{
		{
			name:  "two bottom axes",
			specs: []Spec{{Orient: Bottom}, {Orient: Bottom}},
			want:  []bool{true, false},
		},
		{
			name:  "sibling forces baseline",
			specs: []Spec{{Orient: Bottom}, {Orient: Bottom, Baseline: BaselineOn}},
			want:  []bool{true, true},
		},
		{
			name:  "first opts out",
			specs: []Spec{{Orient: Bottom, Baseline: BaselineOff}, {Orient: Bottom}},
			want:  []bool{false, false},
		},
		{
			name:  "orientations are independent",
			specs: []Spec{{Orient: Bottom}, {Orient: Left}, {Orient: Left}, {Orient: Top}},
			want:  []bool{true, true, false, true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, baselines(Build(tt.specs, testEnv())))
		})
	}
}

func TestBuildScaleChoice(t *testing.T) {
	set := Build([]Spec{
		{Orient: Bottom, TickValues: []float64{5}},
		{Orient: Left, TickValues: []float64{50}},
	}, testEnv())
	require.Len(t, set.Axes, 2)

	bottom := set.Axes[0].Ticks[0]
	assert.InDelta(t, 100, bottom.Pos, 1e-9, "bottom axis uses the x scale")
	assert.Equal(t, geom.Segment{X1: 100, Y1: 100, X2: 100, Y2: 0}, bottom.Line)
	assert.Equal(t, "5", bottom.Label.Text)
	assert.Equal(t, "middle", bottom.Label.Anchor)
	assert.InDelta(t, 125, bottom.Label.Y, 1e-9)

	left := set.Axes[1].Ticks[0]
	assert.InDelta(t, 50, left.Pos, 1e-9, "left axis uses the y scale")
	assert.Equal(t, geom.Segment{X1: 0, Y1: 50, X2: 200, Y2: 50}, left.Line)
	assert.Equal(t, "end", left.Label.Anchor)
	assert.Equal(t, "axis y left", set.Axes[1].Class)
	assert.Equal(t, "axis-1", set.Axes[1].Key)
}

func TestTickSources(t *testing.T) {
	env := testEnv()
	env.Full = []project.Datum{{Valid: true}, {Valid: true}}

	var gotLen int
	var gotSize geom.Size
	gen := func(full []project.Datum, size geom.Size, s scale.Scale) []float64 {
		gotLen, gotSize = len(full), size
		return []float64{1, 2}
	}

	set := Build([]Spec{
		{Orient: Bottom, TickGenerator: gen},
		{Orient: Top, TickValues: []float64{3}, TickGenerator: gen},
		{Orient: Left, Ticks: 5},
	}, env)

	assert.Len(t, set.Axes[0].Ticks, 2)
	assert.Equal(t, 2, gotLen)
	assert.Equal(t, env.FrameSize, gotSize, "generators receive the full frame size")
	require.Len(t, set.Axes[1].Ticks, 1, "explicit values win over a generator")
	assert.Equal(t, 3.0, set.Axes[1].Ticks[0].Value)
	assert.NotEmpty(t, set.Axes[2].Ticks)
	assert.LessOrEqual(t, len(set.Axes[2].Ticks), 5)
}

func TestTickLinesAndFooter(t *testing.T) {
	size := -4.0
	set := Build([]Spec{
		{Orient: Bottom, TickValues: []float64{0, 10}, Footer: true},
		{Orient: Right, TickValues: []float64{0}, TickSize: &size},
	}, testEnv())

	require.Len(t, set.TickLines, 2)
	assert.Equal(t, []geom.Segment{
		{X1: 0, Y1: 100, X2: 0, Y2: 110},
		{X1: 200, Y1: 100, X2: 200, Y2: 110},
	}, set.TickLines[0])
	assert.Equal(t, []geom.Segment{{X1: 200, Y1: 100, X2: 204, Y2: 100}}, set.TickLines[1])
}

func TestAxisLabel(t *testing.T) {
	set := Build([]Spec{{Orient: Left, Label: "count", TickValues: []float64{}}}, testEnv())
	l := set.Axes[0].Label
	require.NotNil(t, l)
	assert.Equal(t, Text{X: -35, Y: 50, Text: "count", Anchor: "middle", Rotate: -90}, *l)
	assert.Empty(t, set.Axes[0].Ticks)
}

func TestUnknownOrientSkipped(t *testing.T) {
	set := Build([]Spec{{Orient: "diagonal"}, {Orient: Bottom}}, testEnv())
	require.Len(t, set.Axes, 1)
	assert.Equal(t, Bottom, set.Axes[0].Orient)
	assert.NotNil(t, set.Axes[0].Baseline)
}

func TestFormatTick(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{2.5, "2.5"},
		{1e6, "1e+06"},
		{1.0 / 3, "0.333333"},
	}
	for _, tt := range tests {
		if got := FormatTick(tt.in); got != tt.want {
			t.Errorf("FormatTick(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
