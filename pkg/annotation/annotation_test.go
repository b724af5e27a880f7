package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/xyframe/pkg/data"
	"github.com/matzehuels/xyframe/pkg/extent"
	"github.com/matzehuels/xyframe/pkg/geom"
	"github.com/matzehuels/xyframe/pkg/project"
	"github.com/matzehuels/xyframe/pkg/scale"
)

type dropped struct {
	index  int
	reason string
}

func newTestResolver(t *testing.T) (*Resolver, *[]dropped) {
	t.Helper()
	size := geom.Size{W: 100, H: 100}
	ext := extent.Extent{Min: 0, Max: 10}
	x, y := scale.Build(ext, ext, size, nil, nil)

	acc := project.Accessors{X: data.Field("x"), Y: data.Field("y")}
	in := project.Input{
		Lines: []data.Line{{ID: "a", Coordinates: []data.Record{{"x": 0, "y": 0}, {"x": 10, "y": 10}}}},
		Points: []data.Record{
			{"x": 5, "y": 5},
			{"x": 2, "y": 5},
			{"x": 5, "y": 2},
			{"x": 7},
		},
	}
	layers := project.Prepare(in, acc).Project(x, y)
	pos := geom.Point{X: 10, Y: 20}

	r := NewResolver(Env{
		Locator:  project.NewLocator(x, y, acc, layers, pos),
		Layers:   layers,
		Size:     size,
		Position: pos,
		Margin:   geom.Uniform(10),
		PointStyle: func(rec data.Record, i int) data.Style {
			return data.Style{"fill": "red"}
		},
	})
	var drops []dropped
	r.OnDrop = func(a Annotation, i int, reason string) {
		drops = append(drops, dropped{i, reason})
	}
	return r, &drops
}

func TestResolveXY(t *testing.T) {
	r, drops := newTestResolver(t)

	g := r.Resolve(XY{Point: data.Record{"x": 5, "y": 5}, Label: "mid"}, 0)
	require.IsType(t, Marker{}, g)
	m := g.(Marker)
	assert.Equal(t, geom.Point{X: 50, Y: 50}, m.Center)
	assert.Equal(t, "mid", m.Label)
	assert.Empty(t, *drops)

	g = r.Resolve(XY{Point: data.Record{"x": 5, "lineID": "a"}}, 1)
	require.NotNil(t, g, "y is interpolated on the named line")
	assert.Equal(t, geom.Point{X: 50, Y: 50}, g.(Marker).Center)
}

func TestResolveInvalidCoordinates(t *testing.T) {
	r, drops := newTestResolver(t)

	assert.Nil(t, r.Resolve(XY{Point: data.Record{"x": 5}}, 3))
	assert.Nil(t, r.Resolve(XY{Point: data.Record{"x": 50, "lineID": "a"}}, 4), "outside the line's samples")
	assert.Nil(t, r.Resolve(nil, 5))
	assert.Equal(t, []dropped{
		{3, "invalid coordinates"},
		{4, "invalid coordinates"},
		{5, "nil descriptor"},
	}, *drops)
}

func TestCustomRuleOverride(t *testing.T) {
	r, drops := newTestResolver(t)
	custom := Marker{Center: geom.Point{X: 1, Y: 1}, R: 9}

	calls := 0
	r.Rule = func(ctx Context) Geometry {
		calls++
		if _, ok := ctx.Annotation.(XY); ok {
			return custom
		}
		return nil
	}

	// The built-in rule would drop this descriptor.
	g := r.Resolve(XY{Point: data.Record{"y": 1}}, 0)
	assert.Equal(t, custom, g)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *drops, "built-in rule must not run")

	g = r.Resolve(XLine{Point: data.Record{"x": 5}}, 1)
	assert.IsType(t, Reference{}, g, "nil from the custom rule falls back to the built-in")
	assert.Equal(t, 2, calls)
}

func TestCustomRuleSeesScreenCoordinates(t *testing.T) {
	r, _ := newTestResolver(t)
	var seen []geom.Point
	r.Rule = func(ctx Context) Geometry {
		seen = ctx.Screen
		return nil
	}
	r.Resolve(Line{Coordinates: []data.Record{{"x": 0, "y": 0}, {"x": 10, "y": 10}}}, 0)
	assert.Equal(t, []geom.Point{{X: 10, Y: 120}, {X: 110, Y: 20}}, seen)
}

func TestResolveShapes(t *testing.T) {
	r, _ := newTestResolver(t)
	coords := []data.Record{{"x": 0, "y": 0}, {"x": 10, "y": 0}}

	g := r.Resolve(Enclose{Coordinates: coords, Padding: 2}, 0)
	require.IsType(t, Circle{}, g)
	c := g.(Circle).Circle
	assert.InDelta(t, 60, c.X, 1e-9)
	assert.InDelta(t, 120, c.Y, 1e-9)
	assert.InDelta(t, 52, c.R, 1e-9)

	g = r.Resolve(EncloseRect{Coordinates: coords, Padding: 1}, 1)
	require.IsType(t, Box{}, g)
	assert.Equal(t, geom.Rect{X: 9, Y: 119, W: 102, H: 2}, g.(Box).Rect)

	g = r.Resolve(Line{Coordinates: coords}, 2)
	require.IsType(t, Path{}, g)
	assert.False(t, g.(Path).Closed)

	tri := append(coords, data.Record{"x": 5, "y": 10})
	g = r.Resolve(Area{Coordinates: tri}, 3)
	require.IsType(t, Path{}, g)
	assert.True(t, g.(Path).Closed)
	assert.Len(t, g.(Path).Points, 3)

	assert.Nil(t, r.Resolve(Area{Coordinates: coords}, 4))
	assert.Nil(t, r.Resolve(Enclose{}, 5), "missing coordinates")
}

func TestResolveShapesInvalidVertex(t *testing.T) {
	r, drops := newTestResolver(t)
	coords := []data.Record{{"x": 0, "y": 0}, {"x": 10}}

	assert.Nil(t, r.Resolve(Enclose{Coordinates: coords}, 0))
	assert.Nil(t, r.Resolve(EncloseRect{Coordinates: coords}, 1))
	assert.Nil(t, r.Resolve(EncloseRect{}, 2))
	assert.Equal(t, []dropped{
		{0, "invalid coordinates"},
		{1, "invalid coordinates"},
		{2, "missing coordinates"},
	}, *drops)
}

func TestResolveReferenceLines(t *testing.T) {
	r, _ := newTestResolver(t)

	g := r.Resolve(XLine{Point: data.Record{"x": 5}}, 0)
	require.IsType(t, Reference{}, g)
	ref := g.(Reference)
	assert.Equal(t, geom.Segment{X1: 50, Y1: 0, X2: 50, Y2: 100}, ref.Line)
	assert.Equal(t, geom.Point{X: 50, Y: 10}, ref.NoteAt)

	g = r.Resolve(YLine{Point: data.Record{"y": 10}}, 1)
	require.IsType(t, Reference{}, g)
	assert.Equal(t, geom.Segment{X1: 0, Y1: 0, X2: 100, Y2: 0}, g.(Reference).Line)

	assert.Nil(t, r.Resolve(XLine{Point: data.Record{"y": 1}}, 2))
}

func TestResolveBounds(t *testing.T) {
	r, _ := newTestResolver(t)

	g := r.Resolve(Bounds{Bounds: []data.Record{{"x": 2, "y": 8}}}, 0)
	require.IsType(t, Box{}, g)
	rect := g.(Box).Rect
	assert.InDelta(t, 20, rect.X, 1e-9)
	assert.InDelta(t, 0, rect.Y, 1e-9)
	assert.InDelta(t, 80, rect.W, 1e-9)
	assert.InDelta(t, 20, rect.H, 1e-9)

	g = r.Resolve(Bounds{Bounds: []data.Record{{"x": 6}, {"x": 4}}}, 1)
	require.IsType(t, Box{}, g)
	assert.Equal(t, geom.Rect{X: 40, Y: 0, W: 20, H: 100}, g.(Box).Rect)

	assert.Nil(t, r.Resolve(Bounds{}, 2))
}

func TestResolvePointClusters(t *testing.T) {
	r, _ := newTestResolver(t)

	g := r.Resolve(HorizontalPoints{Point: data.Record{"y": 5}}, 0)
	require.IsType(t, Cluster{}, g)
	pts := g.(Cluster).Points
	require.Len(t, pts, 2)
	assert.Equal(t, geom.Point{X: 50, Y: 50}, pts[0].Center)
	assert.Equal(t, geom.Point{X: 20, Y: 50}, pts[1].Center)
	assert.Equal(t, "red", pts[0].Style["fill"])

	g = r.Resolve(VerticalPoints{Point: data.Record{"x": 10}}, 1)
	require.IsType(t, Cluster{}, g)
	assert.Len(t, g.(Cluster).Points, 1, "line members participate")

	assert.Nil(t, r.Resolve(VerticalPoints{Point: data.Record{"x": 3}}, 2))
}

func TestResolveCalloutAt(t *testing.T) {
	r, _ := newTestResolver(t)
	at := geom.Point{X: 3, Y: 4}

	g := r.Resolve(Callout{At: &at, DX: 5, Note: Note{Title: "t"}}, 0)
	require.IsType(t, Label{}, g)
	assert.Equal(t, at, g.(Label).Anchor)
	assert.Equal(t, "t", g.(Label).Note.Title)
}

func TestResolveAllContinuesPastBadDescriptors(t *testing.T) {
	r, drops := newTestResolver(t)
	list := []Annotation{
		XY{Point: data.Record{"x": 1, "y": 1}},
		Line{Coordinates: []data.Record{{"x": 1, "y": 1}, {"x": 2}}},
		nil,
		XLine{Point: data.Record{"x": 1}},
	}

	got := r.ResolveAll(list)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, 3, got[1].Index)
	assert.Len(t, *drops, 2)
}

func TestResolveHTML(t *testing.T) {
	r, _ := newTestResolver(t)
	pct := 0.12345

	tip := r.ResolveHTML(FrameHover{Point: data.Record{"x": 5, "y": 5}, Percent: &pct}, 0)
	require.NotNil(t, tip)
	assert.Equal(t, geom.Point{X: 50, Y: 50}, tip.At)
	assert.Equal(t, []string{"5", "5", "12.3%"}, tip.Lines)

	assert.Nil(t, r.ResolveHTML(XY{Point: data.Record{"x": 5, "y": 5}}, 1))
	assert.Nil(t, r.ResolveHTML(FrameHover{Point: data.Record{"y": 5}}, 2))

	r.TooltipContent = func(h FrameHover) []string { return []string{"custom"} }
	tip = r.ResolveHTML(FrameHover{Point: data.Record{"x": 5, "y": 5}}, 3)
	require.NotNil(t, tip)
	assert.Equal(t, []string{"custom"}, tip.Lines)

	r.HTMLRule = func(ctx Context) *Tooltip { return &Tooltip{Lines: []string{"rule"}} }
	tip = r.ResolveHTML(XY{}, 4)
	require.NotNil(t, tip)
	assert.Equal(t, []string{"rule"}, tip.Lines)
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.12345, "12.3%"},
		{0.5, "50%"},
		{0.12399, "12.4%"},
		{1, "100%"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.in); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKindsCoverEveryVariant(t *testing.T) {
	variants := []Annotation{
		XY{}, FrameHover{}, Callout{}, Enclose{}, EncloseRect{}, XLine{},
		YLine{}, Bounds{}, Line{}, Area{}, HorizontalPoints{}, VerticalPoints{},
	}
	require.Len(t, Kinds, len(variants))
	for i, v := range variants {
		assert.Equal(t, Kinds[i], v.Kind())
	}
}
