package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/xyframe/pkg/annotation"
	"github.com/matzehuels/xyframe/pkg/axis"
	"github.com/matzehuels/xyframe/pkg/data"
	"github.com/matzehuels/xyframe/pkg/frame"
	"github.com/matzehuels/xyframe/pkg/geom"
)

func sampleFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.Recompute(frame.Inputs{
		Lines: []data.Line{
			{ID: "a", Coordinates: []data.Record{{"x": 0, "y": 0}, {"x": 10, "y": 10}}},
			{ID: "b", Coordinates: []data.Record{{"x": 0, "y": 5}, {"x": 10, "y": 2}}},
		},
		Areas: []data.Area{
			{ID: "zone", Coordinates: []data.Record{{"x": 1, "y": 1}, {"x": 4, "y": 1}, {"x": 4, "y": 4}}},
		},
		Points: []data.Record{{"x": 5, "y": 5}},
		Size:   geom.Size{W: 200, H: 100},
		Axes:   []axis.Spec{{Orient: axis.Left}, {Orient: axis.Bottom, Label: "time"}},
		Title:  "A & B",
		Legend: &frame.Legend{Title: "Series"},
		Matte:  &frame.Matte{},
		Annotations: []annotation.Annotation{
			annotation.XY{Point: data.Record{"x": 5, "y": 5}, Label: "peak"},
			annotation.Callout{Point: data.Record{"x": 10, "y": 10}, DX: 5, DY: -5, Note: annotation.Note{Title: "top", Label: "max"}},
		},
	}, nil)
	require.NotNil(t, f)
	return f
}

func TestRenderSVG(t *testing.T) {
	f := sampleFrame(t)
	svg := string(RenderSVG(f))

	assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 100"`))
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))
	assert.Equal(t, 2, strings.Count(svg, `class="xyframe-line"`))
	assert.Equal(t, 1, strings.Count(svg, `class="xyframe-area"`))
	assert.Equal(t, 1, strings.Count(svg, `class="xyframe-point"`))
	assert.Contains(t, svg, `data-key="line-0"`)
	assert.Contains(t, svg, `class="matte"`)
	assert.Contains(t, svg, `fill-rule="evenodd"`)
	assert.Contains(t, svg, ">A &amp; B</text>")
	assert.Contains(t, svg, `class="axis-title"`)
	assert.Contains(t, svg, `class="legend-title"`)
	assert.Equal(t, 2, strings.Count(svg, `class="legend-item"`))
	assert.Contains(t, svg, `<g class="annotations">`)
	assert.Contains(t, svg, ">peak</tspan>")
	assert.Contains(t, svg, `<tspan font-weight="bold">top</tspan>`)

	// Data layers are drawn before annotations, and lines before points.
	assert.Less(t, strings.Index(svg, "xyframe-line"), strings.Index(svg, "xyframe-point"))
	assert.Less(t, strings.Index(svg, "xyframe-point"), strings.Index(svg, `class="annotations"`))
}

func TestRenderSVGPositionedAnnotations(t *testing.T) {
	f := frame.Recompute(frame.Inputs{
		Points:   []data.Record{{"x": 0, "y": 0}, {"x": 5, "y": 5}, {"x": 10, "y": 10}},
		Size:     geom.Size{W: 200, H: 100},
		Position: geom.Point{X: 15, Y: 25},
		Annotations: []annotation.Annotation{
			annotation.XY{Point: data.Record{"x": 5, "y": 5}},
			annotation.Enclose{Coordinates: []data.Record{{"x": 0, "y": 0}, {"x": 10, "y": 10}}},
		},
	}, nil)
	svg := string(RenderSVG(f))

	// The marker is shifted like the data area; the enclosing circle is
	// already offset and drawn as is.
	shifted := `<g transform="translate(15,25)">`
	require.Equal(t, 1, strings.Count(svg, shifted))
	p, ok := f.Locator.Locate(data.Record{"x": 5, "y": 5})
	require.True(t, ok)
	marker := fmt.Sprintf(`cx="%s" cy="%s" r="5"`, num(p.X), num(p.Y))
	assert.Contains(t, svg, marker)
	assert.Less(t, strings.Index(svg, shifted), strings.Index(svg, marker))
	assert.Less(t, strings.Index(svg, marker), strings.Index(svg, `stroke-dasharray="4 2"`))

	// Without a position nothing is wrapped.
	f = sampleFrame(t)
	assert.NotContains(t, string(RenderSVG(f)), `<g transform=`)
}

func TestRenderSVGDeterministic(t *testing.T) {
	f := sampleFrame(t)
	assert.Equal(t, RenderSVG(f), RenderSVG(f))
}

func TestRenderSVGOptions(t *testing.T) {
	f := sampleFrame(t)

	svg := string(RenderSVG(f, WithoutAnnotations()))
	assert.NotContains(t, svg, `class="annotations"`)

	theme := DefaultTheme
	theme.Background = "#101010"
	theme.FontFamily = "Inter"
	svg = string(RenderSVG(f, WithTheme(theme)))
	assert.Contains(t, svg, `fill="#101010"`)
	assert.Contains(t, svg, `font-family="Inter"`)

	theme.Background = ""
	svg = string(RenderSVG(f, WithTheme(theme)))
	assert.NotContains(t, svg, `class="background"`)
}

type starGeometry struct{}

func (starGeometry) Kind() string { return "star" }

func (starGeometry) WriteSVG(buf *bytes.Buffer) { buf.WriteString("<star/>\n") }

type unknownGeometry struct{}

func (unknownGeometry) Kind() string { return "unknown" }

func TestRenderSVGCustomGeometry(t *testing.T) {
	f := sampleFrame(t)
	svg := string(RenderSVG(f, WithAnnotations([]annotation.Resolved{
		{Index: 0, Geometry: starGeometry{}},
		{Index: 1, Geometry: unknownGeometry{}},
		{Index: 2, Geometry: annotation.Cluster{Points: []annotation.StyledPoint{
			{Center: geom.Point{X: 1, Y: 2}, Style: data.Style{"stroke": "red"}},
		}}},
	})))

	assert.Contains(t, svg, "<star/>")
	assert.Contains(t, svg, `style="stroke:red"`)
	assert.NotContains(t, svg, "peak")
}

func TestStyleAttr(t *testing.T) {
	assert.Equal(t, "", styleAttr(nil))
	assert.Equal(t, ` style="fill:blue;stroke:&#34;red&#34;"`, styleAttr(data.Style{"stroke": `"red"`, "fill": "blue"}))
	assert.Equal(t, "", classAttr("  "))
	assert.Equal(t, ` class="a b"`, classAttr(" a b "))
}

func TestNum(t *testing.T) {
	assert.Equal(t, "1.23", num(1.23456))
	assert.Equal(t, "10", num(10))
	assert.Equal(t, "-0.5", num(-0.5))
}

func TestRenderJSON(t *testing.T) {
	f := sampleFrame(t)
	b, err := RenderJSON(f)
	require.NoError(t, err)

	var out frameJSON
	require.NoError(t, json.Unmarshal(b, &out))

	assert.Equal(t, sizeJSON{Width: 200, Height: 100}, out.Size)
	assert.Equal(t, f.PlotSize.W, out.Plot.Width)
	assert.Equal(t, extentJSON{Min: 0, Max: 10}, out.XExtent)
	require.Len(t, out.Lines, 2)
	assert.Equal(t, "line-0", out.Lines[0].Key)
	assert.Len(t, out.Lines[0].Points, 2)
	require.Len(t, out.Areas, 1)
	assert.Len(t, out.Areas[0].Points, 3)
	require.Len(t, out.Points, 1)
	assert.Len(t, out.Axes, 2)
	require.NotNil(t, out.Title)
	assert.Equal(t, "A & B", out.Title.Text)
	require.NotNil(t, out.Legend)
	require.Len(t, out.Legend.Groups, 1)
	assert.Equal(t, []string{"a", "b"}, out.Legend.Groups[0].Items)
	assert.NotEmpty(t, out.Matte)

	require.Len(t, out.Annotations, 2)
	assert.Equal(t, "xy", out.Annotations[0].Type)
	assert.Equal(t, "marker", out.Annotations[0].Kind)
	assert.Equal(t, "label", out.Annotations[1].Kind)
}

func TestRenderJSONOptions(t *testing.T) {
	f := sampleFrame(t)

	b, err := RenderJSON(f, WithJSONCompact(), WithJSONAnnotations(nil))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "\n")

	var out frameJSON
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Empty(t, out.Annotations)
}
