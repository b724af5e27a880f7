package chartio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/xyframe/pkg/annotation"
	"github.com/matzehuels/xyframe/pkg/axis"
	"github.com/matzehuels/xyframe/pkg/data"
	xerrors "github.com/matzehuels/xyframe/pkg/errors"
	"github.com/matzehuels/xyframe/pkg/geom"
)

const sampleJSON = `{
  "key": "revenue",
  "width": 600,
  "height": 400,
  "margin": 20,
  "title": "Revenue",
  "x": "month",
  "y": "value",
  "lines": [
    {"id": "2023", "coordinates": [{"month": 1, "value": 10}, {"month": 2, "value": 14}]}
  ],
  "points": [{"month": 3, "value": 9}],
  "y_extent": {"min": 0},
  "axes": [{"orient": "left"}, {"orient": "bottom", "label": "month", "baseline": "off"}],
  "annotations": [
    {"type": "x", "month": 2, "label": "launch"},
    {"type": "enclose", "coordinates": [{"month": 1, "value": 10}], "padding": 4},
    {"type": "circle"},
    {"type": "bounds"}
  ]
}`

const sampleTOML = `
key = "revenue"
width = 600
height = 400
title = "Revenue"
x = "month"
y = "value"

[margin]
top = 5
left = 30

[[lines]]
id = "2023"
coordinates = [{month = 1, value = 10}, {month = 2, value = 14}]

[[axes]]
orient = "left"

[[annotations]]
type = "line"
coordinates = [{month = 1, value = 10}, {month = 2, value = 14}]
note = {title = "trend"}
`

func TestReadJSON(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, "revenue", doc.Key)
	require.NotNil(t, doc.Margin)
	assert.Equal(t, Margin(geom.Uniform(20)), *doc.Margin)
	require.Len(t, doc.Lines, 1)
	assert.Len(t, doc.Lines[0].Coordinates, 2)
	assert.Len(t, doc.Annotations, 4)
	assert.Equal(t, "x", doc.Annotations[0].Type())
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"widht": 10}`))
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrCodeInvalidDocument))
}

func TestReadTOML(t *testing.T) {
	doc, err := ReadTOML(strings.NewReader(sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, 600.0, doc.Width)
	require.NotNil(t, doc.Margin)
	assert.Equal(t, Margin{Top: 5, Left: 30}, *doc.Margin)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "2023", doc.Lines[0].ID)

	in, skipped, err := doc.Inputs()
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, in.Annotations, 1)
	line, ok := in.Annotations[0].(annotation.Line)
	require.True(t, ok)
	assert.Len(t, line.Coordinates, 2)
	assert.Equal(t, "trend", line.Note.Title)

	// TOML integers still resolve through the accessors.
	v, ok := in.Lines[0].Coordinates[1]["value"]
	require.True(t, ok)
	n, ok := data.Number(v)
	require.True(t, ok)
	assert.Equal(t, 14.0, n)
}

func TestReadTOMLRejectsUnknownKeys(t *testing.T) {
	_, err := ReadTOML(strings.NewReader("widht = 10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "widht")

	_, err = ReadTOML(strings.NewReader("[margin]\ntpo = 5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "margin.tpo")
}

func TestReadTOMLNestedDescriptorKeys(t *testing.T) {
	src := `
[[annotations]]
type = "enclose"
coordinates = [{x = 1, y = 2}, {x = 3, y = 4}]

[annotations.note]
title = "cluster"
label = "two points"
`
	doc, err := ReadTOML(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, doc.Annotations, 1)

	in, skipped, err := doc.Inputs()
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, in.Annotations, 1)
	enc, ok := in.Annotations[0].(annotation.Enclose)
	require.True(t, ok)
	assert.Len(t, enc.Coordinates, 2)
	assert.Equal(t, "cluster", enc.Note.Title)
}

func TestInputs(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	in, skipped, err := doc.Inputs()
	require.NoError(t, err)

	assert.Equal(t, geom.Size{W: 600, H: 400}, in.Size)
	require.NotNil(t, in.Margin)
	assert.Equal(t, geom.Uniform(20), *in.Margin)
	assert.Equal(t, "month", in.X.Field)
	assert.Equal(t, "value", in.Y.Field)
	require.NotNil(t, in.YExtent.Min)
	assert.Equal(t, 0.0, *in.YExtent.Min)
	assert.Nil(t, in.YExtent.Max)

	require.Len(t, in.Axes, 2)
	assert.Equal(t, axis.Left, in.Axes[0].Orient)
	assert.Equal(t, axis.BaselineOff, in.Axes[1].Baseline)

	require.Len(t, in.Annotations, 2)
	x, ok := in.Annotations[0].(annotation.XLine)
	require.True(t, ok)
	assert.Equal(t, "launch", x.Note.Label)
	enc, ok := in.Annotations[1].(annotation.Enclose)
	require.True(t, ok)
	assert.Equal(t, 4.0, enc.Padding)

	require.Len(t, skipped, 2)
	assert.True(t, xerrors.Is(skipped[0], xerrors.ErrCodeInvalidAnnotation))
	assert.Contains(t, skipped[0].Error(), "annotations[2]")
	assert.Contains(t, skipped[1].Error(), "annotations[3]")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		code xerrors.Code
	}{
		{"bad orient", Document{Axes: []Axis{{Orient: "middle"}}}, xerrors.ErrCodeInvalidOrient},
		{"bad baseline", Document{Axes: []Axis{{Orient: "left", Baseline: "maybe"}}}, xerrors.ErrCodeInvalidDocument},
		{"bad size", Document{Width: -1, Height: 10}, xerrors.ErrCodeInvalidSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.doc.Inputs()
			require.Error(t, err)
			assert.Equal(t, tt.code, xerrors.GetCode(err))
		})
	}

	assert.NoError(t, (&Document{}).Validate())
}

func TestDecodeDescriptors(t *testing.T) {
	pct := 0.25
	tests := []struct {
		name string
		desc Descriptor
		want annotation.Annotation
	}{
		{
			"xy",
			Descriptor{"type": "xy", "x": 1.0, "label": "a"},
			annotation.XY{Point: data.Record{"type": "xy", "x": 1.0, "label": "a"}, Label: "a"},
		},
		{
			"frame-hover",
			Descriptor{"type": "frame-hover", "percent": 0.25},
			annotation.FrameHover{Point: data.Record{"type": "frame-hover", "percent": 0.25}, Percent: &pct},
		},
		{
			"callout",
			Descriptor{"type": "react-annotation", "dx": 5.0, "note": map[string]any{"title": "t", "label": "l"}},
			annotation.Callout{
				Point: data.Record{"type": "react-annotation", "dx": 5.0, "note": map[string]any{"title": "t", "label": "l"}},
				DX:    5,
				Note:  annotation.Note{Title: "t", Label: "l"},
			},
		},
		{
			"bounds",
			Descriptor{"type": "bounds", "bounds": []any{map[string]any{"x": 1.0}}, "class": "c"},
			annotation.Bounds{Bounds: []data.Record{{"x": 1.0}}, Class: "c"},
		},
		{
			"vertical points",
			Descriptor{"type": "vertical-points", "x": 2.0},
			annotation.VerticalPoints{Point: data.Record{"type": "vertical-points", "x": 2.0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.desc.Decode()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeDescriptorErrors(t *testing.T) {
	for _, d := range []Descriptor{
		{},
		{"type": "circle"},
		{"type": "line"},
		{"type": "area", "coordinates": "nope"},
		{"type": "enclose", "coordinates": []any{1.0}},
	} {
		_, err := d.Decode()
		assert.True(t, xerrors.Is(err, xerrors.ErrCodeInvalidAnnotation), "%v: %v", d, err)
	}
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "chart.json")
	tomlPath := filepath.Join(dir, "chart.TOML")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleJSON), 0o644))
	require.NoError(t, os.WriteFile(tomlPath, []byte(sampleTOML), 0o644))

	doc, err := ImportFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "Revenue", doc.Title)

	doc, err = ImportFile(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, "Revenue", doc.Title)

	_, err = ImportFile(filepath.Join(dir, "missing.json"))
	assert.True(t, xerrors.Is(err, xerrors.ErrCodeFileNotFound))
}

func TestWriteJSONRoundTrip(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(doc, &buf))
	back, err := ReadJSON(&buf)
	require.NoError(t, err)

	assert.Equal(t, doc.Margin, back.Margin)
	assert.Equal(t, doc.Axes, back.Axes)
	assert.Len(t, back.Annotations, len(doc.Annotations))
}
