package sink

import (
	"encoding/json"

	"github.com/matzehuels/xyframe/pkg/annotation"
	"github.com/matzehuels/xyframe/pkg/axis"
	"github.com/matzehuels/xyframe/pkg/data"
	"github.com/matzehuels/xyframe/pkg/extent"
	"github.com/matzehuels/xyframe/pkg/frame"
	"github.com/matzehuels/xyframe/pkg/geom"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	resolved    []annotation.Resolved
	hasResolved bool
	compact     bool
}

// WithJSONAnnotations exports the given resolved annotations instead of
// resolving the frame's own.
func WithJSONAnnotations(resolved []annotation.Resolved) JSONOption {
	return func(r *jsonRenderer) { r.resolved, r.hasResolved = resolved, true }
}

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type frameJSON struct {
	Key         string         `json:"key,omitempty"`
	DataVersion string         `json:"data_version,omitempty"`
	Size        sizeJSON       `json:"size"`
	Plot        sizeJSON       `json:"plot"`
	Margin      marginJSON     `json:"margin"`
	Position    pointJSON      `json:"position"`
	XExtent     extentJSON     `json:"x_extent"`
	YExtent     extentJSON     `json:"y_extent"`
	Lines       []seriesJSON   `json:"lines"`
	Areas       []seriesJSON   `json:"areas"`
	Points      []pointRowJSON `json:"points"`
	Axes        []axisJSON     `json:"axes"`
	Annotations []noteJSON     `json:"annotations"`
	Title       *textJSON      `json:"title,omitempty"`
	Legend      *legendJSON    `json:"legend,omitempty"`
	Matte       string         `json:"matte,omitempty"`
}

type sizeJSON struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type marginJSON struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type extentJSON struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type seriesJSON struct {
	Key    string      `json:"key"`
	Class  string      `json:"class,omitempty"`
	Style  data.Style  `json:"style,omitempty"`
	Record data.Record `json:"record,omitempty"`
	Points []pointJSON `json:"points"`
}

type pointRowJSON struct {
	Key    string      `json:"key"`
	Class  string      `json:"class,omitempty"`
	Style  data.Style  `json:"style,omitempty"`
	Record data.Record `json:"record"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
}

type textJSON struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Anchor string  `json:"anchor,omitempty"`
	Rotate float64 `json:"rotate,omitempty"`
}

type segmentJSON struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

type tickJSON struct {
	Value float64     `json:"value"`
	Pos   float64     `json:"pos"`
	Line  segmentJSON `json:"line"`
	Label textJSON    `json:"label"`
}

type axisJSON struct {
	Orient   string       `json:"orient"`
	Key      string       `json:"key,omitempty"`
	Class    string       `json:"class,omitempty"`
	Ticks    []tickJSON   `json:"ticks"`
	Baseline *segmentJSON `json:"baseline,omitempty"`
	Label    *textJSON    `json:"label,omitempty"`
}

type noteJSON struct {
	Index    int    `json:"index"`
	Type     string `json:"type"`
	Kind     string `json:"kind"`
	Geometry any    `json:"geometry"`
}

type legendJSON struct {
	Title  string            `json:"title,omitempty"`
	Groups []legendGroupJSON `json:"groups"`
}

type legendGroupJSON struct {
	Label string   `json:"label,omitempty"`
	Type  string   `json:"type"`
	Items []string `json:"items"`
}

// RenderJSON exports the frame's sizes, extents, projected layers, axis
// geometry and resolved annotations.
func RenderJSON(f *frame.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := frameJSON{
		Key:         f.Key,
		DataVersion: f.DataVersion,
		Size:        sizeOf(f.Size),
		Plot:        sizeOf(f.PlotSize),
		Margin:      marginJSON{Top: f.Margin.Top, Right: f.Margin.Right, Bottom: f.Margin.Bottom, Left: f.Margin.Left},
		Position:    pointOf(f.Position),
		XExtent:     extentOf(f.XExtent),
		YExtent:     extentOf(f.YExtent),
		Lines:       []seriesJSON{},
		Areas:       []seriesJSON{},
		Points:      []pointRowJSON{},
		Axes:        []axisJSON{},
		Annotations: []noteJSON{},
		Matte:       f.Matte,
	}

	lines := f.Render[frame.LayerLines]
	for i, l := range f.Layers.Lines {
		rec := l.Line.Record()
		out.Lines = append(out.Lines, seriesJSON{
			Key:    lines.RenderKey(rec, i),
			Class:  lines.Class(rec, i),
			Style:  lines.Style(rec, i),
			Record: rec,
			Points: pointsOf(l.Points()),
		})
	}
	areas := f.Render[frame.LayerAreas]
	for i, a := range f.Layers.Areas {
		rec := a.Area.Record()
		out.Areas = append(out.Areas, seriesJSON{
			Key:    areas.RenderKey(rec, i),
			Class:  areas.Class(rec, i),
			Style:  areas.Style(rec, i),
			Record: rec,
			Points: pointsOf(a.Points()),
		})
	}
	points := f.Render[frame.LayerPoints]
	for i, d := range f.Layers.Points {
		if !d.Valid {
			continue
		}
		p := d.Point()
		out.Points = append(out.Points, pointRowJSON{
			Key:    points.RenderKey(d.Record, i),
			Class:  points.Class(d.Record, i),
			Style:  points.Style(d.Record, i),
			Record: d.Record,
			X:      p.X,
			Y:      p.Y,
		})
	}

	for _, g := range f.Axes.Axes {
		out.Axes = append(out.Axes, axisOf(g))
	}

	resolved := r.resolved
	if !r.hasResolved {
		resolved = f.ResolveAnnotations()
	}
	for _, res := range resolved {
		out.Annotations = append(out.Annotations, noteJSON{
			Index:    res.Index,
			Type:     res.Annotation.Kind(),
			Kind:     res.Geometry.Kind(),
			Geometry: res.Geometry,
		})
	}

	if f.Title != nil {
		out.Title = &textJSON{Text: f.Title.Text, X: f.Title.X, Y: f.Title.Y, Anchor: "middle"}
	}
	if f.Legend != nil {
		lg := &legendJSON{Title: f.Legend.Title, Groups: []legendGroupJSON{}}
		for _, g := range f.Legend.Groups {
			group := legendGroupJSON{Label: g.Label, Type: g.Type, Items: []string{}}
			for _, item := range g.Items {
				group.Items = append(group.Items, item.Label)
			}
			lg.Groups = append(lg.Groups, group)
		}
		out.Legend = lg
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

func sizeOf(s geom.Size) sizeJSON { return sizeJSON{Width: s.W, Height: s.H} }

func pointOf(p geom.Point) pointJSON { return pointJSON{X: p.X, Y: p.Y} }

func pointsOf(pts []geom.Point) []pointJSON {
	out := make([]pointJSON, len(pts))
	for i, p := range pts {
		out[i] = pointOf(p)
	}
	return out
}

func extentOf(e extent.Extent) extentJSON { return extentJSON{Min: e.Min, Max: e.Max} }

func segmentOf(s geom.Segment) segmentJSON {
	return segmentJSON{X1: s.X1, Y1: s.Y1, X2: s.X2, Y2: s.Y2}
}

func textOf(t axis.Text) textJSON {
	return textJSON{Text: t.Text, X: t.X, Y: t.Y, Anchor: t.Anchor, Rotate: t.Rotate}
}

func axisOf(g axis.Geometry) axisJSON {
	a := axisJSON{Orient: string(g.Orient), Key: g.Key, Class: g.Class, Ticks: make([]tickJSON, len(g.Ticks))}
	for i, t := range g.Ticks {
		a.Ticks[i] = tickJSON{Value: t.Value, Pos: t.Pos, Line: segmentOf(t.Line), Label: textOf(t.Label)}
	}
	if g.Baseline != nil {
		s := segmentOf(*g.Baseline)
		a.Baseline = &s
	}
	if g.Label != nil {
		t := textOf(*g.Label)
		a.Label = &t
	}
	return a
}
