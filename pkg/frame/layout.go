package frame

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/xyframe/pkg/annotation"
	"github.com/matzehuels/xyframe/pkg/axis"
	"github.com/matzehuels/xyframe/pkg/data"
	"github.com/matzehuels/xyframe/pkg/geom"
	"github.com/matzehuels/xyframe/pkg/project"
	"github.com/matzehuels/xyframe/pkg/scale"
)

// Default margins.
const (
	marginBase  = 10
	marginAxis  = 50
	marginTitle = 40
	matteInset  = 5
)

// computeMargin returns the explicit margin, or one derived from the axes
// and title: 50 on every side with an axis, at least 40 on top when there
// is a title, 10 elsewhere.
func computeMargin(in Inputs) geom.Margin {
	if in.Margin != nil {
		return *in.Margin
	}
	m := geom.Uniform(marginBase)
	for _, a := range in.Axes {
		switch a.Orient {
		case axis.Top:
			m.Top = marginAxis
		case axis.Bottom:
			m.Bottom = marginAxis
		case axis.Left:
			m.Left = marginAxis
		case axis.Right:
			m.Right = marginAxis
		}
	}
	if in.Title != "" {
		m.Top = math.Max(m.Top, marginTitle)
	}
	return m
}

// adjust returns the plot offset and the frame size minus margins.
func adjust(pos geom.Point, size geom.Size, m geom.Margin) (geom.Point, geom.Size) {
	return pos, geom.Size{
		W: math.Max(0, size.W-m.Horizontal()),
		H: math.Max(0, size.H-m.Vertical()),
	}
}

// mattePath draws the frame outline and the plot opening as one path to be
// filled with the even-odd rule.
func mattePath(size geom.Size, m geom.Margin, inset float64) string {
	if inset == 0 {
		inset = matteInset
	}
	x0, y0 := m.Left-inset, m.Top-inset
	w := size.W - m.Horizontal() + 2*inset
	h := size.H - m.Vertical() + 2*inset

	var b strings.Builder
	fmt.Fprintf(&b, "M0,0 h%g v%g h%g Z ", size.W, size.H, -size.W)
	fmt.Fprintf(&b, "M%g,%g v%g h%g v%g Z", x0, y0, h, w, -h)
	return b.String()
}

// buildLegend fills in the default group when the legend is enabled with
// no groups of its own.
func buildLegend(in Inputs, acc project.Accessors) *Legend {
	if in.Legend == nil {
		return nil
	}
	out := *in.Legend
	if len(out.Groups) > 0 || len(in.Lines) == 0 {
		out.Groups = append([]LegendGroup(nil), out.Groups...)
		return &out
	}

	kind := "line"
	switch in.LineType {
	case "stackedarea", "stackedpercent", "bumparea":
		kind = "fill"
	}
	group := LegendGroup{Type: kind, Style: in.LineStyle.Style}
	for i := range in.Lines {
		rec := in.Lines[i].Record()
		label, ok := acc.LineID(rec)
		if !ok {
			label = fmt.Sprint(i)
		}
		group.Items = append(group.Items, LegendItem{Label: label, Record: rec})
	}
	out.Groups = []LegendGroup{group}
	return &out
}

// areaLabels places a callout at the configured anchor of every area.
func areaLabels(cfg *AreaLabel, areas []project.AreaLayer, x, y scale.Scale) []annotation.Annotation {
	if cfg == nil {
		return nil
	}
	pos := cfg.Position
	if pos == "" {
		pos = "center"
	}
	content := cfg.Content
	if content == nil {
		content = defaultAreaLabel
	}

	var out []annotation.Annotation
	for i, al := range areas {
		if al.Area == nil {
			continue
		}
		for _, anchors := range al.Area.Anchors {
			p, ok := anchors[pos]
			if !ok {
				continue
			}
			at := geom.Point{X: x.Map(p[0]), Y: y.Map(p[1])}
			if !at.Valid() {
				continue
			}
			text := content(al.Area, i)
			if text == "" {
				continue
			}
			out = append(out, annotation.Callout{
				At:    &at,
				DX:    cfg.DX,
				DY:    cfg.DY,
				Note:  annotation.Note{Title: text},
				Class: cfg.Class,
			})
		}
	}
	return out
}

func defaultAreaLabel(a *data.Area, i int) string {
	if v, ok := a.Meta["value"]; ok && v != nil {
		return fmt.Sprint(v)
	}
	if a.ID != "" {
		return a.ID
	}
	return fmt.Sprint(i)
}

func renderConfig(s LayerStyle, prefix, typ string) LayerRender {
	r := LayerRender{Style: s.Style, Class: s.Class, RenderKey: s.RenderKey, Type: typ}
	if r.Style == nil {
		r.Style = func(data.Record, int) data.Style { return data.Style{} }
	}
	if r.Class == nil {
		r.Class = func(data.Record, int) string { return "" }
	}
	if r.RenderKey == nil {
		r.RenderKey = func(_ data.Record, i int) string { return fmt.Sprintf("%s-%d", prefix, i) }
	}
	return r
}

// DownloadRows returns the records exported for a download. Mode "points"
// (the default) flattens every valid datum with its parent group's fields;
// "lines" and "areas" export the group records.
func (f *Frame) DownloadRows(mode string) []data.Record {
	switch mode {
	case "lines":
		out := make([]data.Record, 0, len(f.Layers.Lines))
		for _, l := range f.Layers.Lines {
			out = append(out, l.Line.Record())
		}
		return out
	case "areas":
		out := make([]data.Record, 0, len(f.Layers.Areas))
		for _, a := range f.Layers.Areas {
			out = append(out, a.Area.Record())
		}
		return out
	default:
		out := make([]data.Record, 0, len(f.Layers.Full))
		for i := range f.Layers.Full {
			out = append(out, f.Layers.Full[i].Flatten())
		}
		return out
	}
}
