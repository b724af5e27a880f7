package sink

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/xyframe/pkg/annotation"
	"github.com/matzehuels/xyframe/pkg/axis"
	"github.com/matzehuels/xyframe/pkg/frame"
	"github.com/matzehuels/xyframe/pkg/geom"
)

const (
	pointRadius    = 3
	clusterRadius  = 4
	legendRow      = 20
	legendSwatch   = 14
	legendGap      = 10
	titleFontSize  = 16
	axisFontSize   = 11
	noteFontSize   = 12
	areaFillAlpha  = 0.6
	noteLineHeight = 14
)

// SVGWriter is implemented by custom annotation geometry that draws
// itself. Geometry kinds the renderer does not know and that do not
// implement it are skipped.
type SVGWriter interface {
	WriteSVG(buf *bytes.Buffer)
}

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme       Theme
	resolved    []annotation.Resolved
	hasResolved bool
	skipNotes   bool
}

// WithTheme sets the colors.
func WithTheme(t Theme) SVGOption { return func(r *svgRenderer) { r.theme = t } }

// WithAnnotations draws the given resolved annotations instead of
// resolving the frame's own.
func WithAnnotations(resolved []annotation.Resolved) SVGOption {
	return func(r *svgRenderer) { r.resolved, r.hasResolved = resolved, true }
}

// WithoutAnnotations skips annotations.
func WithoutAnnotations() SVGOption { return func(r *svgRenderer) { r.skipNotes = true } }

// RenderSVG draws the frame as a standalone SVG document. It does not
// modify f and is safe to call concurrently.
func RenderSVG(f *frame.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{theme: DefaultTheme}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s" font-family="%s">`+"\n",
		num(f.Size.W), num(f.Size.H), num(f.Size.W), num(f.Size.H), EscapeXML(r.theme.FontFamily))
	if r.theme.Background != "" {
		fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%" fill="%s"/>`+"\n", r.theme.Background)
	}

	fmt.Fprintf(&buf, `  <g class="xyframe" transform="translate(%s,%s)">`+"\n", num(f.Margin.Left), num(f.Margin.Top))
	r.renderAxes(&buf, f.Axes)

	fmt.Fprintf(&buf, `    <g class="data-area" transform="translate(%s,%s)">`+"\n", num(f.Position.X), num(f.Position.Y))
	for _, layer := range f.DrawOrder {
		switch layer {
		case frame.LayerLines:
			r.renderLines(&buf, f)
		case frame.LayerAreas:
			r.renderAreas(&buf, f)
		case frame.LayerPoints:
			r.renderPoints(&buf, f)
		}
	}
	buf.WriteString("    </g>\n")

	if !r.skipNotes {
		resolved := r.resolved
		if !r.hasResolved {
			resolved = f.ResolveAnnotations()
		}
		r.renderAnnotations(&buf, resolved, f.Position)
	}
	buf.WriteString("  </g>\n")

	if f.Matte != "" {
		fmt.Fprintf(&buf, `  <path class="matte" d="%s" fill="%s" fill-rule="evenodd"/>`+"\n", f.Matte, r.theme.Matte)
	}
	if f.Title != nil {
		fmt.Fprintf(&buf, `  <text class="frame-title" x="%s" y="%s" text-anchor="middle" font-size="%d" fill="%s">%s</text>`+"\n",
			num(f.Title.X), num(f.Title.Y), titleFontSize, r.theme.Text, EscapeXML(f.Title.Text))
	}
	if f.Legend != nil {
		r.renderLegend(&buf, f)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// =============================================================================
// Data layers
// =============================================================================

func (r *svgRenderer) renderLines(buf *bytes.Buffer, f *frame.Frame) {
	cfg := f.Render[frame.LayerLines]
	for i, l := range f.Layers.Lines {
		pts := l.Points()
		if len(pts) == 0 {
			continue
		}
		rec := l.Line.Record()
		fmt.Fprintf(buf, `      <path data-key="%s"%s d="%s" fill="none" stroke="%s" stroke-width="2"%s/>`+"\n",
			EscapeXML(cfg.RenderKey(rec, i)), classAttr("xyframe-line "+cfg.Class(rec, i)),
			pathData(pts, false), r.theme.Line, styleAttr(cfg.Style(rec, i)))
	}
}

func (r *svgRenderer) renderAreas(buf *bytes.Buffer, f *frame.Frame) {
	cfg := f.Render[frame.LayerAreas]
	for i, a := range f.Layers.Areas {
		pts := a.Points()
		if len(pts) < 3 {
			continue
		}
		rec := a.Area.Record()
		fmt.Fprintf(buf, `      <path data-key="%s"%s d="%s" fill="%s" fill-opacity="%s"%s/>`+"\n",
			EscapeXML(cfg.RenderKey(rec, i)), classAttr("xyframe-area "+cfg.Class(rec, i)),
			pathData(pts, true), r.theme.Area, num(areaFillAlpha), styleAttr(cfg.Style(rec, i)))
	}
}

func (r *svgRenderer) renderPoints(buf *bytes.Buffer, f *frame.Frame) {
	cfg := f.Render[frame.LayerPoints]
	for i, d := range f.Layers.Points {
		if !d.Valid {
			continue
		}
		p := d.Point()
		fmt.Fprintf(buf, `      <circle data-key="%s"%s cx="%s" cy="%s" r="%d" fill="%s"%s/>`+"\n",
			EscapeXML(cfg.RenderKey(d.Record, i)), classAttr("xyframe-point "+cfg.Class(d.Record, i)),
			num(p.X), num(p.Y), pointRadius, r.theme.Point, styleAttr(cfg.Style(d.Record, i)))
	}
}

// =============================================================================
// Axes
// =============================================================================

func (r *svgRenderer) renderAxes(buf *bytes.Buffer, set axis.Set) {
	for _, g := range set.Axes {
		fmt.Fprintf(buf, `    <g data-key="%s"%s>`+"\n", EscapeXML(g.Key), classAttr(g.Class))
		for _, t := range g.Ticks {
			s := t.Line
			fmt.Fprintf(buf, `      <line class="tick-line" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
				num(s.X1), num(s.Y1), num(s.X2), num(s.Y2), r.theme.Grid)
			r.text(buf, "tick-label", t.Label, axisFontSize)
		}
		if b := g.Baseline; b != nil {
			fmt.Fprintf(buf, `      <line class="axis-baseline" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
				num(b.X1), num(b.Y1), num(b.X2), num(b.Y2), r.theme.Axis)
		}
		if g.Label != nil {
			r.text(buf, "axis-title", *g.Label, noteFontSize)
		}
		buf.WriteString("    </g>\n")
	}
}

func (r *svgRenderer) text(buf *bytes.Buffer, class string, t axis.Text, size int) {
	transform := ""
	if t.Rotate != 0 {
		transform = fmt.Sprintf(` transform="rotate(%s,%s,%s)"`, num(t.Rotate), num(t.X), num(t.Y))
	}
	anchor := t.Anchor
	if anchor == "" {
		anchor = "middle"
	}
	fmt.Fprintf(buf, `      <text class="%s" x="%s" y="%s" text-anchor="%s" font-size="%d" fill="%s"%s>%s</text>`+"\n",
		class, num(t.X), num(t.Y), anchor, size, r.theme.Text, transform, EscapeXML(t.Text))
}

// =============================================================================
// Annotations
// =============================================================================

// renderAnnotations draws resolved geometry. Geometry relative to the plot
// origin is shifted by pos, the same offset the data area gets.
func (r *svgRenderer) renderAnnotations(buf *bytes.Buffer, resolved []annotation.Resolved, pos geom.Point) {
	if len(resolved) == 0 {
		return
	}
	buf.WriteString(`    <g class="annotations">` + "\n")
	for _, res := range resolved {
		shift := pos != (geom.Point{}) && !annotation.Positioned(res.Annotation)
		if shift {
			fmt.Fprintf(buf, `    <g transform="translate(%s,%s)">`+"\n", num(pos.X), num(pos.Y))
		}
		r.renderGeometry(buf, res.Geometry)
		if shift {
			buf.WriteString("    </g>\n")
		}
	}
	buf.WriteString("    </g>\n")
}

func (r *svgRenderer) renderGeometry(buf *bytes.Buffer, geometry annotation.Geometry) {
	stroke := r.theme.Annotation
	switch g := geometry.(type) {
	case annotation.Marker:
		fmt.Fprintf(buf, `      <circle%s cx="%s" cy="%s" r="%s" fill="none" stroke="%s"/>`+"\n",
			classAttr("annotation "+g.Class), num(g.Center.X), num(g.Center.Y), num(g.R), stroke)
		if g.Label != "" {
			r.note(buf, g.Center.X, g.Center.Y-g.R-4, annotation.Note{Label: g.Label})
		}
	case annotation.Label:
		to := geom.Point{X: g.Anchor.X + g.DX, Y: g.Anchor.Y + g.DY}
		fmt.Fprintf(buf, `      <line%s x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
			classAttr("annotation connector "+g.Class), num(g.Anchor.X), num(g.Anchor.Y), num(to.X), num(to.Y), stroke)
		r.note(buf, to.X, to.Y, g.Note)
	case annotation.Circle:
		c := g.Circle
		fmt.Fprintf(buf, `      <circle%s cx="%s" cy="%s" r="%s" fill="none" stroke="%s" stroke-dasharray="4 2"/>`+"\n",
			classAttr("annotation "+g.Class), num(c.X), num(c.Y), num(c.R), stroke)
		r.note(buf, c.X, c.Y-c.R-4, g.Note)
	case annotation.Box:
		b := g.Rect
		fmt.Fprintf(buf, `      <rect%s x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="0.1" stroke="%s"/>`+"\n",
			classAttr("annotation "+g.Class), num(b.X), num(b.Y), num(b.W), num(b.H), stroke, stroke)
		r.note(buf, b.X, b.Y-4, g.Note)
	case annotation.Reference:
		s := g.Line
		fmt.Fprintf(buf, `      <line%s x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-dasharray="4 2"/>`+"\n",
			classAttr("annotation "+g.Class), num(s.X1), num(s.Y1), num(s.X2), num(s.Y2), stroke)
		r.note(buf, g.NoteAt.X+g.DX, g.NoteAt.Y+g.DY, g.Note)
	case annotation.Path:
		fill := "none"
		if g.Closed {
			fill = stroke
		}
		fmt.Fprintf(buf, `      <path%s d="%s" fill="%s" fill-opacity="0.2" stroke="%s"/>`+"\n",
			classAttr("annotation "+g.Class), pathData(g.Points, g.Closed), fill, stroke)
		if len(g.Points) > 0 {
			r.note(buf, g.Points[0].X, g.Points[0].Y-4, g.Note)
		}
	case annotation.Cluster:
		fmt.Fprintf(buf, `      <g%s>`+"\n", classAttr("annotation "+g.Class))
		for _, p := range g.Points {
			fmt.Fprintf(buf, `        <circle cx="%s" cy="%s" r="%d" fill="none" stroke="%s"%s/>`+"\n",
				num(p.Center.X), num(p.Center.Y), clusterRadius, stroke, styleAttr(p.Style))
		}
		buf.WriteString("      </g>\n")
	case SVGWriter:
		g.WriteSVG(buf)
	}
}

func (r *svgRenderer) note(buf *bytes.Buffer, x, y float64, n annotation.Note) {
	if n.Empty() {
		return
	}
	fmt.Fprintf(buf, `      <text class="annotation-note" x="%s" y="%s" font-size="%d" fill="%s">`,
		num(x), num(y), noteFontSize, r.theme.Text)
	if n.Title != "" {
		fmt.Fprintf(buf, `<tspan font-weight="bold">%s</tspan>`, EscapeXML(n.Title))
	}
	if n.Label != "" {
		dy := ""
		if n.Title != "" {
			dy = fmt.Sprintf(` x="%s" dy="%d"`, num(x), noteLineHeight)
		}
		fmt.Fprintf(buf, `<tspan%s>%s</tspan>`, dy, EscapeXML(n.Label))
	}
	buf.WriteString("</text>\n")
}

// =============================================================================
// Legend
// =============================================================================

func (r *svgRenderer) renderLegend(buf *bytes.Buffer, f *frame.Frame) {
	x := f.Size.W - f.Margin.Right + legendGap
	y := f.Margin.Top
	fmt.Fprintf(buf, `  <g class="legend" transform="translate(%s,%s)">`+"\n", num(x), num(y))
	row := 0.0
	if f.Legend.Title != "" {
		fmt.Fprintf(buf, `    <text class="legend-title" y="%s" font-weight="bold" fill="%s">%s</text>`+"\n",
			num(row), r.theme.Text, EscapeXML(f.Legend.Title))
		row += legendRow
	}
	for _, g := range f.Legend.Groups {
		if g.Label != "" {
			fmt.Fprintf(buf, `    <text class="legend-group" y="%s" fill="%s">%s</text>`+"\n",
				num(row), r.theme.Text, EscapeXML(g.Label))
			row += legendRow
		}
		for i, item := range g.Items {
			style := ""
			if g.Style != nil {
				style = styleAttr(g.Style(item.Record, i))
			}
			top := row - legendSwatch + 2
			if g.Type == "fill" {
				fmt.Fprintf(buf, `    <rect y="%s" width="%d" height="%d" fill="%s"%s/>`+"\n",
					num(top), legendSwatch, legendSwatch, r.theme.Area, style)
			} else {
				mid := top + legendSwatch/2
				fmt.Fprintf(buf, `    <line x1="0" y1="%s" x2="%d" y2="%s" stroke="%s" stroke-width="2"%s/>`+"\n",
					num(mid), legendSwatch, num(mid), r.theme.Line, style)
			}
			fmt.Fprintf(buf, `    <text class="legend-item" x="%d" y="%s" fill="%s">%s</text>`+"\n",
				legendSwatch+6, num(row), r.theme.Text, EscapeXML(item.Label))
			row += legendRow
		}
	}
	buf.WriteString("  </g>\n")
}

// =============================================================================
// Helpers
// =============================================================================

func pathData(pts []geom.Point, closed bool) string {
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(num(p.X))
		b.WriteByte(',')
		b.WriteString(num(p.Y))
	}
	if closed {
		b.WriteString(" Z")
	}
	return b.String()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
