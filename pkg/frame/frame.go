// Package frame assembles the immutable state of one chart revision.
//
// [Recompute] is the single entry point. It runs extent resolution, scale
// construction, layer projection and axis geometry in that order and
// returns a new [Frame], or returns the previous frame itself when nothing
// that affects it changed:
//
//   - with a revision token (Inputs.DataVersion), an unchanged token and
//     unchanged size skip everything; an unchanged token with a new size
//     keeps the extents and resolved data and rebuilds the rest;
//   - without a token, the frame is skipped when a fingerprint of the data,
//     settings and function identities is unchanged. Inputs holding
//     closures or method values cannot be fingerprinted and are always
//     rebuilt.
//
// A published Frame is never mutated. Annotation resolution reads it and
// may run far more often than recomputation.
package frame

import (
	"github.com/matzehuels/xyframe/pkg/annotation"
	"github.com/matzehuels/xyframe/pkg/axis"
	"github.com/matzehuels/xyframe/pkg/data"
	"github.com/matzehuels/xyframe/pkg/extent"
	"github.com/matzehuels/xyframe/pkg/geom"
	"github.com/matzehuels/xyframe/pkg/project"
	"github.com/matzehuels/xyframe/pkg/scale"
)

// Layer names a drawable data layer.
type Layer string

const (
	LayerLines  Layer = "lines"
	LayerAreas  Layer = "areas"
	LayerPoints Layer = "points"
)

// DrawOrder is the order layers are drawn in, back to front.
var DrawOrder = []Layer{LayerLines, LayerAreas, LayerPoints}

// Title is the positioned chart title.
type Title struct {
	Text string
	X, Y float64
}

// LayerRender is the resolved drawing configuration of one layer.
type LayerRender struct {
	Style     data.StyleFunc
	Class     data.ClassFunc
	RenderKey data.KeyFunc
	Type      string
}

// Frame is the snapshot of one input revision.
type Frame struct {
	Key         string
	DataVersion string

	Size     geom.Size
	Margin   geom.Margin
	Position geom.Point
	// PlotSize is the frame size minus margins.
	PlotSize geom.Size

	XExtent, YExtent extent.Extent
	// CalculatedX and CalculatedY are always derived from the data, even
	// when the extent is supplied.
	CalculatedX, CalculatedY extent.Extent
	// XChanged and YChanged report whether the calculated extent differs
	// from the previous frame's.
	XChanged, YChanged bool

	X, Y      scale.Scale
	Accessors project.Accessors
	Layers    project.Layers
	Locator   *project.Locator

	Axes   axis.Set
	Title  *Title
	Legend *Legend
	// Matte is an SVG path covering the margin, empty when disabled.
	Matte string

	// Annotations are the caller's descriptors followed by AreaLabels.
	Annotations []annotation.Annotation
	AreaLabels  []annotation.Annotation

	Render    map[Layer]LayerRender
	DrawOrder []Layer

	prepared    project.Layers
	fingerprint string
	pointStyle  data.StyleFunc
	rule        annotation.Rule
	htmlRule    annotation.HTMLRule
	tooltip     func(annotation.FrameHover) []string
}

// Recompute returns the frame for in. prev may be nil. When nothing that
// affects the frame changed, prev itself is returned.
//
// Recompute has no side effects apart from extent OnChange callbacks,
// which run at most once per axis and never on a skip.
func Recompute(in Inputs, prev *Frame) *Frame {
	in = in.withDefaults()
	fp := fingerprint(in)

	if prev != nil {
		switch {
		case in.DataVersion != "" && in.DataVersion == prev.DataVersion:
			if in.Size == prev.Size {
				return prev
			}
			return resize(in, prev, fp)
		case in.DataVersion == "" && prev.DataVersion == "" && fp != "" && fp == prev.fingerprint:
			return prev
		}
	}
	return build(in, prev, fp)
}

// Skipped reports whether Recompute returned prev unchanged.
func Skipped(next, prev *Frame) bool {
	return prev != nil && next == prev
}

func build(in Inputs, prev *Frame, fp string) *Frame {
	f := &Frame{
		Key:         in.Key,
		DataVersion: in.DataVersion,
		fingerprint: fp,
		Accessors:   in.accessors(),
	}
	f.prepared = project.Prepare(in.dataset(), f.Accessors)

	f.CalculatedX, f.CalculatedY = f.prepared.Extents(in.XExtent.Fallback, in.YExtent.Fallback)
	f.XExtent = in.XExtent.Resolve(f.CalculatedX)
	f.YExtent = in.YExtent.Resolve(f.CalculatedY)

	var prevX, prevY *extent.Extent
	if prev != nil {
		prevX, prevY = &prev.CalculatedX, &prev.CalculatedY
	}
	f.XChanged = extent.Changed(prevX, &f.CalculatedX)
	f.YChanged = extent.Changed(prevY, &f.CalculatedY)

	f.layout(in)

	in.XExtent.Notify(prevX, &f.CalculatedX)
	in.YExtent.Notify(prevY, &f.CalculatedY)
	return f
}

// resize reuses the extents and resolved data of prev and rebuilds
// everything that depends on the frame size.
func resize(in Inputs, prev *Frame, fp string) *Frame {
	f := &Frame{
		Key:         in.Key,
		DataVersion: in.DataVersion,
		fingerprint: fp,
		Accessors:   prev.Accessors,
		prepared:    prev.prepared,
		XExtent:     prev.XExtent,
		YExtent:     prev.YExtent,
		CalculatedX: prev.CalculatedX,
		CalculatedY: prev.CalculatedY,
	}
	f.layout(in)
	return f
}

// layout runs every stage after extent resolution.
func (f *Frame) layout(in Inputs) {
	f.Size = in.Size
	f.Margin = computeMargin(in)
	f.Position, f.PlotSize = adjust(in.Position, in.Size, f.Margin)

	f.X, f.Y = scale.Build(f.XExtent, f.YExtent, f.PlotSize, in.XScale, in.YScale)
	f.Layers = f.prepared.Project(f.X, f.Y)
	f.Locator = project.NewLocator(f.X, f.Y, f.Accessors, f.Layers, f.Position)

	f.Axes = axis.Build(in.Axes, axis.Env{
		X:         f.X,
		Y:         f.Y,
		Size:      f.PlotSize,
		FrameSize: f.Size,
		Margin:    f.Margin,
		Full:      f.Layers.Full,
	})

	if in.Title != "" {
		f.Title = &Title{Text: in.Title, X: f.Size.W / 2, Y: 25}
	}
	f.Legend = buildLegend(in, f.Accessors)
	if in.Matte != nil {
		f.Matte = mattePath(f.Size, f.Margin, in.Matte.Inset)
	}

	f.AreaLabels = areaLabels(in.AreaLabel, f.Layers.Areas, f.X, f.Y)
	f.Annotations = make([]annotation.Annotation, 0, len(in.Annotations)+len(f.AreaLabels))
	f.Annotations = append(f.Annotations, in.Annotations...)
	f.Annotations = append(f.Annotations, f.AreaLabels...)

	f.Render = map[Layer]LayerRender{
		LayerLines:  renderConfig(in.LineStyle, "line", in.LineType),
		LayerAreas:  renderConfig(in.AreaStyle, "area", ""),
		LayerPoints: renderConfig(in.PointStyle, "point", ""),
	}
	f.DrawOrder = DrawOrder

	f.pointStyle = f.Render[LayerPoints].Style
	f.rule, f.htmlRule, f.tooltip = in.Rule, in.HTMLRule, in.TooltipContent
}

// Resolver returns an annotation resolver over the frame. Each call
// returns a new resolver; none of them mutate the frame.
func (f *Frame) Resolver() *annotation.Resolver {
	r := annotation.NewResolver(annotation.Env{
		Locator:    f.Locator,
		Layers:     f.Layers,
		Size:       f.PlotSize,
		Position:   f.Position,
		Margin:     f.Margin,
		PointStyle: f.pointStyle,
	})
	r.Rule, r.HTMLRule, r.TooltipContent = f.rule, f.htmlRule, f.tooltip
	return r
}

// ResolveAnnotations resolves every annotation of the frame.
func (f *Frame) ResolveAnnotations() []annotation.Resolved {
	return f.Resolver().ResolveAll(f.Annotations)
}
