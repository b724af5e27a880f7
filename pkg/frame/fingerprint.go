package frame

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"runtime"

	"github.com/matzehuels/xyframe/pkg/axis"
	"github.com/matzehuels/xyframe/pkg/data"
	"github.com/matzehuels/xyframe/pkg/extent"
	"github.com/matzehuels/xyframe/pkg/geom"
)

// fingerprint hashes every input that affects a frame. Top-level functions
// are identified by their code pointer. Closures and method values share a
// code pointer across captures, so data.Field("a") and data.Field("b") would
// hash alike; inputs holding one get an empty fingerprint, which never
// matches and forces a rebuild unless a revision token is set.
func fingerprint(in Inputs) string {
	p := struct {
		Lines       []data.Line
		Points      []data.Record
		Areas       []data.Area
		X, Y        extentPrint
		Size        geom.Size
		Position    geom.Point
		Margin      *geom.Margin
		Axes        []axisPrint
		Annotations [][2]any
		Title       string
		Legend      *legendPrint
		Matte       *Matte
		LineType    string
		AreaLabel   *areaLabelPrint
		Fields      []string
		Funcs       []uintptr
	}{
		Lines:    in.Lines,
		Points:   in.Points,
		Areas:    in.Areas,
		X:        printExtent(in.XExtent),
		Y:        printExtent(in.YExtent),
		Size:     in.Size,
		Position: in.Position,
		Margin:   in.Margin,
		Title:    in.Title,
		Matte:    in.Matte,
		LineType: in.LineType,
		Fields:   []string{in.X.Field, in.Y.Field, in.YTop.Field, in.YBottom.Field, in.LineID.Field},
		Funcs: funcIDs(
			in.X.Func, in.Y.Func, in.YTop.Func, in.YBottom.Func, in.LineID.Func,
			in.XExtent.OnChange, in.YExtent.OnChange, in.XScale, in.YScale,
			in.LineStyle.Style, in.LineStyle.Class, in.LineStyle.RenderKey,
			in.PointStyle.Style, in.PointStyle.Class, in.PointStyle.RenderKey,
			in.AreaStyle.Style, in.AreaStyle.Class, in.AreaStyle.RenderKey,
			in.Rule, in.HTMLRule, in.TooltipContent,
		),
	}
	if l := in.AreaLabel; l != nil {
		p.AreaLabel = &areaLabelPrint{Position: l.Position, DX: l.DX, DY: l.DY, Class: l.Class}
		p.Funcs = append(p.Funcs, funcIDs(l.Content)...)
	}
	for _, a := range in.Axes {
		p.Axes = append(p.Axes, printAxis(a))
	}
	for _, a := range in.Annotations {
		if a == nil {
			p.Annotations = append(p.Annotations, [2]any{"", nil})
			continue
		}
		p.Annotations = append(p.Annotations, [2]any{a.Kind(), a})
	}
	if in.Legend != nil {
		lp := &legendPrint{Title: in.Legend.Title}
		for _, g := range in.Legend.Groups {
			lp.Groups = append(lp.Groups, groupPrint{Label: g.Label, Type: g.Type, Items: g.Items})
			p.Funcs = append(p.Funcs, funcIDs(g.Style)...)
		}
		p.Legend = lp
	}

	if !stableFuncs(p.Funcs) {
		return ""
	}
	for _, a := range p.Axes {
		if !stableFuncs(a.Funcs) {
			return ""
		}
	}

	b, err := json.Marshal(p)
	if err != nil {
		// Records holding values JSON cannot encode still hash by their
		// printed form.
		b = []byte(fmt.Sprintf("%#v", p))
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

type extentPrint struct {
	Min, Max *float64
	Fallback *extent.Extent
	Invert   bool
}

func printExtent(s extent.Settings) extentPrint {
	return extentPrint{Min: s.Min, Max: s.Max, Fallback: s.Fallback, Invert: s.Invert}
}

type axisPrint struct {
	Orient     axis.Orient
	TickValues []float64
	Ticks      int
	Baseline   axis.Baseline
	Padding    *float64
	TickSize   *float64
	Footer     bool
	Label      string
	Rotate     float64
	ClassName  string
	Key        string
	Funcs      []uintptr
}

func printAxis(a axis.Spec) axisPrint {
	return axisPrint{
		Orient:     a.Orient,
		TickValues: a.TickValues,
		Ticks:      a.Ticks,
		Baseline:   a.Baseline,
		Padding:    a.Padding,
		TickSize:   a.TickSize,
		Footer:     a.Footer,
		Label:      a.Label,
		Rotate:     a.Rotate,
		ClassName:  a.ClassName,
		Key:        a.Key,
		Funcs:      funcIDs(a.TickGenerator, a.TickFormat),
	}
}

type areaLabelPrint struct {
	Position string
	DX, DY   float64
	Class    string
}

type legendPrint struct {
	Title  string
	Groups []groupPrint
}

type groupPrint struct {
	Label string
	Type  string
	Items []LegendItem
}

func funcIDs(fns ...any) []uintptr {
	out := make([]uintptr, len(fns))
	for i, fn := range fns {
		v := reflect.ValueOf(fn)
		if v.Kind() == reflect.Func && !v.IsNil() {
			out[i] = v.Pointer()
		}
	}
	return out
}

// closureName matches the runtime names of function literals
// ("pkg.Outer.func1", "pkg.Outer.func1.2") and method values ("T.M-fm").
var closureName = regexp.MustCompile(`\.func\d+(\.\d+)*$|-fm$`)

// stableFuncs reports whether every code pointer names a top-level function,
// whose behavior the pointer alone determines.
func stableFuncs(pcs []uintptr) bool {
	for _, pc := range pcs {
		if pc == 0 {
			continue
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil || closureName.MatchString(fn.Name()) {
			return false
		}
	}
	return true
}
