package annotation

import (
	"math"
	"strconv"
)

// ResolveHTML returns the tooltip of one descriptor, or nil. Only
// frame-hover descriptors have a built-in tooltip; a custom [HTMLRule]
// returning non-nil replaces it.
func (r *Resolver) ResolveHTML(a Annotation, i int) *Tooltip {
	if a == nil {
		return nil
	}
	ctx := r.context(a, i)
	if r.HTMLRule != nil {
		if t := r.HTMLRule(ctx); t != nil {
			return t
		}
	}

	hover, ok := a.(FrameHover)
	if !ok {
		return nil
	}
	if len(ctx.Screen) != 1 {
		r.drop(a, i, "invalid coordinates")
		return nil
	}

	var lines []string
	if r.TooltipContent != nil {
		lines = r.TooltipContent(hover)
	} else {
		x, y, _ := r.Env.Locator.DataPoint(hover.Point)
		lines = []string{formatValue(x), formatValue(y)}
		if hover.Percent != nil && *hover.Percent != 0 {
			lines = append(lines, FormatPercent(*hover.Percent))
		}
	}
	return &Tooltip{At: ctx.Screen[0], Lines: lines, Class: joinClass("tooltip", hover.Class)}
}

// FormatPercent renders a fraction as a percentage rounded to one decimal
// place, e.g. 0.12345 as "12.3%".
func FormatPercent(p float64) string {
	return strconv.FormatFloat(math.Round(p*1000)/10, 'f', -1, 64) + "%"
}
