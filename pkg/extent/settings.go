package extent

// Settings configures the extent of one axis.
//
// Setting both Min and Max supplies the extent outright. Setting only one
// of them overrides that side of the calculated extent. OnChange, when set,
// receives the calculated extent whenever it differs from the previous
// recomputation's.
type Settings struct {
	Min, Max *float64

	// Fallback is used when no record contributes a value.
	Fallback *Extent

	// Invert reverses the resolved extent so the axis runs max to min.
	Invert bool

	OnChange func(Extent)
}

// Fixed returns settings that pin the extent to [min, max].
func Fixed(min, max float64) Settings {
	return Settings{Min: &min, Max: &max}
}

// Supplied reports whether both bounds are pinned, in which case the data
// does not need to be scanned to resolve the extent.
func (s Settings) Supplied() bool {
	return s.Min != nil && s.Max != nil
}

// Resolve applies the settings to a calculated extent.
func (s Settings) Resolve(calculated Extent) Extent {
	out := calculated
	if s.Min != nil {
		out.Min = *s.Min
	}
	if s.Max != nil {
		out.Max = *s.Max
	}
	if s.Invert {
		out.Min, out.Max = out.Max, out.Min
	}
	return out
}

// Changed reports whether next differs from prev by value, using the
// stringified comparison: a nil extent stringifies as "".
func Changed(prev, next *Extent) bool {
	return str(prev) != str(next)
}

func str(e *Extent) string {
	if e == nil {
		return ""
	}
	return e.String()
}

// Notify invokes s.OnChange with next when it is registered and the extent
// changed. It reports whether the callback ran.
func (s Settings) Notify(prev, next *Extent) bool {
	if s.OnChange == nil || next == nil || !Changed(prev, next) {
		return false
	}
	s.OnChange(*next)
	return true
}
