package data

import "strconv"

// DefaultLineIDField is the record field used to associate a record with a
// line when no line-id accessor is declared.
const DefaultLineIDField = "lineID"

// Line is a named series of records drawn as one path.
type Line struct {
	ID          string
	Coordinates []Record
	// Meta carries group-level fields (label, category, ...) that child
	// records inherit when flattened.
	Meta Record
}

// Record returns the line's group-level record, including its identifier.
func (l *Line) Record() Record {
	out := l.Meta.Clone()
	if out == nil {
		out = Record{}
	}
	if l.ID != "" {
		out[DefaultLineIDField] = l.ID
	}
	return out
}

// Anchors maps a label position name (e.g. "center") to a data-space point.
type Anchors map[string][2]float64

// Area is a named closed shape defined by its coordinates.
type Area struct {
	ID          string
	Coordinates []Record
	// Anchors lists label positions; an area may carry several labels.
	Anchors []Anchors
	Meta    Record
}

// Record returns the area's group-level record, including its identifier.
func (a *Area) Record() Record {
	out := a.Meta.Clone()
	if out == nil {
		out = Record{}
	}
	if a.ID != "" {
		out["areaID"] = a.ID
	}
	return out
}

func formatID(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
