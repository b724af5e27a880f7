package chartio

import (
	"github.com/matzehuels/xyframe/pkg/annotation"
	"github.com/matzehuels/xyframe/pkg/data"
	xerrors "github.com/matzehuels/xyframe/pkg/errors"
)

// Descriptor is one annotation as written in a chart definition: a flat
// record with a "type" plus the annotated datum's own fields.
type Descriptor data.Record

// Reserved descriptor fields. Everything else belongs to the datum.
const (
	fieldType        = "type"
	fieldLabel       = "label"
	fieldTitle       = "title"
	fieldNote        = "note"
	fieldClass       = "class"
	fieldDX          = "dx"
	fieldDY          = "dy"
	fieldPadding     = "padding"
	fieldPercent     = "percent"
	fieldCoordinates = "coordinates"
	fieldBounds      = "bounds"
)

// Type returns the descriptor's annotation kind.
func (d Descriptor) Type() string {
	s, _ := d[fieldType].(string)
	return s
}

// Decode converts the descriptor into an annotation.
func (d Descriptor) Decode() (annotation.Annotation, error) {
	kind := d.Type()
	if err := xerrors.ValidateAnnotationType(kind, annotation.Kinds); err != nil {
		return nil, err
	}
	rec := data.Record(d)
	class := d.str(fieldClass)

	switch kind {
	case "xy":
		return annotation.XY{Point: rec, Label: d.str(fieldLabel), Class: class}, nil
	case "frame-hover":
		h := annotation.FrameHover{Point: rec, Class: class}
		if p, ok := data.Number(d[fieldPercent]); ok {
			h.Percent = &p
		}
		return h, nil
	case "react-annotation":
		return annotation.Callout{
			Point: rec,
			DX:    d.num(fieldDX),
			DY:    d.num(fieldDY),
			Note:  d.note(),
			Class: class,
		}, nil
	case "enclose", "enclose-rect":
		coords, err := d.records(fieldCoordinates)
		if err != nil {
			return nil, err
		}
		if kind == "enclose" {
			return annotation.Enclose{Coordinates: coords, Padding: d.num(fieldPadding), Note: d.note(), Class: class}, nil
		}
		return annotation.EncloseRect{Coordinates: coords, Padding: d.num(fieldPadding), Note: d.note(), Class: class}, nil
	case "x":
		return annotation.XLine{Point: rec, Note: d.note(), Class: class}, nil
	case "y":
		return annotation.YLine{Point: rec, Note: d.note(), Class: class}, nil
	case "bounds":
		bounds, err := d.records(fieldBounds)
		if err != nil {
			return nil, err
		}
		return annotation.Bounds{Bounds: bounds, Note: d.note(), Class: class}, nil
	case "line", "area":
		coords, err := d.records(fieldCoordinates)
		if err != nil {
			return nil, err
		}
		if kind == "line" {
			return annotation.Line{Coordinates: coords, Note: d.note(), Class: class}, nil
		}
		return annotation.Area{Coordinates: coords, Note: d.note(), Class: class}, nil
	case "horizontal-points":
		return annotation.HorizontalPoints{Point: rec, Class: class}, nil
	case "vertical-points":
		return annotation.VerticalPoints{Point: rec, Class: class}, nil
	}
	return nil, xerrors.New(xerrors.ErrCodeUnsupported, "annotation type %q has no decoder", kind)
}

func (d Descriptor) str(key string) string {
	s, _ := d[key].(string)
	return s
}

func (d Descriptor) num(key string) float64 {
	f, _ := data.Number(d[key])
	return f
}

// note reads a nested note object, falling back to top-level title and
// label fields.
func (d Descriptor) note() annotation.Note {
	n := annotation.Note{Title: d.str(fieldTitle), Label: d.str(fieldLabel)}
	if m, ok := asRecord(d[fieldNote]); ok {
		if s, ok := m[fieldTitle].(string); ok {
			n.Title = s
		}
		if s, ok := m[fieldLabel].(string); ok {
			n.Label = s
		}
	}
	return n
}

// records reads a list of records. JSON decodes nested lists as []any and
// TOML as []map[string]any; both are accepted.
func (d Descriptor) records(key string) ([]data.Record, error) {
	raw, ok := d[key]
	if !ok || raw == nil {
		return nil, xerrors.New(xerrors.ErrCodeInvalidAnnotation, "%s annotation needs %q", d.Type(), key)
	}
	var out []data.Record
	switch v := raw.(type) {
	case []data.Record:
		return v, nil
	case []map[string]any:
		for _, m := range v {
			out = append(out, data.Record(m))
		}
	case []any:
		for i, item := range v {
			rec, ok := asRecord(item)
			if !ok {
				return nil, xerrors.New(xerrors.ErrCodeInvalidAnnotation, "%s[%d]: want object, got %T", key, i, item)
			}
			out = append(out, rec)
		}
	default:
		return nil, xerrors.New(xerrors.ErrCodeInvalidAnnotation, "%s: want list, got %T", key, raw)
	}
	return out, nil
}

func asRecord(v any) (data.Record, bool) {
	switch m := v.(type) {
	case map[string]any:
		return data.Record(m), true
	case data.Record:
		return m, true
	}
	return nil, false
}
