package data

import (
	"encoding/json"
	"math"
	"strconv"
)

// Record is an application data record. Its schema is opaque to the pipeline.
type Record map[string]any

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge returns a copy of r with the fields of parent laid over it.
// Parent fields win, matching how a child point inherits its group's context.
func (r Record) Merge(parent Record) Record {
	out := make(Record, len(r)+len(parent))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range parent {
		out[k] = v
	}
	return out
}

// Number converts a decoded value into a finite float64.
// It understands every Go numeric type, json.Number and numeric strings.
func Number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Style is a flat set of presentation attributes (e.g. "fill", "r").
type Style map[string]string

// StyleFunc computes a style for a record. The index is the record's
// position in its layer.
type StyleFunc func(r Record, i int) Style

// ClassFunc computes a CSS-like class name for a record.
type ClassFunc func(r Record, i int) string

// KeyFunc computes a stable render key for a record.
type KeyFunc func(r Record, i int) string
