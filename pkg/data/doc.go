// Package data defines the record model consumed by the xyframe pipeline.
//
// Records are opaque maps. The pipeline never reads a field by name on its
// own: every numeric value is pulled through an [Accessor], which is either
// supplied as a function or built from a field name with [Field]. Accessor
// declarations are normalized once per recomputation with [Resolve].
//
// # Groups
//
// [Line] and [Area] collect member records under a shared identifier. A group
// owns its coordinates but never the scales used to project them.
//
// # Undefined values
//
// An accessor returns (value, ok). When ok is false the value is undefined:
// the key is missing, the value is not numeric, or it is NaN or infinite.
// Undefined values are not errors; downstream stages drop the affected
// element instead.
package data
