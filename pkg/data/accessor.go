package data

// Accessor extracts a numeric value from a record.
// ok is false when the value is undefined for that record.
type Accessor func(r Record) (v float64, ok bool)

// Undefined is the accessor used when no declaration can be resolved.
// It reports every value as undefined.
func Undefined(Record) (float64, bool) { return 0, false }

// Field returns an accessor that reads the named field.
func Field(name string) Accessor {
	return func(r Record) (float64, bool) {
		if r == nil {
			return 0, false
		}
		v, ok := r[name]
		if !ok {
			return 0, false
		}
		return Number(v)
	}
}

// Resolve normalizes an accessor declaration. A function wins over a field
// name; with neither, fallback is used, and with no fallback the result is
// [Undefined]. Resolve never returns nil.
func Resolve(field string, fn Accessor, fallback Accessor) Accessor {
	switch {
	case fn != nil:
		return fn
	case field != "":
		return Field(field)
	case fallback != nil:
		return fallback
	default:
		return Undefined
	}
}

// IDAccessor extracts a group identifier from a record.
type IDAccessor func(r Record) (string, bool)

// IDField returns an identifier accessor reading the named field.
// Numeric identifiers are accepted and formatted without a fraction.
func IDField(name string) IDAccessor {
	return func(r Record) (string, bool) {
		if r == nil {
			return "", false
		}
		switch v := r[name].(type) {
		case string:
			return v, v != ""
		case nil:
			return "", false
		default:
			if f, ok := Number(v); ok {
				return formatID(f), true
			}
			return "", false
		}
	}
}

// ResolveID is the identifier counterpart of [Resolve].
func ResolveID(field string, fn IDAccessor, fallback IDAccessor) IDAccessor {
	switch {
	case fn != nil:
		return fn
	case field != "":
		return IDField(field)
	case fallback != nil:
		return fallback
	default:
		return func(Record) (string, bool) { return "", false }
	}
}
