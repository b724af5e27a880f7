package errors

import (
	"math"
	"slices"
	"strings"
	"unicode"
)

// Output formats accepted by the renderers.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatSVG}

// Orients lists the accepted axis orientations.
var Orients = []string{"top", "bottom", "left", "right"}

// MaxDimension bounds the width and height of a frame.
const MaxDimension = 100_000

// ValidateOrient checks that an axis orientation is one of [Orients].
func ValidateOrient(orient string) error {
	if !slices.Contains(Orients, orient) {
		return New(ErrCodeInvalidOrient, "invalid orient: %q (must be one of: %s)", orient, strings.Join(Orients, ", "))
	}
	return nil
}

// ValidateFormat checks that an output format is one of [Formats].
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSize checks a frame size. Zero on both sides selects the default
// size and is accepted.
func ValidateSize(w, h float64) error {
	if w == 0 && h == 0 {
		return nil
	}
	for _, v := range []float64{w, h} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return New(ErrCodeInvalidSize, "invalid size %gx%g: width and height must be positive", w, h)
		}
		if v > MaxDimension {
			return New(ErrCodeInvalidSize, "invalid size %gx%g: max %d per side", w, h, MaxDimension)
		}
	}
	return nil
}

// ValidateAnnotationType checks that an annotation type is one of known.
func ValidateAnnotationType(kind string, known []string) error {
	if kind == "" {
		return New(ErrCodeInvalidAnnotation, "annotation type cannot be empty")
	}
	if !slices.Contains(known, kind) {
		return New(ErrCodeInvalidAnnotation, "unknown annotation type: %q", kind)
	}
	return nil
}

// ValidateKey validates a chart key supplied by a client. Keys appear in
// cache keys and URLs, so the rules are conservative:
//   - No empty keys
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "chart key cannot be empty")
	}
	if len(key) > 128 {
		return New(ErrCodeInvalidInput, "chart key too long (max 128 characters)")
	}
	for _, r := range key {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "chart key contains invalid characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidInput, "chart key contains invalid characters: %q", pattern)
		}
	}
	return nil
}
