package sink

import (
	"bytes"
	"encoding/xml"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/xyframe/pkg/data"
)

// Theme holds the colors used where a layer style does not set one.
type Theme struct {
	Background string
	Line       string
	Area       string
	Point      string
	Axis       string
	Grid       string
	Text       string
	Annotation string
	Matte      string
	FontFamily string
}

// DefaultTheme is a light theme.
var DefaultTheme = Theme{
	Background: "#ffffff",
	Line:       "#4d430c",
	Area:       "#b3331d",
	Point:      "#00a2ce",
	Axis:       "#333333",
	Grid:       "#e0e0e0",
	Text:       "#333333",
	Annotation: "#d62728",
	Matte:      "#ffffff",
	FontFamily: "sans-serif",
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// styleAttr renders a style map as an inline style attribute with sorted
// keys, or "" when the style is empty.
func styleAttr(s data.Style) string {
	if len(s) == 0 {
		return ""
	}
	keys := slices.Sorted(maps.Keys(s))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ":" + s[k]
	}
	return ` style="` + EscapeXML(strings.Join(parts, ";")) + `"`
}

func classAttr(class string) string {
	class = strings.TrimSpace(class)
	if class == "" {
		return ""
	}
	return ` class="` + EscapeXML(class) + `"`
}
