package normalize

import "strings"

// RangeGlyphs are the visually distinct range separators seen in time
// ranges such as 9:00〜17:00.
var RangeGlyphs = []string{"〜", "～", "~"}

// CanonicalRangeSeparator replaces every range glyph
const CanonicalRangeSeparator = "~"

var rangeReplacer = strings.NewReplacer(
	"〜", CanonicalRangeSeparator,
	"～", CanonicalRangeSeparator,
)

// HasRangeGlyph reports whether s contains any range separator.
func HasRangeGlyph(s string) bool {
	for _, g := range RangeGlyphs {
		if strings.Contains(s, g) {
			return true
		}
	}
	return false
}

// CanonicalRange rewrites all range glyph variants to the canonical one.
func CanonicalRange(s string) string {
	return rangeReplacer.Replace(strings.TrimSpace(s))
}

// RangeEqual compares two texts after range separator canonicalization. No
// time-of-day interpretation happens here.
func RangeEqual(a, b string) bool {
	return CanonicalRange(a) == CanonicalRange(b)
}
