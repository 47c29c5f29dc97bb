package diff

import (
	"sheetdiff/domain/normalize"
	"sheetdiff/domain/sheet"
)

// Classify decides how two normalized cells are compared and whether they
// are equal. Date-like operands compare by calendar date; operands whose raw
// text carries a range glyph compare as ranges; everything else compares as
// exact text.
func Classify(raw1, raw2 sheet.Value, n1, n2 normalize.Value) (Category, bool) {
	if normalize.IsDateLike(n1) || normalize.IsDateLike(n2) {
		return CategoryDate, normalize.DateEqual(n1, n2)
	}
	if normalize.HasRangeGlyph(raw1.String()) || normalize.HasRangeGlyph(raw2.String()) {
		return CategoryRange, normalize.RangeEqual(n1.String(), n2.String())
	}
	return CategoryPlain, n1 == n2
}
