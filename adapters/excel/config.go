package excel

import (
	"sheetdiff/domain/diff"
)

// ExcelConfig holds configuration for reading and annotating workbooks
type ExcelConfig struct {
	// Fills maps a mismatch category to the solid fill color (RGB hex) used
	// to mark the V2 cell.
	Fills map[diff.Category]string `json:"fills"`
	// ResultExtension is the extension of recalculated copies.
	ResultExtension string `json:"result_extension"`
}

// DefaultExcelConfig returns the standard marking colors: yellow for date
// and range mismatches, red for plain mismatches, blue for rows present in
// only one version.
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		Fills: map[diff.Category]string{
			diff.CategoryDate:     "FFFF00",
			diff.CategoryRange:    "FFFF00",
			diff.CategoryPlain:    "FFC7CE",
			diff.CategoryPresence: "BDD7EE",
		},
		ResultExtension: ".xlsx",
	}
}

// fill returns the color for category, falling back to the plain color.
func (c ExcelConfig) fill(category diff.Category) string {
	if color, ok := c.Fills[category]; ok {
		return color
	}
	if color, ok := c.Fills[diff.CategoryPlain]; ok {
		return color
	}
	return "FFFF00"
}
