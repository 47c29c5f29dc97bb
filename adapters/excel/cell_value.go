package excel

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"sheetdiff/domain/sheet"
)

// dateKind classifies a number format
type dateKind int

const (
	notDate dateKind = iota
	dateFormat
	timeOnlyFormat
)

// builtinDateFormats are the built-in number format ids that render dates,
// including the CJK-locale ids.
var builtinDateFormats = map[int]dateKind{
	14: dateFormat, 15: dateFormat, 16: dateFormat, 17: dateFormat, 22: dateFormat,
	18: timeOnlyFormat, 19: timeOnlyFormat, 20: timeOnlyFormat, 21: timeOnlyFormat,
	45: timeOnlyFormat, 46: timeOnlyFormat, 47: timeOnlyFormat,
	27: dateFormat, 28: dateFormat, 29: dateFormat, 30: dateFormat, 31: dateFormat,
	32: timeOnlyFormat, 33: timeOnlyFormat, 34: timeOnlyFormat, 35: timeOnlyFormat,
	36: dateFormat, 50: dateFormat, 51: dateFormat, 52: dateFormat, 53: dateFormat,
	54: dateFormat, 55: timeOnlyFormat, 56: timeOnlyFormat, 57: dateFormat, 58: dateFormat,
}

// formatNoise matches quoted literals, bracketed sections and escaped
// characters, none of which decide whether a format is a date.
var formatNoise = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

// classifyFormat inspects a custom number format code.
func classifyFormat(code string) dateKind {
	code = strings.ToLower(formatNoise.ReplaceAllString(code, ""))
	if strings.Contains(code, "general") {
		return notDate
	}
	hasTime := strings.ContainsAny(code, "hs")
	// A lone m is a month unless hours or seconds make it minutes.
	hasDate := strings.ContainsAny(code, "yd") || (strings.Contains(code, "m") && !hasTime)
	switch {
	case hasDate:
		return dateFormat
	case hasTime:
		return timeOnlyFormat
	default:
		return notDate
	}
}

// styleDateKind reports whether a style renders its number as a date.
func (w *Workbook) styleDateKind(styleID int) dateKind {
	if kind, ok := w.dateStyles[styleID]; ok {
		return kind
	}
	kind := notDate
	if style, err := w.file.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			kind = classifyFormat(*style.CustomNumFmt)
		} else {
			kind = builtinDateFormats[style.NumFmt]
		}
	}
	w.dateStyles[styleID] = kind
	return kind
}

// cellValue types a raw cell string using the cell's type and style.
func (w *Workbook) cellValue(sheetName, cell, raw string) (sheet.Value, error) {
	cellType, err := w.file.GetCellType(sheetName, cell)
	if err != nil {
		return sheet.Value{}, err
	}
	formula, err := w.file.GetCellFormula(sheetName, cell)
	if err != nil {
		return sheet.Value{}, err
	}

	v, err := w.typedValue(sheetName, cell, raw, cellType)
	if err != nil {
		return sheet.Value{}, err
	}
	v.Formula = formula != ""
	return v, nil
}

func (w *Workbook) typedValue(sheetName, cell, raw string, cellType excelize.CellType) (sheet.Value, error) {
	switch cellType {
	case excelize.CellTypeBool:
		return sheet.Bool(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return sheet.Text(raw), nil
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return sheet.DateTime(t), nil
			}
		}
		return sheet.Text(raw), nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return sheet.Text(raw), nil
	}

	styleID, err := w.file.GetCellStyle(sheetName, cell)
	if err != nil {
		return sheet.Value{}, err
	}
	switch w.styleDateKind(styleID) {
	case dateFormat:
		t, err := excelize.ExcelDateToTime(f, w.date1904)
		if err != nil {
			return sheet.Number(f), nil
		}
		return sheet.DateTime(t), nil
	case timeOnlyFormat:
		t, err := excelize.ExcelDateToTime(f, w.date1904)
		if err != nil {
			return sheet.Number(f), nil
		}
		return sheet.Text(t.Format("15:04:05")), nil
	default:
		return sheet.Number(f), nil
	}
}
