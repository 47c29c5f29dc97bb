// Package sheet models the read-only grid the comparison core consumes.
//
// Rows and columns are 1-based. A Grid never mutates; annotation of the
// second version happens through a separate collaborator.
package sheet

import (
	"strconv"
	"time"
)

// Kind identifies the raw type of a cell value as read from a workbook.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindDateTime
	KindBool
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDateTime:
		return "datetime"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is one raw cell value. Formula cells carry their evaluated result
// with Formula set.
type Value struct {
	Kind    Kind      `json:"kind"`
	Text    string    `json:"text,omitempty"`
	Number  float64   `json:"number,omitempty"`
	Time    time.Time `json:"time,omitempty"`
	Bool    bool      `json:"bool,omitempty"`
	Formula bool      `json:"formula,omitempty"`
}

// Empty is the value of a cell with nothing in it
var Empty = Value{Kind: KindEmpty}

// Text creates a text value
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Number creates a numeric value
func Number(f float64) Value { return Value{Kind: KindNumber, Number: f} }

// DateTime creates a date/time value
func DateTime(t time.Time) Value { return Value{Kind: KindDateTime, Time: t} }

// Bool creates a boolean value
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IsEmpty reports whether the value holds nothing
func (v Value) IsEmpty() bool { return v.Kind == KindEmpty }

// String renders the value the way it is shown in reports.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindDateTime:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 {
			return v.Time.Format("2006-01-02")
		}
		return v.Time.Format("2006-01-02 15:04:05")
	case KindBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}
