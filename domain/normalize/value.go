// Package normalize canonicalizes raw cell values so that two versions of a
// sheet can be compared without tripping over formatting noise.
//
// Normalization is a pure function of the raw value and the layout options;
// feeding a normalized value back in yields the same value.
package normalize

import "time"

// Kind is the variant of a normalized value.
type Kind int

const (
	Absent Kind = iota
	Text
	DateTime
)

// Value is the canonical form of one cell. CanonicalText covers numeric
// text as well; numbers are canonicalized to their integer text when
// integral.
type Value struct {
	Kind Kind      `json:"kind"`
	Text string    `json:"text,omitempty"`
	Time time.Time `json:"time,omitempty"`
}

// AbsentValue is the normalized form of an empty cell
var AbsentValue = Value{Kind: Absent}

// IsAbsent reports whether the cell normalized to nothing
func (v Value) IsAbsent() bool { return v.Kind == Absent }

// String is the text form used by range and plain comparisons.
func (v Value) String() string {
	switch v.Kind {
	case Text:
		return v.Text
	case DateTime:
		return v.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}
