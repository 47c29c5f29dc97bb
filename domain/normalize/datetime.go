package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// dateTimePattern is one accepted date/time spelling.
type dateTimePattern struct {
	name string
	re   *regexp.Regexp
}

// dateTimePatterns are tried in order; the first that parses wins.
// Submatches are year, month, day and optionally hour, minute, second.
var dateTimePatterns = []dateTimePattern{
	{"Y-M-D h:m:s", regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})\s*(\d{1,2}):(\d{1,2}):(\d{1,2})$`)},
	{"Y/M/D h:m:s", regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})\s*(\d{1,2}):(\d{1,2}):(\d{1,2})$`)},
	{"Y-M-D h:m", regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})\s*(\d{1,2}):(\d{1,2})$`)},
	{"Y/M/D h:m", regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})\s*(\d{1,2}):(\d{1,2})$`)},
	{"Y-M-D", regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)},
	{"Y/M/D", regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)},
}

// looseDate finds a year-month-day triple anywhere in a text.
var looseDate = regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)

// CanonicalDateLayout is the extracted date form
const CanonicalDateLayout = "2006/01/02"

// ParseDateTime tries the ordered pattern list against s.
func ParseDateTime(s string) (time.Time, bool) {
	for _, p := range dateTimePatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		if t, ok := buildTime(m[1:]); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// buildTime assembles a calendar time from numeric parts, rejecting dates
// that do not exist (2024/02/30) and out-of-range clock values.
func buildTime(parts []string) (time.Time, bool) {
	nums := make([]int, 6)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	year, month, day, hour, minute, second := nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]
	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// IsDateLike reports whether v is a date/time value or text that parses as one.
func IsDateLike(v Value) bool {
	switch v.Kind {
	case DateTime:
		return true
	case Text:
		_, ok := ParseDateTime(v.Text)
		return ok
	default:
		return false
	}
}

// ExtractDate returns the canonical YYYY/MM/DD form of v. Text that carries
// no recognizable date comes back unchanged and absent values as "".
func ExtractDate(v Value) string {
	switch v.Kind {
	case DateTime:
		return v.Time.Format(CanonicalDateLayout)
	case Text:
		if t, ok := ParseDateTime(v.Text); ok {
			return t.Format(CanonicalDateLayout)
		}
		if m := looseDate.FindStringSubmatch(v.Text); m != nil {
			month, _ := strconv.Atoi(m[2])
			day, _ := strconv.Atoi(m[3])
			return fmt.Sprintf("%s/%02d/%02d", m[1], month, day)
		}
		return v.Text
	default:
		return ""
	}
}

// DateEqual compares two values by calendar date only; time of day is ignored.
func DateEqual(a, b Value) bool {
	return ExtractDate(a) == ExtractDate(b)
}
