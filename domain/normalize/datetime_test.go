package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateTime_Patterns(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-02 03:04:05", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2024/01/02 03:04:05", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2024-01-02 03:04", time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)},
		{"2024/1/2 3:04", time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)},
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2024/1/2", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2024/01/0210:00", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDateTime(tt.input)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateTime_Rejects(t *testing.T) {
	for _, input := range []string{"", "2024", "2024-13-01", "2024-02-30", "2024/01/01 25:00", "10:00", "2024.01.01", "2024-01/01"} {
		_, ok := ParseDateTime(input)
		assert.False(t, ok, "input %q", input)
	}
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name  string
		input Value
		want  string
	}{
		{"datetime value", Value{Kind: DateTime, Time: time.Date(2024, 5, 6, 23, 59, 0, 0, time.UTC)}, "2024/05/06"},
		{"pattern text", Value{Kind: Text, Text: "2024-5-6"}, "2024/05/06"},
		{"embedded date", Value{Kind: Text, Text: "2024/5/6(月)"}, "2024/05/06"},
		{"no date", Value{Kind: Text, Text: "未定"}, "未定"},
		{"absent", AbsentValue, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDate(tt.input))
		})
	}
}

func TestDateEqual_IgnoresTimeOfDay(t *testing.T) {
	morning := Value{Kind: DateTime, Time: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
	evening := Value{Kind: DateTime, Time: time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)}
	nextDay := Value{Kind: DateTime, Time: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)}

	assert.True(t, DateEqual(morning, evening))
	assert.False(t, DateEqual(morning, nextDay))
	assert.False(t, DateEqual(morning, AbsentValue))
}

func TestIsDateLike(t *testing.T) {
	assert.True(t, IsDateLike(Value{Kind: Text, Text: "2024/01/01"}))
	assert.False(t, IsDateLike(Value{Kind: Text, Text: "2024/01/01(月)"}))
	assert.False(t, IsDateLike(AbsentValue))
}
