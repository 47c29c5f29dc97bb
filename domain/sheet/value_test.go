package sheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"empty", Empty, ""},
		{"text", Text("abc"), "abc"},
		{"integral number", Number(12), "12"},
		{"fractional number", Number(12.5), "12.5"},
		{"date only", DateTime(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)), "2024-01-02"},
		{"date time", DateTime(time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)), "2024-01-02 09:30:00"},
		{"bool", Bool(true), "TRUE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.String())
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "datetime", KindDateTime.String())
	assert.Equal(t, "unknown", Kind(99).String())
	assert.True(t, Empty.IsEmpty())
	assert.False(t, Text("").IsEmpty())
}
