package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate_Layouts(t *testing.T) {
	cases := map[string]time.Time{
		"2024-10-10":           time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC),
		"2024-10-10 08:30:00":  time.Date(2024, 10, 10, 8, 30, 0, 0, time.UTC),
		"2024-10-10T10:10:10Z": time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC),
		"2024/03/05":           time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		"03/05/2024":           time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		" 2023-01-31 ":         time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, ok := ParseDate(in)
		if assert.True(t, ok, in) {
			assert.True(t, want.Equal(got), "%s: got %v", in, got)
		}
	}
}

func TestParseDate_Missing(t *testing.T) {
	for _, in := range []string{"", "   ", "yesterday", "2024-13-40", "n/a"} {
		_, ok := ParseDate(in)
		assert.False(t, ok, in)
	}
}

func TestParseDateDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	assert.True(t, ParseDateDefault("", def).Equal(def))
}

func TestParseAmount(t *testing.T) {
	v, ok := ParseAmount(" 12.50 ")
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	v, ok = ParseAmount("-3e2")
	assert.True(t, ok)
	assert.Equal(t, -300.0, v)

	for _, in := range []string{"", "abc", "NaN", "inf", "1,234.00", "$5"} {
		_, ok := ParseAmount(in)
		assert.False(t, ok, in)
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("x", 7))
	assert.Equal(t, 12, ParseIntDefault("12", 7))
}
