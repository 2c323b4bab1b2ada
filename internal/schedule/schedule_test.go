package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTime(t *testing.T) {
	cases := map[string]bool{
		"00:00":    true,
		"23:59":    true,
		"09:05":    true,
		"9:05":     true,
		"19:30":    true,
		"24:00":    false,
		"12:60":    false,
		"9:5":      false,
		"123:00":   false,
		"12:00:00": false,
		"12-00":    false,
		" 12:00":   false,
		"":         false,
		"ab:cd":    false,
	}
	for in, want := range cases {
		assert.Equalf(t, want, IsValidTime(in), "IsValidTime(%q)", in)
	}
}

func TestIsValidTimeExhaustive(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			s := twoDigits(h) + ":" + twoDigits(m)
			assert.Truef(t, IsValidTime(s), "expected %s to be valid", s)
		}
	}
}

func TestIsValidWeekday(t *testing.T) {
	for _, d := range Weekdays {
		assert.True(t, IsValidWeekday(d), d)
	}
	for _, d := range []string{"monday", "MONDAY", "Mon", "Понедельник", "", "Funday", "Monday "} {
		assert.False(t, IsValidWeekday(d), d)
	}
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}
