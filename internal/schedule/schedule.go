// Package schedule holds the rules for a group's weekly slot: which day names
// are accepted and what a wall-clock time looks like.
package schedule

import "regexp"

// Weekdays are the canonical day names used on the wire and in storage.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var (
	timePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
	weekdaySet  = func() map[string]struct{} {
		set := make(map[string]struct{}, len(Weekdays))
		for _, d := range Weekdays {
			set[d] = struct{}{}
		}
		return set
	}()
)

// IsValidTime reports whether s is a 24-hour H:mm or HH:mm time.
func IsValidTime(s string) bool {
	return timePattern.MatchString(s)
}

// IsValidWeekday reports whether s is a canonical weekday name. The match is
// case-sensitive.
func IsValidWeekday(s string) bool {
	_, ok := weekdaySet[s]
	return ok
}
