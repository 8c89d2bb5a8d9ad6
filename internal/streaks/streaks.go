// Package streaks holds the consecutive-day math shared by the check-in
// endpoint's incremental update and the batch recompute, so the two paths
// cannot drift apart.
package streaks

import (
	"sort"
	"time"
)

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Metrics computes current streak, longest streak, and last check-in date
// for a set of check-in dates. Duplicates are ignored. Returns (0, 0, nil)
// for an empty set.
func Metrics(dates []time.Time) (current int, longest int, last *time.Time) {
	if len(dates) == 0 {
		return 0, 0, nil
	}

	seen := make(map[time.Time]struct{}, len(dates))
	unique := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := Day(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		unique = append(unique, day)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].Before(unique[j]) })

	// Current streak counts backward from the most recent date while the
	// gap stays exactly one day.
	current = 1
	for i := len(unique) - 1; i > 0; i-- {
		if DaysBetween(unique[i-1], unique[i]) == 1 {
			current++
		} else {
			break
		}
	}

	longest = 1
	run := 1
	for i := 1; i < len(unique); i++ {
		if DaysBetween(unique[i-1], unique[i]) == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}

	lastDay := unique[len(unique)-1]
	return current, longest, &lastDay
}

// Advance applies one new check-in date to an existing streak state. Same
// transition rules as Metrics over the incremental history: a one-day gap
// extends the run, a larger gap resets it, same-day or earlier dates leave
// it untouched.
func Advance(current, longest int, last *time.Time, date time.Time) (int, int) {
	if last == nil {
		current = 1
		if current > longest {
			longest = current
		}
		return current, longest
	}
	switch diff := DaysBetween(*last, date); {
	case diff == 1:
		current++
		if current > longest {
			longest = current
		}
	case diff > 1:
		current = 1
	}
	return current, longest
}
