package streaks

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func days(values ...string) []time.Time {
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		out = append(out, day(v))
	}
	return out
}

func TestMetricsEmpty(t *testing.T) {
	current, longest, last := Metrics(nil)
	if current != 0 || longest != 0 || last != nil {
		t.Fatalf("got (%d, %d, %v), want (0, 0, nil)", current, longest, last)
	}
}

func TestMetricsSingleDay(t *testing.T) {
	current, longest, last := Metrics(days("2026-08-10"))
	if current != 1 || longest != 1 {
		t.Fatalf("got current=%d longest=%d, want 1 and 1", current, longest)
	}
	if last == nil || !last.Equal(day("2026-08-10")) {
		t.Fatalf("last = %v, want 2026-08-10", last)
	}
}

func TestMetricsGapBeforeLatest(t *testing.T) {
	// d0, d1, d2, then a gap, then d4: current restarts at the latest date.
	current, longest, _ := Metrics(days("2026-08-01", "2026-08-02", "2026-08-03", "2026-08-05"))
	if current != 1 {
		t.Fatalf("current = %d, want 1", current)
	}
	if longest != 3 {
		t.Fatalf("longest = %d, want 3", longest)
	}
}

func TestMetricsCurrentRunIsLatest(t *testing.T) {
	current, longest, last := Metrics(days("2026-08-01", "2026-08-03", "2026-08-04", "2026-08-05"))
	if current != 3 || longest != 3 {
		t.Fatalf("got current=%d longest=%d, want 3 and 3", current, longest)
	}
	if !last.Equal(day("2026-08-05")) {
		t.Fatalf("last = %v, want 2026-08-05", last)
	}
}

func TestMetricsDuplicatesAndOrder(t *testing.T) {
	// Unsorted input with duplicates collapses to the same answer.
	current, longest, _ := Metrics(days("2026-08-02", "2026-08-01", "2026-08-02", "2026-08-03"))
	if current != 3 || longest != 3 {
		t.Fatalf("got current=%d longest=%d, want 3 and 3", current, longest)
	}
}

func TestAdvanceFirstCheckIn(t *testing.T) {
	current, longest := Advance(0, 0, nil, day("2026-08-10"))
	if current != 1 || longest != 1 {
		t.Fatalf("got (%d, %d), want (1, 1)", current, longest)
	}
}

func TestAdvanceConsecutiveDay(t *testing.T) {
	last := day("2026-08-10")
	current, longest := Advance(2, 5, &last, day("2026-08-11"))
	if current != 3 || longest != 5 {
		t.Fatalf("got (%d, %d), want (3, 5)", current, longest)
	}
}

func TestAdvanceExtendsLongest(t *testing.T) {
	last := day("2026-08-10")
	current, longest := Advance(5, 5, &last, day("2026-08-11"))
	if current != 6 || longest != 6 {
		t.Fatalf("got (%d, %d), want (6, 6)", current, longest)
	}
}

func TestAdvanceGapResets(t *testing.T) {
	last := day("2026-08-10")
	current, longest := Advance(4, 7, &last, day("2026-08-14"))
	if current != 1 || longest != 7 {
		t.Fatalf("got (%d, %d), want (1, 7)", current, longest)
	}
}

func TestAdvanceSameOrEarlierDayUnchanged(t *testing.T) {
	last := day("2026-08-10")
	for _, d := range days("2026-08-10", "2026-08-08") {
		current, longest := Advance(4, 7, &last, d)
		if current != 4 || longest != 7 {
			t.Fatalf("date %v: got (%d, %d), want (4, 7)", d, current, longest)
		}
	}
}

// Feeding dates one at a time through Advance must land on the same current
// streak that the batch recompute produces over the full history.
func TestAdvanceAgreesWithMetrics(t *testing.T) {
	histories := [][]time.Time{
		days("2026-08-01"),
		days("2026-08-01", "2026-08-02", "2026-08-03"),
		days("2026-08-01", "2026-08-02", "2026-08-03", "2026-08-05"),
		days("2026-08-01", "2026-08-03", "2026-08-04", "2026-08-05", "2026-08-09", "2026-08-10"),
	}
	for _, history := range histories {
		current := 0
		longest := 0
		var last *time.Time
		for _, d := range history {
			current, longest = Advance(current, longest, last, d)
			copied := Day(d)
			last = &copied
		}

		wantCurrent, wantLongest, _ := Metrics(history)
		if current != wantCurrent || longest != wantLongest {
			t.Fatalf("history %v: incremental (%d, %d), batch (%d, %d)", history, current, longest, wantCurrent, wantLongest)
		}
	}
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2026, 8, 10, 23, 30, 0, 0, time.UTC)
	b := time.Date(2026, 8, 11, 0, 15, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 1 {
		t.Fatalf("DaysBetween = %d, want 1", got)
	}
}
