package calendar

import (
	"testing"
	"time"
)

func mustCalendar(t *testing.T, start, end string, weekdays []int) *Calendar {
	t.Helper()
	c, err := New(start, end, weekdays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load zone %s: %v", name, err)
	}
	return loc
}

func weekdaysMonFri() []int { return []int{1, 2, 3, 4, 5} }

func TestNewRejectsMisconfiguration(t *testing.T) {
	cases := []struct {
		name     string
		start    string
		end      string
		weekdays []int
	}{
		{"start after end", "19:00", "09:00", weekdaysMonFri()},
		{"start equals end", "09:00", "09:00", weekdaysMonFri()},
		{"empty weekdays", "09:00", "19:00", nil},
		{"weekday out of range", "09:00", "19:00", []int{0}},
		{"weekday too large", "09:00", "19:00", []int{8}},
		{"malformed start", "9am", "19:00", weekdaysMonFri()},
		{"malformed end", "09:00", "25:00", weekdaysMonFri()},
	}

	for _, tc := range cases {
		if _, err := New(tc.start, tc.end, tc.weekdays); err == nil {
			t.Errorf("%s: expected construction error", tc.name)
		}
	}
}

func TestIsCallableBoundaries(t *testing.T) {
	c := mustCalendar(t, "09:00", "19:00", weekdaysMonFri())
	london := mustZone(t, "Europe/London")

	// Monday 2024-01-01.
	if !c.IsCallable(time.Date(2024, 1, 1, 9, 0, 0, 0, london), london) {
		t.Error("start boundary should be callable (inclusive)")
	}
	if c.IsCallable(time.Date(2024, 1, 1, 19, 0, 0, 0, london), london) {
		t.Error("end boundary should not be callable (exclusive)")
	}
	if !c.IsCallable(time.Date(2024, 1, 1, 18, 59, 0, 0, london), london) {
		t.Error("minute before end should be callable")
	}
	if c.IsCallable(time.Date(2024, 1, 1, 8, 59, 0, 0, london), london) {
		t.Error("minute before start should not be callable")
	}

	// Saturday 2024-01-06 falls outside Mon-Fri.
	if c.IsCallable(time.Date(2024, 1, 6, 12, 0, 0, 0, london), london) {
		t.Error("saturday should not be callable")
	}
}

func TestNextCallableIdempotentWithinHours(t *testing.T) {
	c := mustCalendar(t, "09:00", "19:00", weekdaysMonFri())
	london := mustZone(t, "Europe/London")

	in := time.Date(2024, 1, 1, 14, 30, 0, 0, london)
	if got := c.NextCallable(in, london); !got.Equal(in) {
		t.Fatalf("expected callable instant unchanged, got %v", got)
	}
}

func TestNextCallableSameDayBeforeStart(t *testing.T) {
	c := mustCalendar(t, "09:00", "19:00", weekdaysMonFri())
	london := mustZone(t, "Europe/London")

	in := time.Date(2024, 1, 1, 7, 15, 0, 0, london)
	want := time.Date(2024, 1, 1, 9, 0, 0, 0, london)
	if got := c.NextCallable(in, london); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextCallableSkipsWeekend(t *testing.T) {
	c := mustCalendar(t, "09:00", "19:00", weekdaysMonFri())
	london := mustZone(t, "Europe/London")

	// Saturday 2024-01-06 14:00 local must land on Monday 09:00.
	in := time.Date(2024, 1, 6, 14, 0, 0, 0, london)
	want := time.Date(2024, 1, 8, 9, 0, 0, 0, london)
	if got := c.NextCallable(in, london); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextCallableAfterCloseRollsToNextDay(t *testing.T) {
	c := mustCalendar(t, "09:00", "19:00", weekdaysMonFri())
	london := mustZone(t, "Europe/London")

	in := time.Date(2024, 1, 1, 21, 0, 0, 0, london)
	want := time.Date(2024, 1, 2, 9, 0, 0, 0, london)
	if got := c.NextCallable(in, london); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextCallableMonotonic(t *testing.T) {
	c := mustCalendar(t, "09:00", "19:00", weekdaysMonFri())
	kabul := mustZone(t, "Asia/Kabul")

	instants := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 18, 59, 0, 0, kabul),
		time.Date(2024, 1, 6, 3, 0, 0, 0, kabul),
		time.Date(2024, 6, 30, 23, 59, 0, 0, time.UTC),
	}
	for _, in := range instants {
		if got := c.NextCallable(in, kabul); got.Before(in) {
			t.Errorf("NextCallable(%v) = %v went backwards", in, got)
		}
	}
}

func TestNextCallableAcrossSpringForward(t *testing.T) {
	c := mustCalendar(t, "09:00", "19:00", weekdaysMonFri())
	newYork := mustZone(t, "America/New_York")

	// US DST starts Sunday 2024-03-10. A target on Saturday evening must land
	// on Monday at 09:00 wall-clock despite the offset change in between.
	in := time.Date(2024, 3, 9, 20, 0, 0, 0, newYork)
	got := c.NextCallable(in, newYork)

	local := got.In(newYork)
	if local.Hour() != 9 || local.Minute() != 0 {
		t.Fatalf("expected 09:00 wall-clock, got %v", local)
	}
	if local.Weekday() != time.Monday || local.Day() != 11 {
		t.Fatalf("expected Monday March 11, got %v", local)
	}
}

func TestNextCallableAcrossFallBack(t *testing.T) {
	c := mustCalendar(t, "09:00", "19:00", weekdaysMonFri())
	london := mustZone(t, "Europe/London")

	// UK DST ends Sunday 2024-10-27.
	in := time.Date(2024, 10, 26, 22, 0, 0, 0, london)
	got := c.NextCallable(in, london)

	local := got.In(london)
	if local.Hour() != 9 || local.Minute() != 0 {
		t.Fatalf("expected 09:00 wall-clock, got %v", local)
	}
	if local.Weekday() != time.Monday || local.Day() != 28 {
		t.Fatalf("expected Monday October 28, got %v", local)
	}
}

func TestWeekendOnlyWindow(t *testing.T) {
	// ISO 6=Saturday, 7=Sunday.
	c := mustCalendar(t, "10:00", "16:00", []int{6, 7})
	london := mustZone(t, "Europe/London")

	if !c.IsCallable(time.Date(2024, 1, 7, 12, 0, 0, 0, london), london) {
		t.Error("sunday noon should be callable for weekend window")
	}

	// Wednesday rolls forward to Saturday.
	in := time.Date(2024, 1, 3, 12, 0, 0, 0, london)
	want := time.Date(2024, 1, 6, 10, 0, 0, 0, london)
	if got := c.NextCallable(in, london); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
