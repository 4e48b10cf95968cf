package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Calendar answers whether an instant falls inside the configured calling
// window in a contact's local timezone, and finds the next instant that does.
// All checks happen in local wall-clock time, never fixed UTC offsets, so the
// window stays put across DST transitions.
type Calendar struct {
	startMinute int
	endMinute   int
	weekdays    [7]bool
}

// New parses and validates a business-hours window. Start and end are
// wall-clock "HH:MM" strings; weekdays use ISO numbering, Monday=1 through
// Sunday=7. Misconfiguration is rejected here so the runtime day search can
// never fail to terminate.
func New(start, end string, weekdays []int) (*Calendar, error) {
	startMinute, err := parseMinute(start)
	if err != nil {
		return nil, fmt.Errorf("calendar: start time: %w", err)
	}
	endMinute, err := parseMinute(end)
	if err != nil {
		return nil, fmt.Errorf("calendar: end time: %w", err)
	}
	if startMinute >= endMinute {
		return nil, fmt.Errorf("calendar: window start %s must be before end %s", start, end)
	}
	if len(weekdays) == 0 {
		return nil, fmt.Errorf("calendar: at least one allowed weekday is required")
	}

	c := &Calendar{startMinute: startMinute, endMinute: endMinute}
	for _, d := range weekdays {
		if d < 1 || d > 7 {
			return nil, fmt.Errorf("calendar: weekday %d out of range 1-7", d)
		}
		// ISO Monday=1..Sunday=7 onto time.Weekday's Sunday=0..Saturday=6.
		c.weekdays[d%7] = true
	}

	return c, nil
}

// IsCallable reports whether t falls on an allowed weekday within
// [start, end) local wall-clock time.
func (c *Calendar) IsCallable(t time.Time, loc *time.Location) bool {
	local := t.In(loc)
	if !c.weekdays[int(local.Weekday())] {
		return false
	}
	minute := local.Hour()*60 + local.Minute()
	return minute >= c.startMinute && minute < c.endMinute
}

// NextCallable returns the earliest callable instant at or after t. Already
// callable instants are returned unchanged. The search advances by local
// calendar days rather than 24-hour steps; construction guarantees an allowed
// weekday exists within seven days.
func (c *Calendar) NextCallable(t time.Time, loc *time.Location) time.Time {
	if c.IsCallable(t, loc) {
		return t
	}

	local := t.In(loc)
	minute := local.Hour()*60 + local.Minute()
	if c.weekdays[int(local.Weekday())] && minute < c.startMinute {
		return c.startOfWindow(local, 0)
	}

	for days := 1; days <= 7; days++ {
		candidate := c.startOfWindow(local, days)
		if c.weekdays[int(candidate.Weekday())] {
			return candidate
		}
	}

	// Unreachable: New guarantees a non-empty weekday set.
	return t
}

// startOfWindow builds the window-opening instant the given number of local
// calendar days after the reference time. time.Date normalizes the day
// arithmetic in the reference's location, which keeps wall-clock semantics
// across DST changes.
func (c *Calendar) startOfWindow(local time.Time, daysAhead int) time.Time {
	return time.Date(
		local.Year(), local.Month(), local.Day()+daysAhead,
		c.startMinute/60, c.startMinute%60, 0, 0,
		local.Location(),
	)
}

func parseMinute(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%q is not in HH:MM form", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	return hour*60 + minute, nil
}
