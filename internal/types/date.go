package types

import (
	"fmt"
	"time"
)

// periodKeyLayout is the wire format for billing period keys, e.g. "20260115".
// A usage record is addressed by (account_id, period_key); rollover is just a
// key change, never a mutation of an existing row.
const periodKeyLayout = "20060102"

// FormatPeriodKey renders the canonical key for a period starting at start
func FormatPeriodKey(start time.Time) string {
	return start.UTC().Format(periodKeyLayout)
}

// CurrentBillingPeriod computes the half-open period [start, end) containing
// now for a monthly cycle anchored on anchorDay (day of month, 1-31).
// If the anchor day does not exist in a month, the boundary clamps to the
// last day of that month, so an anchor of 31 produces Jan 31, Feb 28 (or 29),
// Mar 31, and so on.
func CurrentBillingPeriod(anchorDay int, now time.Time) (time.Time, time.Time, error) {
	if anchorDay < 1 || anchorDay > 31 {
		return time.Time{}, time.Time{}, fmt.Errorf("billing anchor day must be in [1, 31], got %d", anchorDay)
	}

	now = now.UTC()
	year, month, _ := now.Date()

	start := anchorDateInMonth(year, month, anchorDay, now.Location())
	if start.After(now) {
		prevYear, prevMonth := year, month-1
		if prevMonth < time.January {
			prevMonth = time.December
			prevYear--
		}
		start = anchorDateInMonth(prevYear, prevMonth, anchorDay, now.Location())
	}

	// The end boundary is recomputed from the anchor day rather than derived
	// from the clamped start, so Feb 28 is followed by Mar 31 for anchor 31.
	nextYear, nextMonth := start.Year(), start.Month()+1
	if nextMonth > time.December {
		nextMonth = time.January
		nextYear++
	}
	end := anchorDateInMonth(nextYear, nextMonth, anchorDay, now.Location())

	return start, end, nil
}

// anchorDateInMonth returns midnight on the anchor day within the given
// month, clamped to the month's last day when the anchor day does not exist.
func anchorDateInMonth(year int, month time.Month, day int, loc *time.Location) time.Time {
	lastDay := lastDayOfMonth(year, month, loc)
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func lastDayOfMonth(year int, month time.Month, loc *time.Location) int {
	firstOfNextMonth := time.Date(year, month+1, 1, 0, 0, 0, 0, loc)
	return firstOfNextMonth.Add(-24 * time.Hour).Day()
}

// AddClampedDate adds the given years/months/days to t, clamping the day to
// the last valid day of the target month instead of letting it roll over the
// way time.AddDate does (Jan 31 + 1 month is Feb 28, not Mar 3).
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	newY := y + years
	newM := time.Month(int(m) + months)

	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	lastDay := lastDayOfMonth(newY, newM, t.Location())

	newD := d + days
	if newD > lastDay {
		newD = lastDay
	}

	return time.Date(newY, newM, newD, h, min, sec, t.Nanosecond(), t.Location())
}
