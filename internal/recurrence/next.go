package recurrence

import (
	"sort"
	"time"

	"taskplan/internal/calendar"
)

// weeklyScanCap bounds the forward scan for weekly rules. A valid weekly
// rule always matches within interval_weeks*7+6 days; the cap keeps a
// malformed one from looping forever.
const weeklyScanCap = 60

// Next computes the next occurrence date strictly after from. The reference
// date is the previous completion date for IntervalFromCompletion and the
// previous scheduled date for every fixed pattern. Next is total: any
// structurally valid rule resolves to a date, never an error.
func Next(r Rule, from time.Time) time.Time {
	base := calendar.DateOf(from)

	switch v := r.(type) {
	case IntervalFromCompletion:
		return calendar.AddDays(base, positive(v.IntervalDays))

	case FixedDaily:
		return calendar.AddDays(base, positive(v.IntervalDays))

	case FixedWeekly:
		return nextWeekday(base, v.DaysOfWeek, positive(v.IntervalWeeks))

	case MonthlyOnDay:
		target := calendar.StartOfMonth(base).AddDate(0, positive(v.IntervalMonths), 0)
		if v.DayOfMonth == 31 {
			return calendar.EndOfMonth(target)
		}
		y, m, _ := target.Date()
		return calendar.Date(y, m, calendar.ClampDay(y, m, v.DayOfMonth))

	case MonthlyOnWeekday:
		target := calendar.StartOfMonth(base).AddDate(0, positive(v.IntervalMonths), 0)
		if d, ok := calendar.NthWeekdayOfMonth(target.Year(), target.Month(), v.Weekday, v.WeekOfMonth); ok {
			return d
		}
		return target

	case FixedYearly:
		y := base.Year() + 1
		return calendar.Date(y, v.MonthOfYear, calendar.ClampDay(y, v.MonthOfYear, v.DayOfMonth))

	default:
		return base
	}
}

// nextWeekday scans forward from the day after base for a date whose weekday
// is in days and whose Monday-start week sits a multiple of interval weeks
// from base's week. Week offsets use calendar-week counting, so a
// daylight-saving transition cannot shift the congruence.
func nextWeekday(base time.Time, days []int, interval int) time.Time {
	sorted := append([]int(nil), days...)
	sort.Ints(sorted)

	d := calendar.AddDays(base, 1)
	for i := 0; i < weeklyScanCap; i++ {
		if containsInt(sorted, calendar.WeekdayIndex(d)) {
			if interval == 1 || calendar.WeeksBetween(base, d)%interval == 0 {
				return d
			}
		}
		d = calendar.AddDays(d, 1)
	}

	// Degenerate rule (e.g. no weekdays): keep the cadence without looping.
	return calendar.AddWeeks(base, interval)
}

func containsInt(sorted []int, n int) bool {
	i := sort.SearchInts(sorted, n)
	return i < len(sorted) && sorted[i] == n
}

func positive(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
