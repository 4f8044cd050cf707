// Package calendar holds the primitive date math the recurrence engine is
// built on. All functions treat dates as UTC-midnight values; callers
// normalize with Date or DateOf first.
package calendar

import "time"

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// Date builds a UTC-midnight date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

func AddWeeks(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n*7)
}

// StartOfMonth returns the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return Date(y, m, 1)
}

// EndOfMonth returns the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return AddDays(StartOfMonth(t).AddDate(0, 1, 0), -1)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Move to the next month, roll back a day.
	return AddDays(Date(year, month, 1).AddDate(0, 1, 0), -1).Day()
}

// ClampDay limits day to the length of the given month, so day 31 applied
// to February resolves to the 28th (or 29th), never an overflow into March.
func ClampDay(year int, month time.Month, day int) int {
	if last := DaysInMonth(year, month); day > last {
		return last
	}
	return day
}

// WeekdayIndex maps time.Weekday (Sunday=0) to the Monday=0 convention the
// recurrence rules use.
func WeekdayIndex(t time.Time) int {
	wd := t.Weekday()
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

// StartOfWeek returns the Monday of t's week.
func StartOfWeek(t time.Time) time.Time {
	return AddDays(DateOf(t), -WeekdayIndex(t))
}

// WeeksBetween counts calendar weeks (Monday start) from a to b. It works on
// week-start dates rather than dividing a raw duration, so daylight-saving
// transitions in the source zone cannot skew the count.
func WeeksBetween(a, b time.Time) int {
	startA := StartOfWeek(a)
	startB := StartOfWeek(b)
	days := int(startB.Sub(startA).Hours() / 24)
	return days / 7
}

// NthWeekdayOfMonth resolves patterns like "3rd Tuesday" or "last Friday".
// nth 1..5 counts forward from the 1st; nth -1 scans backward from month
// end. When the forward nth does not exist (a 5th Monday in a four-Monday
// month), the last occurrence is returned instead. ok is false only when the
// weekday never occurs, which cannot happen for valid weekday indexes.
func NthWeekdayOfMonth(year int, month time.Month, weekday, nth int) (time.Time, bool) {
	first := Date(year, month, 1)
	last := EndOfMonth(first)

	if nth == -1 {
		for d := last; !d.Before(first); d = AddDays(d, -1) {
			if WeekdayIndex(d) == weekday {
				return d, true
			}
		}
		return time.Time{}, false
	}

	count := 0
	for d := first; !d.After(last); d = AddDays(d, 1) {
		if WeekdayIndex(d) == weekday {
			count++
			if count == nth {
				return d, true
			}
		}
	}
	return NthWeekdayOfMonth(year, month, weekday, -1)
}
