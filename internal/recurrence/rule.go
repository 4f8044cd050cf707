// Package recurrence implements the recurrence engine: typed recurrence
// rules, the next-occurrence calculator, and the human-readable formatter.
package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskplan/internal/model"
)

// Rule is the typed view of a recurrence definition. Exactly one concrete
// type exists per pattern, so a weekly rule without weekdays or a monthly
// rule mixing day-of-month with Nth-weekday cannot be represented.
type Rule interface {
	// Kind is the discriminator stored on the template row.
	Kind() string
	// Validate reports the first field constraint the rule violates.
	Validate() error

	isRule()
}

// IntervalFromCompletion repeats N days after the previous completion.
type IntervalFromCompletion struct {
	IntervalDays int
}

// FixedDaily repeats N days after the previous scheduled date, regardless of
// when it was completed.
type FixedDaily struct {
	IntervalDays int
}

// FixedWeekly repeats on the given weekdays (0=Monday .. 6=Sunday), every
// IntervalWeeks weeks counted from the reference date's Monday-start week.
type FixedWeekly struct {
	IntervalWeeks int
	DaysOfWeek    []int
}

// MonthlyOnDay repeats on a fixed day of the month every IntervalMonths
// months. Day 31 means "last day of the month"; shorter months clamp.
type MonthlyOnDay struct {
	IntervalMonths int
	DayOfMonth     int
}

// MonthlyOnWeekday repeats on the Nth weekday of the month ("3rd Tuesday",
// "last Friday") every IntervalMonths months. WeekOfMonth is 1..5 or -1 for
// last.
type MonthlyOnWeekday struct {
	IntervalMonths int
	WeekOfMonth    int
	Weekday        int
}

// FixedYearly repeats once a year on the given month and day.
type FixedYearly struct {
	MonthOfYear time.Month
	DayOfMonth  int
}

func (IntervalFromCompletion) isRule() {}
func (FixedDaily) isRule()             {}
func (FixedWeekly) isRule()            {}
func (MonthlyOnDay) isRule()           {}
func (MonthlyOnWeekday) isRule()       {}
func (FixedYearly) isRule()            {}

func (IntervalFromCompletion) Kind() string { return model.RecurrenceIntervalFromCompletion }
func (FixedDaily) Kind() string             { return model.RecurrenceFixedDaily }
func (FixedWeekly) Kind() string            { return model.RecurrenceFixedWeekly }
func (MonthlyOnDay) Kind() string           { return model.RecurrenceFixedMonthly }
func (MonthlyOnWeekday) Kind() string       { return model.RecurrenceFixedMonthly }
func (FixedYearly) Kind() string            { return model.RecurrenceFixedYearly }

func (r IntervalFromCompletion) Validate() error {
	if r.IntervalDays < 1 {
		return fmt.Errorf("interval_days must be at least 1")
	}
	return nil
}

func (r FixedDaily) Validate() error {
	if r.IntervalDays < 1 {
		return fmt.Errorf("interval_days must be at least 1")
	}
	return nil
}

func (r FixedWeekly) Validate() error {
	if r.IntervalWeeks < 1 {
		return fmt.Errorf("interval_weeks must be at least 1")
	}
	if len(r.DaysOfWeek) == 0 {
		return fmt.Errorf("days_of_week is required for weekly recurrence")
	}
	for _, d := range r.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("day_of_week %d out of range 0..6", d)
		}
	}
	return nil
}

func (r MonthlyOnDay) Validate() error {
	if r.IntervalMonths < 1 {
		return fmt.Errorf("interval_months must be at least 1")
	}
	if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
		return fmt.Errorf("day_of_month %d out of range 1..31", r.DayOfMonth)
	}
	return nil
}

func (r MonthlyOnWeekday) Validate() error {
	if r.IntervalMonths < 1 {
		return fmt.Errorf("interval_months must be at least 1")
	}
	if r.WeekOfMonth != -1 && (r.WeekOfMonth < 1 || r.WeekOfMonth > 5) {
		return fmt.Errorf("week_of_month %d must be -1 or 1..5", r.WeekOfMonth)
	}
	if r.Weekday < 0 || r.Weekday > 6 {
		return fmt.Errorf("day_of_week %d out of range 0..6", r.Weekday)
	}
	return nil
}

func (r FixedYearly) Validate() error {
	if r.MonthOfYear < time.January || r.MonthOfYear > time.December {
		return fmt.Errorf("month_of_year %d out of range 1..12", r.MonthOfYear)
	}
	if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
		return fmt.Errorf("day_of_month %d out of range 1..31", r.DayOfMonth)
	}
	return nil
}

// FromRow reconstructs the typed rule from a template row.
func FromRow(row *model.RecurringTask) (Rule, error) {
	switch row.RecurrenceType {
	case model.RecurrenceIntervalFromCompletion:
		return IntervalFromCompletion{IntervalDays: intOr(row.IntervalDays, 1)}, nil
	case model.RecurrenceFixedDaily:
		return FixedDaily{IntervalDays: intOr(row.IntervalDays, 1)}, nil
	case model.RecurrenceFixedWeekly:
		return FixedWeekly{
			IntervalWeeks: intOr(row.IntervalWeeks, 1),
			DaysOfWeek:    DecodeWeekdays(row.DaysOfWeek),
		}, nil
	case model.RecurrenceFixedMonthly:
		if row.WeekOfMonth != nil {
			days := DecodeWeekdays(row.DaysOfWeek)
			if len(days) == 0 {
				return nil, fmt.Errorf("days_of_week is required when using week_of_month")
			}
			return MonthlyOnWeekday{
				IntervalMonths: intOr(row.IntervalMonths, 1),
				WeekOfMonth:    *row.WeekOfMonth,
				Weekday:        days[0],
			}, nil
		}
		if row.DayOfMonth == nil {
			return nil, fmt.Errorf("either day_of_month or week_of_month is required for monthly recurrence")
		}
		return MonthlyOnDay{
			IntervalMonths: intOr(row.IntervalMonths, 1),
			DayOfMonth:     *row.DayOfMonth,
		}, nil
	case model.RecurrenceFixedYearly:
		if row.MonthOfYear == nil || row.DayOfMonth == nil {
			return nil, fmt.Errorf("month_of_year and day_of_month are required for yearly recurrence")
		}
		return FixedYearly{
			MonthOfYear: time.Month(*row.MonthOfYear),
			DayOfMonth:  *row.DayOfMonth,
		}, nil
	default:
		return nil, fmt.Errorf("unknown recurrence type %q", row.RecurrenceType)
	}
}

// ApplyToRow writes the rule back onto the flat template row, clearing
// columns the rule does not use.
func ApplyToRow(r Rule, row *model.RecurringTask) {
	row.RecurrenceType = r.Kind()
	row.IntervalDays = nil
	row.IntervalWeeks = nil
	row.IntervalMonths = nil
	row.DaysOfWeek = nil
	row.DayOfMonth = nil
	row.WeekOfMonth = nil
	row.MonthOfYear = nil

	switch v := r.(type) {
	case IntervalFromCompletion:
		row.IntervalDays = &v.IntervalDays
	case FixedDaily:
		row.IntervalDays = &v.IntervalDays
	case FixedWeekly:
		row.IntervalWeeks = &v.IntervalWeeks
		encoded := EncodeWeekdays(v.DaysOfWeek)
		row.DaysOfWeek = &encoded
	case MonthlyOnDay:
		row.IntervalMonths = &v.IntervalMonths
		row.DayOfMonth = &v.DayOfMonth
	case MonthlyOnWeekday:
		row.IntervalMonths = &v.IntervalMonths
		row.WeekOfMonth = &v.WeekOfMonth
		encoded := EncodeWeekdays([]int{v.Weekday})
		row.DaysOfWeek = &encoded
	case FixedYearly:
		m := int(v.MonthOfYear)
		row.MonthOfYear = &m
		row.DayOfMonth = &v.DayOfMonth
	}
}

// EncodeWeekdays renders weekday indexes as the comma-separated column value.
func EncodeWeekdays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}

// DecodeWeekdays parses the comma-separated column value, dropping anything
// that is not a valid weekday index.
func DecodeWeekdays(s *string) []int {
	if s == nil || *s == "" {
		return nil
	}
	var days []int
	for _, part := range strings.Split(*s, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || d < 0 || d > 6 {
			continue
		}
		days = append(days, d)
	}
	return days
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
