package recurrence

import (
	"fmt"
	"strings"
	"time"
)

var shortDayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var fullDayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// FormatPattern renders a rule as a one-line description, e.g.
// "Every 2 weeks on Mon & Fri", "3rd of each month",
// "Last Friday of every 2 months", "February 14th every year".
// Incomplete rules degrade to a generic label; FormatPattern never panics.
func FormatPattern(r Rule) string {
	switch v := r.(type) {
	case IntervalFromCompletion:
		if v.IntervalDays == 1 {
			return "1 day after completion"
		}
		return fmt.Sprintf("%d days after completion", v.IntervalDays)

	case FixedDaily:
		if v.IntervalDays == 1 {
			return "Every day"
		}
		return fmt.Sprintf("Every %d days", v.IntervalDays)

	case FixedWeekly:
		interval := positive(v.IntervalWeeks)
		days := weekdayList(v.DaysOfWeek)
		if days == "" {
			if interval == 1 {
				return "Every week"
			}
			return fmt.Sprintf("Every %d weeks", interval)
		}
		if interval == 1 {
			return "Every " + days
		}
		return fmt.Sprintf("Every %d weeks on %s", interval, days)

	case MonthlyOnDay:
		monthText := monthIntervalText(v.IntervalMonths)
		if v.DayOfMonth == 31 {
			return "Last day of " + monthText
		}
		return fmt.Sprintf("%d%s of %s", v.DayOfMonth, ordinalSuffix(v.DayOfMonth), monthText)

	case MonthlyOnWeekday:
		week := ordinalWord(v.WeekOfMonth)
		day := weekdayName(v.Weekday)
		if week == "" || day == "" {
			return "Monthly"
		}
		return fmt.Sprintf("%s%s %s of %s",
			strings.ToUpper(week[:1]), week[1:], day, monthIntervalText(v.IntervalMonths))

	case FixedYearly:
		if v.MonthOfYear < time.January || v.MonthOfYear > time.December || v.DayOfMonth < 1 {
			return "Yearly"
		}
		return fmt.Sprintf("%s %d%s every year",
			v.MonthOfYear.String(), v.DayOfMonth, ordinalSuffix(v.DayOfMonth))

	default:
		return "Custom"
	}
}

// FormatDateRange renders a template's active range:
// "Started Jan 15, 2024" or "Jan 15, 2024 - Mar 30, 2024".
func FormatDateRange(start time.Time, end *time.Time) string {
	const layout = "Jan 2, 2006"
	if end == nil {
		return "Started " + start.Format(layout)
	}
	return start.Format(layout) + " - " + end.Format(layout)
}

func weekdayList(days []int) string {
	var names []string
	for _, d := range days {
		if d >= 0 && d < len(shortDayNames) {
			names = append(names, shortDayNames[d])
		}
	}
	return strings.Join(names, " & ")
}

func weekdayName(day int) string {
	if day < 0 || day >= len(fullDayNames) {
		return ""
	}
	return fullDayNames[day]
}

func monthIntervalText(interval int) string {
	if positive(interval) == 1 {
		return "each month"
	}
	return fmt.Sprintf("every %d months", interval)
}

func ordinalWord(week int) string {
	switch week {
	case -1:
		return "last"
	case 1:
		return "first"
	case 2:
		return "second"
	case 3:
		return "third"
	case 4:
		return "fourth"
	case 5:
		return "fifth"
	default:
		return ""
	}
}

func ordinalSuffix(day int) string {
	if day > 3 && day < 21 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
