package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"taskplan/internal/calendar"
	"taskplan/internal/model"
	"taskplan/internal/recurrence"
)

// DigestService builds the daily notification text. It runs on behalf of the
// system, so it takes the user id explicitly instead of reading the request
// context.
type DigestService struct {
	tasks     TaskStore
	recurring RecurringStore
}

func NewDigestService(tasks TaskStore, recurring RecurringStore) *DigestService {
	return &DigestService{tasks: tasks, recurring: recurring}
}

// DailySummary renders the overdue / today / recurring sections for one user.
// The text uses Telegram-flavored HTML.
func (s *DigestService) DailySummary(ctx context.Context, userID string, now time.Time) (string, error) {
	today := calendar.DateOf(now)

	overdue, err := s.tasks.ListOverdue(ctx, userID, today)
	if err != nil {
		return "", err
	}
	scheduled, err := s.tasks.ListScheduledOn(ctx, userID, today)
	if err != nil {
		return "", err
	}
	due, err := s.recurring.ListDue(ctx, userID, today)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString("<b>Daily plan</b>\n")
	builder.WriteString(today.Format("Mon, Jan 2, 2006"))
	builder.WriteString("\n\n")

	builder.WriteString("<b>Overdue</b>\n")
	if len(overdue) == 0 {
		builder.WriteString("— nothing overdue\n")
	} else {
		for _, task := range overdue {
			builder.WriteString(formatDigestTask(task, today))
		}
	}

	builder.WriteString("\n<b>Today</b>\n")
	if len(scheduled) == 0 {
		builder.WriteString("— nothing scheduled\n")
	} else {
		for _, task := range scheduled {
			builder.WriteString(formatDigestTask(task, today))
		}
	}

	builder.WriteString("\n<b>Recurring due</b>\n")
	if len(due) == 0 {
		builder.WriteString("— no recurring tasks due\n")
	} else {
		for _, tpl := range due {
			builder.WriteString(formatDigestTemplate(tpl))
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatDigestTask(task model.Task, today time.Time) string {
	var sb strings.Builder
	sb.WriteString("• ")
	sb.WriteString(html.EscapeString(strings.TrimSpace(task.Title)))
	if task.DueDate != nil {
		d := calendar.DateOf(*task.DueDate)
		if d.Before(today) {
			sb.WriteString(fmt.Sprintf(" — due %s, <b>overdue</b>", d.Format(calendar.DateFormat)))
		} else {
			sb.WriteString(fmt.Sprintf(" — due %s", d.Format(calendar.DateFormat)))
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}

func formatDigestTemplate(tpl model.RecurringTask) string {
	var sb strings.Builder
	sb.WriteString("• ")
	sb.WriteString(html.EscapeString(strings.TrimSpace(tpl.Title)))

	if rule, err := recurrence.FromRow(&tpl); err == nil {
		sb.WriteString(" <i>(")
		sb.WriteString(html.EscapeString(recurrence.FormatPattern(rule)))
		sb.WriteString(")</i>")
	}
	sb.WriteString(fmt.Sprintf(" — next %s", tpl.NextDueDate.Format(calendar.DateFormat)))
	sb.WriteByte('\n')
	return sb.String()
}
