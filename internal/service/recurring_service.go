package service

import (
	"context"
	"time"

	"taskplan/internal/auth"
	"taskplan/internal/calendar"
	"taskplan/internal/model"
	"taskplan/internal/recurrence"
)

// RecurringTaskInput carries everything needed to create a template.
type RecurringTaskInput struct {
	WorkspaceID string
	CategoryID  *string
	Title       string
	Description *string
	Priority    int
	Rule        recurrence.Rule
	StartDate   time.Time
	EndDate     *time.Time
	IsActive    *bool
}

// RecurringTaskPatch is a partial update. Nil fields are left untouched; an
// empty Description or CategoryID clears the column, and ClearEndDate turns
// the series open-ended again.
type RecurringTaskPatch struct {
	Title        *string
	Description  *string
	CategoryID   *string
	Priority     *int
	Rule         recurrence.Rule
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	NextDueDate  *time.Time
	IsActive     *bool
	IsPaused     *bool
}

// RecurringService keeps templates and their generated instances consistent.
type RecurringService struct {
	recurring RecurringStore
	tasks     TaskStore
}

func NewRecurringService(recurring RecurringStore, tasks TaskStore) *RecurringService {
	return &RecurringService{recurring: recurring, tasks: tasks}
}

// Create inserts the template and its first instance at start_date. The two
// writes happen in one transaction: a failed instance insert takes the
// template down with it and its own error is returned.
func (s *RecurringService) Create(ctx context.Context, input RecurringTaskInput) (*model.RecurringTask, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if input.Title == "" {
		return nil, invalid("title", "title is required")
	}
	if input.WorkspaceID == "" {
		return nil, invalid("workspace_id", "workspace is required")
	}
	if input.Priority < 0 || input.Priority > 3 {
		return nil, invalid("priority", "priority must be 0..3")
	}
	if input.Rule == nil {
		return nil, invalid("recurrence_type", "recurrence rule is required")
	}
	if err := input.Rule.Validate(); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	start := calendar.DateOf(input.StartDate)
	var end *time.Time
	if input.EndDate != nil {
		e := calendar.DateOf(*input.EndDate)
		if !e.After(start) {
			return nil, invalid("end_date", "end_date must be after start_date")
		}
		end = &e
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	tpl := model.RecurringTask{
		UserID:      userID,
		WorkspaceID: input.WorkspaceID,
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		StartDate:   start,
		EndDate:     end,
		NextDueDate: start,
		IsActive:    active,
		IsPaused:    false,
	}
	recurrence.ApplyToRow(input.Rule, &tpl)

	first := model.Task{
		UserID:        userID,
		WorkspaceID:   input.WorkspaceID,
		CategoryID:    input.CategoryID,
		Title:         input.Title,
		Description:   input.Description,
		Priority:      input.Priority,
		ScheduledDate: &start,
		Position:      0,
	}

	if err := s.recurring.CreateWithInstance(ctx, &tpl, &first); err != nil {
		return nil, storeErr(err)
	}
	return &tpl, nil
}

// Update patches the template, then propagates title, description, category,
// and priority to instances that are still open and not detached. Completed
// instances are historical snapshots and are never touched.
func (s *RecurringService) Update(ctx context.Context, id string, patch RecurringTaskPatch) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	fields := map[string]any{}
	propagate := map[string]any{}

	if patch.Title != nil {
		if *patch.Title == "" {
			return invalid("title", "title is required")
		}
		fields["title"] = *patch.Title
		propagate["title"] = *patch.Title
	}
	if patch.Description != nil {
		v := nullableString(*patch.Description)
		fields["description"] = v
		propagate["description"] = v
	}
	if patch.CategoryID != nil {
		v := nullableString(*patch.CategoryID)
		fields["category_id"] = v
		propagate["category_id"] = v
	}
	if patch.Priority != nil {
		if *patch.Priority < 0 || *patch.Priority > 3 {
			return invalid("priority", "priority must be 0..3")
		}
		fields["priority"] = *patch.Priority
		propagate["priority"] = *patch.Priority
	}
	if patch.Rule != nil {
		if err := patch.Rule.Validate(); err != nil {
			return &ValidationError{Reason: err.Error()}
		}
		var scratch model.RecurringTask
		recurrence.ApplyToRow(patch.Rule, &scratch)
		fields["recurrence_type"] = scratch.RecurrenceType
		fields["interval_days"] = scratch.IntervalDays
		fields["interval_weeks"] = scratch.IntervalWeeks
		fields["interval_months"] = scratch.IntervalMonths
		fields["days_of_week"] = scratch.DaysOfWeek
		fields["day_of_month"] = scratch.DayOfMonth
		fields["week_of_month"] = scratch.WeekOfMonth
		fields["month_of_year"] = scratch.MonthOfYear
	}
	if patch.StartDate != nil || patch.EndDate != nil || patch.ClearEndDate {
		// The bounds invariant holds against the stored row, not just the
		// patch: a lone end_date (or a start moved past the stored end) must
		// not persist an inverted range.
		current, err := s.recurring.FindByID(ctx, userID, id)
		if err != nil {
			return storeErr(err)
		}
		start := calendar.DateOf(current.StartDate)
		if patch.StartDate != nil {
			start = calendar.DateOf(*patch.StartDate)
			fields["start_date"] = start
		}
		var end *time.Time
		if current.EndDate != nil {
			e := calendar.DateOf(*current.EndDate)
			end = &e
		}
		switch {
		case patch.ClearEndDate:
			end = nil
			fields["end_date"] = nil
		case patch.EndDate != nil:
			e := calendar.DateOf(*patch.EndDate)
			end = &e
			fields["end_date"] = e
		}
		if end != nil && !end.After(start) {
			return invalid("end_date", "end_date must be after start_date")
		}
	}
	if patch.NextDueDate != nil {
		fields["next_due_date"] = calendar.DateOf(*patch.NextDueDate)
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}
	if patch.IsPaused != nil {
		fields["is_paused"] = *patch.IsPaused
	}

	if len(fields) == 0 {
		return nil
	}
	if err := s.recurring.Update(ctx, userID, id, fields); err != nil {
		return storeErr(err)
	}
	if len(propagate) > 0 {
		if err := s.tasks.UpdateUncompletedByTemplate(ctx, userID, id, propagate); err != nil {
			return storeErr(err)
		}
	}
	return nil
}

// Delete removes the template's open instances, then the template itself.
// Completed instances are preserved as history.
func (s *RecurringService) Delete(ctx context.Context, id string) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if err := s.tasks.DeleteUncompletedByTemplate(ctx, userID, id); err != nil {
		return storeErr(err)
	}
	if err := s.recurring.Delete(ctx, userID, id); err != nil {
		return storeErr(err)
	}
	return nil
}

// Pause stops occurrence generation without losing the template.
func (s *RecurringService) Pause(ctx context.Context, id string) error {
	paused := true
	return s.Update(ctx, id, RecurringTaskPatch{IsPaused: &paused})
}

// Resume re-enables a paused template.
func (s *RecurringService) Resume(ctx context.Context, id string) error {
	paused := false
	return s.Update(ctx, id, RecurringTaskPatch{IsPaused: &paused})
}

// Deactivate retires the template. Existing open instances stay until
// deleted by hand.
func (s *RecurringService) Deactivate(ctx context.Context, id string) error {
	active := false
	return s.Update(ctx, id, RecurringTaskPatch{IsActive: &active})
}

func (s *RecurringService) Get(ctx context.Context, id string) (*model.RecurringTask, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	tpl, err := s.recurring.FindByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return tpl, nil
}

func (s *RecurringService) List(ctx context.Context) ([]model.RecurringTask, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	templates, err := s.recurring.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return templates, nil
}

// nullableString maps "" to NULL so a cleared field really clears.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
