package service

import (
	"errors"
	"testing"
	"time"

	"taskplan/internal/calendar"
	"taskplan/internal/model"
	"taskplan/internal/recurrence"
)

func seedTemplate(data *fakeData, rule recurrence.Rule, start time.Time, end *time.Time) *model.RecurringTask {
	tpl := &model.RecurringTask{
		ID:          "tpl-1",
		UserID:      testUser,
		WorkspaceID: "ws-1",
		Title:       "Stretch",
		Priority:    2,
		StartDate:   start,
		NextDueDate: start,
		EndDate:     end,
		IsActive:    true,
		Occurrences: 1,
	}
	recurrence.ApplyToRow(rule, tpl)
	data.templates[tpl.ID] = tpl
	return tpl
}

func seedInstance(data *fakeData, tplID string, scheduled time.Time) *model.Task {
	task := &model.Task{
		ID:              "task-1",
		UserID:          testUser,
		WorkspaceID:     "ws-1",
		RecurringTaskID: &tplID,
		Title:           "Stretch",
		Priority:        2,
		ScheduledDate:   &scheduled,
	}
	data.tasks[task.ID] = task
	return task
}

func openInstances(data *fakeData) []*model.Task {
	var out []*model.Task
	for _, t := range data.tasks {
		if !t.IsCompleted {
			out = append(out, t)
		}
	}
	return out
}

func TestComplete_FixedRuleGeneratesFromScheduledDate(t *testing.T) {
	data := newFakeData()
	svc := NewTaskService(data.taskStore(), data.recurringStore(), nil)
	scheduled := calendar.Date(2025, time.January, 1)
	tpl := seedTemplate(data, recurrence.FixedDaily{IntervalDays: 2}, scheduled, nil)
	task := seedInstance(data, tpl.ID, scheduled)

	// Completed late: the fixed cadence counts from the scheduled date, not
	// from when the user got around to it.
	completedAt := calendar.Date(2025, time.January, 5)
	done, err := svc.Complete(authedCtx(), task.ID, completedAt)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !done.IsCompleted || done.CompletedAt == nil {
		t.Error("completion not recorded")
	}

	open := openInstances(data)
	if len(open) != 1 {
		t.Fatalf("open instance count = %d, want 1 generated occurrence", len(open))
	}
	wantNext := calendar.Date(2025, time.January, 3)
	if open[0].ScheduledDate == nil || !open[0].ScheduledDate.Equal(wantNext) {
		t.Errorf("next occurrence scheduled %v, want %s", open[0].ScheduledDate, wantNext.Format(calendar.DateFormat))
	}

	got := data.templates[tpl.ID]
	if !got.NextDueDate.Equal(wantNext) {
		t.Errorf("template next_due_date = %s, want %s", got.NextDueDate.Format(calendar.DateFormat), wantNext.Format(calendar.DateFormat))
	}
	if got.Occurrences != 2 {
		t.Errorf("occurrences_generated = %d, want 2", got.Occurrences)
	}
}

func TestComplete_IntervalRuleGeneratesFromCompletionDate(t *testing.T) {
	data := newFakeData()
	svc := NewTaskService(data.taskStore(), data.recurringStore(), nil)
	scheduled := calendar.Date(2025, time.January, 1)
	tpl := seedTemplate(data, recurrence.IntervalFromCompletion{IntervalDays: 3}, scheduled, nil)
	task := seedInstance(data, tpl.ID, scheduled)

	completedAt := calendar.Date(2025, time.January, 5)
	if _, err := svc.Complete(authedCtx(), task.ID, completedAt); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	open := openInstances(data)
	if len(open) != 1 {
		t.Fatalf("open instance count = %d, want 1", len(open))
	}
	wantNext := calendar.Date(2025, time.January, 8)
	if open[0].ScheduledDate == nil || !open[0].ScheduledDate.Equal(wantNext) {
		t.Errorf("next occurrence scheduled %v, want %s", open[0].ScheduledDate, wantNext.Format(calendar.DateFormat))
	}
}

func TestComplete_Idempotent(t *testing.T) {
	data := newFakeData()
	svc := NewTaskService(data.taskStore(), data.recurringStore(), nil)
	scheduled := calendar.Date(2025, time.January, 1)
	tpl := seedTemplate(data, recurrence.FixedDaily{IntervalDays: 1}, scheduled, nil)
	task := seedInstance(data, tpl.ID, scheduled)
	ctx := authedCtx()

	completedAt := calendar.Date(2025, time.January, 1)
	if _, err := svc.Complete(ctx, task.ID, completedAt); err != nil {
		t.Fatalf("first Complete: %v", err)
	}
	if _, err := svc.Complete(ctx, task.ID, completedAt.Add(time.Hour)); err != nil {
		t.Fatalf("second Complete: %v", err)
	}
	if len(data.tasks) != 2 {
		t.Errorf("task count = %d, want 2; repeat completion must not generate again", len(data.tasks))
	}
	if data.templates[tpl.ID].Occurrences != 2 {
		t.Errorf("occurrences_generated = %d, want 2", data.templates[tpl.ID].Occurrences)
	}
}

func TestComplete_PausedTemplateGeneratesNothing(t *testing.T) {
	data := newFakeData()
	svc := NewTaskService(data.taskStore(), data.recurringStore(), nil)
	scheduled := calendar.Date(2025, time.January, 1)
	tpl := seedTemplate(data, recurrence.FixedDaily{IntervalDays: 1}, scheduled, nil)
	tpl.IsPaused = true
	task := seedInstance(data, tpl.ID, scheduled)

	done, err := svc.Complete(authedCtx(), task.ID, scheduled)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !done.IsCompleted {
		t.Error("completion itself must still go through")
	}
	if len(openInstances(data)) != 0 {
		t.Error("paused template generated an occurrence")
	}
}

func TestComplete_PastEndDateRetiresTemplate(t *testing.T) {
	data := newFakeData()
	svc := NewTaskService(data.taskStore(), data.recurringStore(), nil)
	scheduled := calendar.Date(2025, time.January, 1)
	end := calendar.Date(2025, time.January, 2)
	tpl := seedTemplate(data, recurrence.FixedDaily{IntervalDays: 2}, scheduled, &end)
	task := seedInstance(data, tpl.ID, scheduled)

	if _, err := svc.Complete(authedCtx(), task.ID, scheduled); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(openInstances(data)) != 0 {
		t.Error("occurrence generated past the series end date")
	}
	if data.templates[tpl.ID].IsActive {
		t.Error("template still active past its end date")
	}
}

func TestComplete_MissingTemplateKeepsHistory(t *testing.T) {
	data := newFakeData()
	svc := NewTaskService(data.taskStore(), data.recurringStore(), nil)
	scheduled := calendar.Date(2025, time.January, 1)
	task := seedInstance(data, "gone", scheduled)

	done, err := svc.Complete(authedCtx(), task.ID, scheduled)
	if err != nil {
		t.Fatalf("Complete with deleted template: %v", err)
	}
	if !done.IsCompleted {
		t.Error("completion not recorded")
	}
	if len(data.tasks) != 1 {
		t.Error("orphan instance must complete without generating")
	}
}

func TestReopen_ClearsCompletion(t *testing.T) {
	data := newFakeData()
	svc := NewTaskService(data.taskStore(), data.recurringStore(), nil)
	done := calendar.Date(2025, time.February, 1)
	data.tasks["t1"] = &model.Task{
		ID: "t1", UserID: testUser, WorkspaceID: "ws-1",
		Title: "Pay rent", IsCompleted: true, CompletedAt: &done,
	}

	task, err := svc.Reopen(authedCtx(), "t1")
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	if task.IsCompleted || task.CompletedAt != nil {
		t.Error("reopen left completion state behind")
	}
}

func TestTaskCreate_DueBeforeScheduledRejected(t *testing.T) {
	data := newFakeData()
	svc := NewTaskService(data.taskStore(), data.recurringStore(), nil)
	scheduled := calendar.Date(2025, time.May, 10)
	due := calendar.Date(2025, time.May, 9)

	_, err := svc.Create(authedCtx(), TaskInput{
		WorkspaceID:   "ws-1",
		Title:         "Book flights",
		ScheduledDate: &scheduled,
		DueDate:       &due,
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if len(data.tasks) != 0 {
		t.Error("task stored despite invalid dates")
	}
}

func TestTaskUpdate_DetachedFlag(t *testing.T) {
	data := newFakeData()
	svc := NewTaskService(data.taskStore(), data.recurringStore(), nil)
	tplID := "tpl-1"
	scheduled := calendar.Date(2025, time.January, 1)
	data.tasks["t1"] = &model.Task{
		ID: "t1", UserID: testUser, WorkspaceID: "ws-1",
		RecurringTaskID: &tplID, Title: "Stretch", ScheduledDate: &scheduled,
	}

	detached := true
	if err := svc.Update(authedCtx(), "t1", TaskPatch{IsDetached: &detached}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !data.tasks["t1"].IsDetached {
		t.Error("is_detached not persisted")
	}
}
