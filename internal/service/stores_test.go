package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskplan/internal/model"
)

// fakeData is the shared in-memory state behind the store fakes. The two
// views over it mirror the repository filters closely enough for the service
// tests, and can inject failures to exercise the transactional paths.
type fakeData struct {
	templates map[string]*model.RecurringTask
	tasks     map[string]*model.Task
	nextID    int

	instanceErr error // injected failure for the first-instance insert
	createErr   error // injected failure for task Create
}

type fakeTaskStore struct{ *fakeData }

type fakeRecurringStore struct{ *fakeData }

func newFakeData() *fakeData {
	return &fakeData{
		templates: map[string]*model.RecurringTask{},
		tasks:     map[string]*model.Task{},
	}
}

func (f *fakeData) taskStore() *fakeTaskStore           { return &fakeTaskStore{f} }
func (f *fakeData) recurringStore() *fakeRecurringStore { return &fakeRecurringStore{f} }

func (f *fakeData) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func cloneTask(t *model.Task) *model.Task {
	c := *t
	return &c
}

func cloneTemplate(t *model.RecurringTask) *model.RecurringTask {
	c := *t
	return &c
}

func (f *fakeTaskStore) Create(ctx context.Context, task *model.Task) error {
	if f.createErr != nil {
		return f.createErr
	}
	if task.ID == "" {
		task.ID = f.id("task")
	}
	f.tasks[task.ID] = cloneTask(task)
	return nil
}

func (f *fakeTaskStore) FindByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneTask(task), nil
}

func (f *fakeTaskStore) ListByWorkspace(ctx context.Context, userID, workspaceID string, includeCompleted bool) ([]model.Task, error) {
	var out []model.Task
	for _, t := range f.tasks {
		if t.UserID != userID || t.WorkspaceID != workspaceID {
			continue
		}
		if !includeCompleted && t.IsCompleted {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTaskStore) ListByTemplate(ctx context.Context, userID, recurringTaskID string) ([]model.Task, error) {
	var out []model.Task
	for _, t := range f.tasks {
		if t.UserID == userID && t.RecurringTaskID != nil && *t.RecurringTaskID == recurringTaskID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) ListScheduledOn(ctx context.Context, userID string, day time.Time) ([]model.Task, error) {
	var out []model.Task
	for _, t := range f.tasks {
		if t.UserID == userID && !t.IsCompleted && t.ScheduledDate != nil && t.ScheduledDate.Equal(day) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) ListOverdue(ctx context.Context, userID string, day time.Time) ([]model.Task, error) {
	var out []model.Task
	for _, t := range f.tasks {
		if t.UserID == userID && !t.IsCompleted && t.DueDate != nil && t.DueDate.Before(day) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) Update(ctx context.Context, userID, taskID string, fields map[string]any) error {
	task, ok := f.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil
	}
	applyTaskFields(task, fields)
	return nil
}

func (f *fakeTaskStore) Save(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = f.id("task")
	}
	f.tasks[task.ID] = cloneTask(task)
	return nil
}

func (f *fakeTaskStore) UpdateUncompletedByTemplate(ctx context.Context, userID, recurringTaskID string, fields map[string]any) error {
	for _, t := range f.tasks {
		if t.UserID != userID || t.RecurringTaskID == nil || *t.RecurringTaskID != recurringTaskID {
			continue
		}
		if t.IsCompleted || t.IsDetached {
			continue
		}
		applyTaskFields(t, fields)
	}
	return nil
}

func (f *fakeTaskStore) DeleteUncompletedByTemplate(ctx context.Context, userID, recurringTaskID string) error {
	for id, t := range f.tasks {
		if t.UserID == userID && t.RecurringTaskID != nil && *t.RecurringTaskID == recurringTaskID && !t.IsCompleted {
			delete(f.tasks, id)
		}
	}
	return nil
}

func (f *fakeTaskStore) Delete(ctx context.Context, userID, taskID string) error {
	if t, ok := f.tasks[taskID]; ok && t.UserID == userID {
		delete(f.tasks, taskID)
	}
	return nil
}

func (f *fakeRecurringStore) CreateWithInstance(ctx context.Context, tpl *model.RecurringTask, first *model.Task) error {
	if tpl.ID == "" {
		tpl.ID = f.id("tpl")
	}
	if f.instanceErr != nil {
		// Transactional: the template insert rolls back with the instance.
		return f.instanceErr
	}
	first.RecurringTaskID = &tpl.ID
	if first.ID == "" {
		first.ID = f.id("task")
	}
	tpl.Occurrences = 1
	f.templates[tpl.ID] = cloneTemplate(tpl)
	f.tasks[first.ID] = cloneTask(first)
	return nil
}

func (f *fakeRecurringStore) FindByID(ctx context.Context, userID, id string) (*model.RecurringTask, error) {
	tpl, ok := f.templates[id]
	if !ok || tpl.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneTemplate(tpl), nil
}

func (f *fakeRecurringStore) ListByUser(ctx context.Context, userID string) ([]model.RecurringTask, error) {
	var out []model.RecurringTask
	for _, tpl := range f.templates {
		if tpl.UserID == userID {
			out = append(out, *tpl)
		}
	}
	return out, nil
}

func (f *fakeRecurringStore) ListDue(ctx context.Context, userID string, day time.Time) ([]model.RecurringTask, error) {
	var out []model.RecurringTask
	for _, tpl := range f.templates {
		if tpl.UserID == userID && tpl.IsActive && !tpl.IsPaused && !tpl.NextDueDate.After(day) {
			out = append(out, *tpl)
		}
	}
	return out, nil
}

func (f *fakeRecurringStore) Update(ctx context.Context, userID, id string, fields map[string]any) error {
	tpl, ok := f.templates[id]
	if !ok || tpl.UserID != userID {
		return nil
	}
	applyTemplateFields(tpl, fields)
	return nil
}

func (f *fakeRecurringStore) Delete(ctx context.Context, userID, id string) error {
	if tpl, ok := f.templates[id]; ok && tpl.UserID == userID {
		delete(f.templates, id)
	}
	return nil
}

func applyTaskFields(t *model.Task, fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "title":
			t.Title = v.(string)
		case "description":
			t.Description = optString(v)
		case "category_id":
			t.CategoryID = optString(v)
		case "scheduled_date":
			d := v.(time.Time)
			t.ScheduledDate = &d
		case "due_date":
			d := v.(time.Time)
			t.DueDate = &d
		case "priority":
			t.Priority = v.(int)
		case "position":
			t.Position = v.(int)
		case "is_detached":
			t.IsDetached = v.(bool)
		}
	}
}

func applyTemplateFields(t *model.RecurringTask, fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "title":
			t.Title = v.(string)
		case "description":
			t.Description = optString(v)
		case "category_id":
			t.CategoryID = optString(v)
		case "priority":
			t.Priority = v.(int)
		case "recurrence_type":
			t.RecurrenceType = v.(string)
		case "interval_days":
			t.IntervalDays, _ = v.(*int)
		case "interval_weeks":
			t.IntervalWeeks, _ = v.(*int)
		case "interval_months":
			t.IntervalMonths, _ = v.(*int)
		case "days_of_week":
			t.DaysOfWeek, _ = v.(*string)
		case "day_of_month":
			t.DayOfMonth, _ = v.(*int)
		case "week_of_month":
			t.WeekOfMonth, _ = v.(*int)
		case "month_of_year":
			t.MonthOfYear, _ = v.(*int)
		case "start_date":
			t.StartDate = v.(time.Time)
		case "end_date":
			if v == nil {
				t.EndDate = nil
			} else {
				d := v.(time.Time)
				t.EndDate = &d
			}
		case "next_due_date":
			t.NextDueDate = v.(time.Time)
		case "is_active":
			t.IsActive = v.(bool)
		case "is_paused":
			t.IsPaused = v.(bool)
		case "occurrences_generated":
			t.Occurrences = v.(int)
		}
	}
}

func optString(v any) *string {
	if v == nil {
		return nil
	}
	s := v.(string)
	return &s
}
