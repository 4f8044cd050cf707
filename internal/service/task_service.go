package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"taskplan/internal/auth"
	"taskplan/internal/calendar"
	"taskplan/internal/model"
	"taskplan/internal/recurrence"
)

// TaskInput carries everything needed to create a standalone task.
type TaskInput struct {
	WorkspaceID   string
	CategoryID    *string
	ParentTaskID  *string
	Title         string
	Description   *string
	ScheduledDate *time.Time
	DueDate       *time.Time
	Priority      int
	Position      int
}

// TaskPatch is a partial update for a task. Nil fields stay untouched; empty
// Description or CategoryID clears the column.
type TaskPatch struct {
	Title         *string
	Description   *string
	CategoryID    *string
	ScheduledDate *time.Time
	DueDate       *time.Time
	Priority      *int
	Position      *int
	IsDetached    *bool
}

// TaskService wraps task-level business logic, including the
// completion-driven generation of the next recurring occurrence.
type TaskService struct {
	tasks     TaskStore
	recurring RecurringStore
	log       *slog.Logger
}

func NewTaskService(tasks TaskStore, recurring RecurringStore, log *slog.Logger) *TaskService {
	if log == nil {
		log = slog.Default()
	}
	return &TaskService{tasks: tasks, recurring: recurring, log: log}
}

func (s *TaskService) Create(ctx context.Context, input TaskInput) (*model.Task, error) {
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
	var scheduled, due *time.Time
	if input.ScheduledDate != nil {
		d := calendar.DateOf(*input.ScheduledDate)
		scheduled = &d
	}
	if input.DueDate != nil {
		d := calendar.DateOf(*input.DueDate)
		due = &d
	}
	if scheduled != nil && due != nil && due.Before(*scheduled) {
		return nil, invalid("due_date", "due_date must be on or after scheduled_date")
	}

	task := model.Task{
		UserID:        userID,
		WorkspaceID:   input.WorkspaceID,
		CategoryID:    input.CategoryID,
		ParentTaskID:  input.ParentTaskID,
		Title:         input.Title,
		Description:   input.Description,
		ScheduledDate: scheduled,
		DueDate:       due,
		Priority:      input.Priority,
		Position:      input.Position,
	}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, storeErr(err)
	}
	return &task, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	task, err := s.tasks.FindByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, workspaceID string, includeCompleted bool) ([]model.Task, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	tasks, err := s.tasks.ListByWorkspace(ctx, userID, workspaceID, includeCompleted)
	if err != nil {
		return nil, storeErr(err)
	}
	return tasks, nil
}

func (s *TaskService) Update(ctx context.Context, id string, patch TaskPatch) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	fields := map[string]any{}
	if patch.Title != nil {
		if *patch.Title == "" {
			return invalid("title", "title is required")
		}
		fields["title"] = *patch.Title
	}
	if patch.Description != nil {
		fields["description"] = nullableString(*patch.Description)
	}
	if patch.CategoryID != nil {
		fields["category_id"] = nullableString(*patch.CategoryID)
	}
	if patch.ScheduledDate != nil {
		fields["scheduled_date"] = calendar.DateOf(*patch.ScheduledDate)
	}
	if patch.DueDate != nil {
		due := calendar.DateOf(*patch.DueDate)
		if patch.ScheduledDate != nil && due.Before(calendar.DateOf(*patch.ScheduledDate)) {
			return invalid("due_date", "due_date must be on or after scheduled_date")
		}
		fields["due_date"] = due
	}
	if patch.Priority != nil {
		if *patch.Priority < 0 || *patch.Priority > 3 {
			return invalid("priority", "priority must be 0..3")
		}
		fields["priority"] = *patch.Priority
	}
	if patch.Position != nil {
		fields["position"] = *patch.Position
	}
	if patch.IsDetached != nil {
		fields["is_detached"] = *patch.IsDetached
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.tasks.Update(ctx, userID, id, fields); err != nil {
		return storeErr(err)
	}
	return nil
}

// Complete marks a task done. Completing an instance of an active, unpaused
// template also generates the next occurrence: the reference date is the
// completion date for interval-from-completion rules and the previous
// scheduled date for fixed patterns.
func (s *TaskService) Complete(ctx context.Context, id string, completedAt time.Time) (*model.Task, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	task, err := s.tasks.FindByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if task.IsCompleted {
		return task, nil
	}

	task.IsCompleted = true
	task.CompletedAt = &completedAt
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, storeErr(err)
	}

	if task.RecurringTaskID != nil {
		if err := s.generateNext(ctx, userID, task, completedAt); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// Reopen clears completion. No generated occurrence is taken back.
func (s *TaskService) Reopen(ctx context.Context, id string) (*model.Task, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	task, err := s.tasks.FindByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	task.IsCompleted = false
	task.CompletedAt = nil
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, storeErr(err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if err := s.tasks.Delete(ctx, userID, id); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *TaskService) generateNext(ctx context.Context, userID string, task *model.Task, completedAt time.Time) error {
	tpl, err := s.recurring.FindByID(ctx, userID, *task.RecurringTaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Template already deleted; the instance stays as history.
			return nil
		}
		return storeErr(err)
	}
	if !tpl.IsActive || tpl.IsPaused {
		return nil
	}

	rule, err := recurrence.FromRow(tpl)
	if err != nil {
		s.log.Warn("skipping occurrence generation for malformed rule",
			"recurring_task_id", tpl.ID, "err", err)
		return nil
	}

	ref := calendar.DateOf(completedAt)
	if rule.Kind() != model.RecurrenceIntervalFromCompletion && task.ScheduledDate != nil {
		ref = calendar.DateOf(*task.ScheduledDate)
	}
	next := recurrence.Next(rule, ref)

	if tpl.EndDate != nil && next.After(*tpl.EndDate) {
		// Past the end of the series; retire the template.
		if err := s.recurring.Update(ctx, userID, tpl.ID, map[string]any{"is_active": false}); err != nil {
			return storeErr(err)
		}
		return nil
	}

	instance := model.Task{
		UserID:          userID,
		WorkspaceID:     tpl.WorkspaceID,
		CategoryID:      tpl.CategoryID,
		RecurringTaskID: &tpl.ID,
		Title:           tpl.Title,
		Description:     tpl.Description,
		Priority:        tpl.Priority,
		ScheduledDate:   &next,
		Position:        0,
	}
	if err := s.tasks.Create(ctx, &instance); err != nil {
		return storeErr(err)
	}
	if err := s.recurring.Update(ctx, userID, tpl.ID, map[string]any{
		"next_due_date":         next,
		"occurrences_generated": tpl.Occurrences + 1,
	}); err != nil {
		return storeErr(err)
	}
	return nil
}
