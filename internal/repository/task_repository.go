package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskplan/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByWorkspace returns a workspace's tasks, optionally keeping completed
// ones out.
func (r *TaskRepository) ListByWorkspace(ctx context.Context, userID, workspaceID string, includeCompleted bool) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("user_id = ? AND workspace_id = ?", userID, workspaceID)
	if !includeCompleted {
		q = q.Where("is_completed = ?", false)
	}
	var tasks []model.Task
	if err := q.Order("position ASC, created_at ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByTemplate returns every instance generated from a template.
func (r *TaskRepository) ListByTemplate(ctx context.Context, userID, recurringTaskID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND recurring_task_id = ?", userID, recurringTaskID).
		Order("scheduled_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListScheduledOn returns uncompleted tasks with a scheduled date on the
// given day, for the daily digest.
func (r *TaskRepository) ListScheduledOn(ctx context.Context, userID string, day time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_completed = ? AND scheduled_date = ?", userID, false, day).
		Order("priority DESC, position ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListOverdue returns uncompleted tasks whose due date is before the given
// day.
func (r *TaskRepository) ListOverdue(ctx context.Context, userID string, day time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_completed = ? AND due_date < ?", userID, false, day).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, userID, taskID string, fields map[string]any) error {
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND id = ?", userID, taskID).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// UpdateUncompletedByTemplate propagates template field changes to every
// instance that is still open and has not been detached from its template.
func (r *TaskRepository) UpdateUncompletedByTemplate(ctx context.Context, userID, recurringTaskID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND recurring_task_id = ? AND is_completed = ? AND is_detached = ?",
			userID, recurringTaskID, false, false).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("propagate to instances: %w", err)
	}
	return nil
}

// DeleteUncompletedByTemplate removes a template's open instances. Completed
// instances stay behind as history.
func (r *TaskRepository) DeleteUncompletedByTemplate(ctx context.Context, userID, recurringTaskID string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND recurring_task_id = ? AND is_completed = ?", userID, recurringTaskID, false).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete template instances: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
