package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskplan/internal/model"
)

// RecurringTaskRepository manages recurring-task templates.
type RecurringTaskRepository struct {
	db *gorm.DB
}

func NewRecurringTaskRepository(db *gorm.DB) *RecurringTaskRepository {
	return &RecurringTaskRepository{db: db}
}

// CreateWithInstance inserts a template together with its first task
// instance in one transaction. If the instance insert fails the template
// insert rolls back with it, and the instance error is what the caller sees.
func (r *RecurringTaskRepository) CreateWithInstance(ctx context.Context, tpl *model.RecurringTask, first *model.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tpl).Error; err != nil {
			return fmt.Errorf("create recurring task: %w", err)
		}
		first.RecurringTaskID = &tpl.ID
		if err := tx.Create(first).Error; err != nil {
			return err
		}
		if err := tx.Model(tpl).Update("occurrences_generated", 1).Error; err != nil {
			return err
		}
		tpl.Occurrences = 1
		return nil
	})
}

func (r *RecurringTaskRepository) FindByID(ctx context.Context, userID, id string) (*model.RecurringTask, error) {
	var tpl model.RecurringTask
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *RecurringTaskRepository) ListByUser(ctx context.Context, userID string) ([]model.RecurringTask, error) {
	var templates []model.RecurringTask
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("next_due_date ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// ListDue returns active, unpaused templates due on or before the given day,
// for the daily digest.
func (r *RecurringTaskRepository) ListDue(ctx context.Context, userID string, day time.Time) ([]model.RecurringTask, error) {
	var templates []model.RecurringTask
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND is_paused = ? AND next_due_date <= ?", userID, true, false, day).
		Order("next_due_date ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *RecurringTaskRepository) Update(ctx context.Context, userID, id string, fields map[string]any) error {
	if err := r.db.WithContext(ctx).Model(&model.RecurringTask{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("update recurring task: %w", err)
	}
	return nil
}

func (r *RecurringTaskRepository) Delete(ctx context.Context, userID, id string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.RecurringTask{}).Error; err != nil {
		return fmt.Errorf("delete recurring task: %w", err)
	}
	return nil
}
