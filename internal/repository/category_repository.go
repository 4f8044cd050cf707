package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskplan/internal/model"
)

// CategoryRepository manages task categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) ListByWorkspace(ctx context.Context, userID, workspaceID string) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ? AND workspace_id = ?", userID, workspaceID).
		Order("position ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, userID, id string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, userID, id string, fields map[string]any) error {
	if err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes the category and detaches it from tasks that referenced it.
func (r *CategoryRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Task{}).
			Where("user_id = ? AND category_id = ?", userID, id).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("detach category tasks: %w", err)
		}
		if err := tx.Model(&model.RecurringTask{}).
			Where("user_id = ? AND category_id = ?", userID, id).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("detach category recurring tasks: %w", err)
		}
		if err := tx.Where("user_id = ? AND id = ?", userID, id).Delete(&model.Category{}).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}
