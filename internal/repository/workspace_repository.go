package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskplan/internal/model"
)

// WorkspaceRepository manages workspace containers.
type WorkspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

func (r *WorkspaceRepository) Create(ctx context.Context, ws *model.Workspace) error {
	if err := r.db.WithContext(ctx).Create(ws).Error; err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	return nil
}

func (r *WorkspaceRepository) ListByUser(ctx context.Context, userID string) ([]model.Workspace, error) {
	var workspaces []model.Workspace
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("position ASC, created_at ASC").
		Find(&workspaces).Error; err != nil {
		return nil, err
	}
	return workspaces, nil
}

func (r *WorkspaceRepository) FindByID(ctx context.Context, userID, id string) (*model.Workspace, error) {
	var ws model.Workspace
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&ws).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *WorkspaceRepository) Update(ctx context.Context, userID, id string, fields map[string]any) error {
	if err := r.db.WithContext(ctx).Model(&model.Workspace{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("update workspace: %w", err)
	}
	return nil
}

// Delete removes a workspace together with its categories, tasks, and
// recurring templates, in one transaction.
func (r *WorkspaceRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := "user_id = ? AND workspace_id = ?"
		if err := tx.Where(scope, userID, id).Delete(&model.Task{}).Error; err != nil {
			return fmt.Errorf("delete workspace tasks: %w", err)
		}
		if err := tx.Where(scope, userID, id).Delete(&model.RecurringTask{}).Error; err != nil {
			return fmt.Errorf("delete workspace recurring tasks: %w", err)
		}
		if err := tx.Where(scope, userID, id).Delete(&model.Category{}).Error; err != nil {
			return fmt.Errorf("delete workspace categories: %w", err)
		}
		if err := tx.Where("user_id = ? AND id = ?", userID, id).Delete(&model.Workspace{}).Error; err != nil {
			return fmt.Errorf("delete workspace: %w", err)
		}
		return nil
	})
}
