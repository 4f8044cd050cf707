package service

import (
	"context"
	"time"

	"taskplan/internal/model"
)

// Store interfaces the services depend on. The repository package provides
// the gorm-backed implementations; tests substitute in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	SetTelegramChatID(ctx context.Context, userID string, chatID *int64) error
}

type WorkspaceStore interface {
	Create(ctx context.Context, ws *model.Workspace) error
	ListByUser(ctx context.Context, userID string) ([]model.Workspace, error)
	FindByID(ctx context.Context, userID, id string) (*model.Workspace, error)
	Update(ctx context.Context, userID, id string, fields map[string]any) error
	Delete(ctx context.Context, userID, id string) error
}

type CategoryStore interface {
	Create(ctx context.Context, category *model.Category) error
	ListByWorkspace(ctx context.Context, userID, workspaceID string) ([]model.Category, error)
	FindByID(ctx context.Context, userID, id string) (*model.Category, error)
	Update(ctx context.Context, userID, id string, fields map[string]any) error
	Delete(ctx context.Context, userID, id string) error
}

type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, userID, taskID string) (*model.Task, error)
	ListByWorkspace(ctx context.Context, userID, workspaceID string, includeCompleted bool) ([]model.Task, error)
	ListByTemplate(ctx context.Context, userID, recurringTaskID string) ([]model.Task, error)
	ListScheduledOn(ctx context.Context, userID string, day time.Time) ([]model.Task, error)
	ListOverdue(ctx context.Context, userID string, day time.Time) ([]model.Task, error)
	Update(ctx context.Context, userID, taskID string, fields map[string]any) error
	Save(ctx context.Context, task *model.Task) error
	UpdateUncompletedByTemplate(ctx context.Context, userID, recurringTaskID string, fields map[string]any) error
	DeleteUncompletedByTemplate(ctx context.Context, userID, recurringTaskID string) error
	Delete(ctx context.Context, userID, taskID string) error
}

type RecurringStore interface {
	CreateWithInstance(ctx context.Context, tpl *model.RecurringTask, first *model.Task) error
	FindByID(ctx context.Context, userID, id string) (*model.RecurringTask, error)
	ListByUser(ctx context.Context, userID string) ([]model.RecurringTask, error)
	ListDue(ctx context.Context, userID string, day time.Time) ([]model.RecurringTask, error)
	Update(ctx context.Context, userID, id string, fields map[string]any) error
	Delete(ctx context.Context, userID, id string) error
}
