package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a single item in the planner. It is either standalone or an
// instance generated from a RecurringTask (RecurringTaskID set).
type Task struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	UserID          string     `gorm:"index" json:"user_id"`
	WorkspaceID     string     `gorm:"index" json:"workspace_id"`
	CategoryID      *string    `gorm:"index" json:"category_id"`
	ParentTaskID    *string    `gorm:"index" json:"parent_task_id"` // subtask of another task
	RecurringTaskID *string    `gorm:"index" json:"recurring_task_id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	ScheduledDate   *time.Time `json:"scheduled_date"` // when the user intends to work on it; nil = backlog
	DueDate         *time.Time `json:"due_date"`       // hard deadline
	Priority        int        `gorm:"default:0" json:"priority"`
	Position        int        `gorm:"default:0" json:"position"`
	IsCompleted     bool       `gorm:"default:false" json:"is_completed"`
	CompletedAt     *time.Time `json:"completed_at"`
	IsDetached      bool       `gorm:"default:false" json:"is_detached"` // edited away from its template; propagation skips it
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
