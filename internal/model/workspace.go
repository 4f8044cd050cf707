package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workspace is a top-level container for tasks (e.g. "Personal", "Work").
type Workspace struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index" json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `gorm:"default:#6366f1" json:"color"`
	Icon      *string   `json:"icon"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Workspace) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
