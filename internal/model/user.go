package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User owns every other row in the store.
type User struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Email          string    `gorm:"uniqueIndex" json:"email"`
	PasswordHash   string    `json:"-"`
	DisplayName    string    `json:"display_name"`
	TelegramChatID *int64    `json:"telegram_chat_id"` // set when the user links a chat for daily digests
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
