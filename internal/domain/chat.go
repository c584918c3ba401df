// File: internal/domain/chat.go
package domain

import "time"

// Chat represents a single conversation thread.
type Chat struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"` // The ID of the user who owns the chat
	Name      string    `json:"name" gorm:"not null;size:200"`
	Model     string    `json:"model" gorm:"not null;size:200"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether the chat belongs to userID.
func (c *Chat) OwnedBy(userID uint) bool {
	return c != nil && userID != 0 && c.UserID == userID
}
