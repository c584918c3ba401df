// File: internal/domain/message.go
package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message within a chat. Messages are never
// updated after creation.
type Message struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ChatID    uint      `json:"chat_id" gorm:"not null;index"` // The ID of the chat this message belongs to
	Role      string    `json:"role" gorm:"not null;size:16"`  // "user" or "assistant"
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// IsValidRole reports whether role is one of the two message roles.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}
