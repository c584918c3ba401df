package domain

import "time"

// Attachment is user-owned metadata for a blob kept in object storage.
type Attachment struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	Filename    string    `json:"filename" gorm:"not null;size:255"`
	ContentType string    `json:"content_type" gorm:"size:255"`
	StorageKey  string    `json:"-" gorm:"not null;size:512"`
	URL         string    `json:"url" gorm:"not null;size:1024"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// OwnedBy reports whether the attachment belongs to userID.
func (a *Attachment) OwnedBy(userID uint) bool {
	return a != nil && userID != 0 && a.UserID == userID
}
