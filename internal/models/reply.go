package models

import (
	"time"

	"gorm.io/gorm"
)

// Reply represents a reply to a comment. Replies carry no nested reply
// collection: nesting depth is capped at two levels.
type Reply struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CommentID   uint           `gorm:"not null;index" json:"comment_id"`
	Username    string         `gorm:"not null" json:"username"`
	DisplayName string         `gorm:"not null" json:"displayName"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time      `json:"date"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
