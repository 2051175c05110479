package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a poem. Comments are immutable once
// written; there are no edit or delete endpoints for them.
type Comment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PoemID      uint           `gorm:"not null;index" json:"poem_id"`
	Username    string         `gorm:"not null" json:"username"`
	DisplayName string         `gorm:"not null" json:"displayName"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Replies     []Reply        `gorm:"foreignKey:CommentID" json:"replies"`
	CreatedAt   time.Time      `json:"date"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
