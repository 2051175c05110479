package models

import (
	"time"

	"gorm.io/gorm"
)

// Poem represents a poem in the Verse application. The owner's username and
// display name are denormalized onto the poem so list responses don't need a
// join; the UserID foreign key remains the authoritative ownership link and
// the two must always agree.
type Poem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Content     string `gorm:"type:text;not null" json:"content"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Username    string `gorm:"not null;index" json:"username"`
	DisplayName string `gorm:"not null" json:"displayName"`
	// LikesCount is persisted and maintained in the same transaction as the
	// like rows; it must equal the number of distinct liking users.
	LikesCount int `gorm:"not null;default:0" json:"likes"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int            `gorm:"->" json:"comments_count"`
	Comments      []Comment      `gorm:"foreignKey:PoemID" json:"comments"`
	CreatedAt     time.Time      `json:"date"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// PoemListItem is the summary projection used by paginated list responses.
// It omits the full content and comment bodies.
type PoemListItem struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"displayName"`
	LikesCount    int       `json:"likes"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"date"`
}

// ListItem returns the summary projection of the poem.
func (p *Poem) ListItem() PoemListItem {
	return PoemListItem{
		ID:            p.ID,
		Title:         p.Title,
		Username:      p.Username,
		DisplayName:   p.DisplayName,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		CreatedAt:     p.CreatedAt,
	}
}
