// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account in the Verse application.
// The password field holds a bcrypt hash and is never serialized.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"unique;not null" json:"username"`
	DisplayName string         `gorm:"not null" json:"displayName"`
	Password    string         `gorm:"not null" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Poems       []Poem         `gorm:"foreignKey:UserID" json:"poems,omitempty"`
}

// AccountBasics is the projection returned by the logged-in account endpoint.
type AccountBasics struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"created_at"`
}

// Basics returns the account summary for the user.
func (u *User) Basics() AccountBasics {
	return AccountBasics{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
