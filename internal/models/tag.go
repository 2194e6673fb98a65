package models

import "time"

// Tag is a free-form label attached to posts (many-to-many). The slug is
// derived from the name when absent and stays stable afterwards; both name
// and slug are globally unique.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	Posts     []Post    `gorm:"many2many:post_tags" json:"posts,omitempty"`
}
