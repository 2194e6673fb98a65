package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a published article. The author reference is nullable so posts
// survive author deletion; the category reference is optional and cleared
// when the category is removed.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `gorm:"not null" json:"content"`
	AuthorID   *uint     `gorm:"index" json:"author_id"`
	Author     *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags       []Tag     `gorm:"many2many:post_tags" json:"tags"`
	Comments   []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	// TotalLikes is not persisted; computed at query time
	TotalLikes int64 `gorm:"->;-:migration" json:"total_likes"`
	// AverageRating is not persisted; computed at query time (0 when unrated)
	AverageRating float64        `gorm:"->;-:migration" json:"average_rating"`
	PublishedAt   time.Time      `gorm:"index;autoCreateTime" json:"published_date"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
