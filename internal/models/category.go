package models

import "time"

// Category groups posts under a single topic. Names are normalized to
// lowercase before persisting so that "News" and "news" conflict on the
// unique index rather than coexisting.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Posts     []Post    `gorm:"foreignKey:CategoryID" json:"posts,omitempty"`
}
