package models

import "time"

// Rating is a 1-5 score a user gave a post. One row per (post, user);
// re-rating overwrites the value via an upsert on the unique index.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_rating_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_rating_post_user" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingMin and RatingMax bound the accepted rating values.
const (
	RatingMin = 1
	RatingMax = 5
)
