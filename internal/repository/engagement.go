package repository

import (
	"context"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository covers likes, ratings and the derived rankings.
type EngagementRepository interface {
	ToggleLike(ctx context.Context, postID, userID uint) (liked bool, err error)
	Rate(ctx context.Context, postID, userID uint, value int) error
	TotalLikes(ctx context.Context, postID uint) (int64, error)
	AverageRating(ctx context.Context, postID uint) (float64, error)
	MostLiked(ctx context.Context, limit, offset int) ([]*models.Post, error)
	HighestRated(ctx context.Context, limit, offset int) ([]*models.Post, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

// ToggleLike flips the requester's like on a post. The unique index on
// (post_id, user_id) makes concurrent toggles converge on a single row;
// the insert relies on ON CONFLICT DO NOTHING so a lost race reads as
// "already liked" and falls through to the delete path.
func (r *engagementRepository) ToggleLike(ctx context.Context, postID, userID uint) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return models.NewNotFoundError("Post", postID)
		}

		like := models.Like{PostID: postID, UserID: userID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = true
			return nil
		}

		liked = false
		return tx.Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&models.Like{}).Error
	})
	if err != nil {
		return false, err
	}
	cache.InvalidatePost(ctx, postID)
	cache.Invalidate(ctx, cache.MostLikedKey)
	return liked, nil
}

// Rate upserts the requester's rating so each (post, user) pair holds at
// most one row carrying the latest value.
func (r *engagementRepository) Rate(ctx context.Context, postID, userID uint, value int) error {
	if value < models.RatingMin || value > models.RatingMax {
		return models.NewValidationError("Rating must be between 1 and 5")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return models.NewNotFoundError("Post", postID)
		}

		rating := models.Rating{PostID: postID, UserID: userID, Rating: value}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"rating":     value,
				"updated_at": time.Now(),
			}),
		}).Create(&rating).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, postID)
	cache.Invalidate(ctx, cache.HighestRatedKey)
	return nil
}

func (r *engagementRepository) TotalLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (r *engagementRepository) AverageRating(ctx context.Context, postID uint) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Where("post_id = ?", postID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}

// rankingCacheSize is how many posts the cached first page holds.
// Requests asking for at most this many rows at offset 0 are sliced
// from the cached page, so a small limit never truncates the entry
// for later callers. Handlers cap limits at 100.
const rankingCacheSize = 100

// MostLiked ranks posts by like count, newest first on ties. The first
// page is served from cache.
func (r *engagementRepository) MostLiked(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return r.ranking(ctx, cache.MostLikedKey,
		"total_likes DESC, posts.published_at DESC", limit, offset)
}

// HighestRated ranks posts by average rating, newest first on ties.
// Unrated posts average 0 and land behind every rated post.
func (r *engagementRepository) HighestRated(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return r.ranking(ctx, cache.HighestRatedKey,
		"average_rating DESC, posts.published_at DESC", limit, offset)
}

func (r *engagementRepository) ranking(ctx context.Context, key, order string, limit, offset int) ([]*models.Post, error) {
	fetch := func(dest *[]*models.Post, limit, offset int) error {
		q := r.db.WithContext(ctx).Model(&models.Post{}).
			Select(statsSelect).
			Preload("Author").
			Preload("Category").
			Preload("Tags").
			Order(order)
		if limit > 0 {
			q = q.Limit(limit)
		}
		if offset > 0 {
			q = q.Offset(offset)
		}
		return q.Find(dest).Error
	}

	posts := make([]*models.Post, 0)
	if offset == 0 && limit > 0 && limit <= rankingCacheSize {
		err := cache.Aside(ctx, key, &posts, cache.RankingTTL, func() error {
			return fetch(&posts, rankingCacheSize, 0)
		})
		if err != nil {
			return nil, err
		}
		if len(posts) > limit {
			posts = posts[:limit]
		}
		return posts, nil
	}
	err := fetch(&posts, limit, offset)
	return posts, err
}
