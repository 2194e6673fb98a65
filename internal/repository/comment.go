package repository

import (
	"context"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if strings.TrimSpace(comment.Content) == "" {
		return models.NewValidationError("Comment content is required")
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", comment.PostID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.NewNotFoundError("Post", comment.PostID)
	}

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	// The post detail embeds its comments.
	cache.InvalidatePost(ctx, comment.PostID)

	return r.db.WithContext(ctx).Preload("Author").First(comment, comment.ID).Error
}

// ListByPost returns the post's comments oldest first. A post with no
// comments yields an empty slice, not an error.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	comments := make([]*models.Comment, 0)
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}
