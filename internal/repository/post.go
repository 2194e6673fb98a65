package repository

import (
	"context"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// statsSelect annotates each post row with its live engagement counters.
// COALESCE keeps unrated posts at an average of 0 so they sort after
// every rated post (real averages are always >= 1).
const statsSelect = "posts.*, " +
	"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS total_likes, " +
	"(SELECT COALESCE(AVG(ratings.rating), 0) FROM ratings WHERE ratings.post_id = posts.id) AS average_rating"

// ListPostsInput carries the optional filters for the post listing.
type ListPostsInput struct {
	CategoryID    uint
	TagIDs        []uint
	PublishedDate string // YYYY-MM-DD
	Search        string
	Ordering      string
	Limit         int
	Offset        int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tags []models.Tag) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, in ListPostsInput) ([]*models.Post, error)
	GetByCategoryName(ctx context.Context, name string, limit, offset int) ([]*models.Post, error)
	GetByAuthorUsername(ctx context.Context, username string, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post, tags []models.Tag, replaceTags bool) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, tags []models.Tag) error {
	post.Title = strings.TrimSpace(post.Title)
	if post.Title == "" {
		return models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(post.Content) == "" {
		return models.NewValidationError("Content is required")
	}
	post.Tags = tags

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	cache.InvalidateRankings(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.db.WithContext(ctx).
			Select(statsSelect).
			Preload("Author").
			Preload("Category").
			Preload("Tags").
			Preload("Comments").
			Preload("Comments.Author").
			First(&post, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("DISTINCT " + statsSelect).
		Preload("Author").
		Preload("Category").
		Preload("Tags")

	if in.CategoryID != 0 {
		q = q.Where("posts.category_id = ?", in.CategoryID)
	}
	if len(in.TagIDs) > 0 {
		q = q.Joins("JOIN post_tags pt ON pt.post_id = posts.id").
			Where("pt.tag_id IN ?", in.TagIDs)
	}
	if in.PublishedDate != "" {
		// DATE() works on both postgres and sqlite
		q = q.Where("DATE(posts.published_at) = ?", in.PublishedDate)
	}
	if s := strings.TrimSpace(in.Search); s != "" {
		pattern := "%" + s + "%"
		q = q.Joins("LEFT JOIN users ON users.id = posts.author_id").
			Joins("LEFT JOIN post_tags spt ON spt.post_id = posts.id").
			Joins("LEFT JOIN tags ON tags.id = spt.tag_id").
			Where(
				"LOWER(posts.title) LIKE LOWER(?) OR LOWER(posts.content) LIKE LOWER(?) OR LOWER(tags.name) LIKE LOWER(?) OR LOWER(users.username) LIKE LOWER(?)",
				pattern, pattern, pattern, pattern,
			)
	}

	q = q.Order(orderingClause(in.Ordering))

	if in.Limit > 0 {
		q = q.Limit(in.Limit)
	}
	if in.Offset > 0 {
		q = q.Offset(in.Offset)
	}

	posts := make([]*models.Post, 0)
	err := q.Find(&posts).Error
	return posts, err
}

func orderingClause(ordering string) string {
	switch ordering {
	case "published_date":
		return "posts.published_at ASC"
	case "-published_date":
		return "posts.published_at DESC"
	case "title":
		return "posts.title ASC"
	case "-title":
		return "posts.title DESC"
	default:
		return "posts.published_at DESC"
	}
}

func (r *postRepository) GetByCategoryName(ctx context.Context, name string, limit, offset int) ([]*models.Post, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Select(statsSelect).
		Joins("JOIN categories ON categories.id = posts.category_id").
		Where("LOWER(categories.name) = LOWER(?)", name).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Order("posts.published_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	posts := make([]*models.Post, 0)
	err := q.Find(&posts).Error
	return posts, err
}

func (r *postRepository) GetByAuthorUsername(ctx context.Context, username string, limit, offset int) ([]*models.Post, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Select(statsSelect).
		Joins("JOIN users ON users.id = posts.author_id").
		Where("users.username = ?", username).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Order("posts.published_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	posts := make([]*models.Post, 0)
	err := q.Find(&posts).Error
	return posts, err
}

// Update persists the mutable post fields. When replaceTags is true the
// tag set is replaced wholesale with the supplied tags.
func (r *postRepository) Update(ctx context.Context, post *models.Post, tags []models.Tag, replaceTags bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":       post.Title,
			"content":     post.Content,
			"category_id": post.CategoryID,
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
			return err
		}
		if replaceTags {
			if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidateRankings(ctx)
	return nil
}

// Delete removes the post together with its comments, likes, ratings
// and tag links. The dependents are hard-deleted so no orphan rows
// survive the post.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&post).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateRankings(ctx)
	return nil
}
