package repository

import (
	"context"
	"strings"

	"inkwell/internal/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// Create derives a URL-safe slug from the name when none is supplied.
// An explicitly provided slug is kept as-is; both name and slug are unique.
func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	tag.Name = strings.TrimSpace(tag.Name)
	if tag.Name == "" {
		return models.NewValidationError("Tag name is required")
	}
	if tag.Slug == "" {
		tag.Slug = slug.Make(tag.Name)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Tag{}).
		Where("name = ? OR slug = ?", tag.Name, tag.Slug).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return models.NewConflictError("Tag with this name or slug already exists")
	}

	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetByIDs returns the tags matching the given IDs. A missing ID is a
// validation error so post creation never silently drops tags.
func (r *tagRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, models.NewValidationError("One or more tag IDs do not exist")
	}
	return tags, nil
}

func (r *tagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}
