package repository

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create normalizes the name to lowercase before persisting, so the unique
// index rejects case-insensitive duplicates ("News" conflicts with "news").
func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	category.Name = strings.ToLower(strings.TrimSpace(category.Name))
	if category.Name == "" {
		return models.NewValidationError("Category name is required")
	}

	existing, err := r.GetByName(ctx, category.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return models.NewConflictError("Category already exists")
	}

	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetByName matches case-insensitively. Stored names are lowercase, so
// lowering the argument is sufficient.
func (r *categoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("name = ?", strings.ToLower(name)).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// Delete removes a category and clears the reference on its posts in one
// transaction; the posts themselves are kept. Cached views of the
// affected posts would still carry the deleted category, so their keys
// are dropped after commit along with the rankings.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	var postIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("category_id = ?", id).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
	if err != nil {
		return err
	}
	for _, postID := range postIDs {
		cache.InvalidatePost(ctx, postID)
	}
	cache.InvalidateRankings(ctx)
	return nil
}
