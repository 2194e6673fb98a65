package seed

import (
	"testing"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func TestSeedPopulatesAllTables(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Seed(Options{NumUsers: 5, NumPosts: 10, ShouldClean: true}))

	var users, categories, tags, posts int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Category{}).Count(&categories)
	db.Model(&models.Tag{}).Count(&tags)
	db.Model(&models.Post{}).Count(&posts)

	assert.Equal(t, int64(5), users)
	assert.Equal(t, int64(len(categoryNames)), categories)
	assert.Equal(t, int64(len(tagNames)), tags)
	assert.Equal(t, int64(10), posts)

	// Every post has an author
	var orphans int64
	db.Model(&models.Post{}).Where("author_id IS NULL").Count(&orphans)
	assert.Equal(t, int64(0), orphans)

	// Ratings stay in range
	var badRatings int64
	db.Model(&models.Rating{}).
		Where("rating < ? OR rating > ?", models.RatingMin, models.RatingMax).
		Count(&badRatings)
	assert.Equal(t, int64(0), badRatings)
}

func TestClearAllIsIdempotent(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Seed(Options{NumUsers: 2, NumPosts: 3, ShouldClean: false}))
	require.NoError(t, s.ClearAll())
	require.NoError(t, s.ClearAll())

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.Equal(t, int64(0), users)
}

func TestFactoryCreateTagDerivesSlug(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db)

	tag, err := f.CreateTag("Deep Dive")
	require.NoError(t, err)
	assert.Equal(t, "deep-dive", tag.Slug)

	category, err := f.CreateCategory("Technology")
	require.NoError(t, err)
	assert.Equal(t, "technology", category.Name)
}
