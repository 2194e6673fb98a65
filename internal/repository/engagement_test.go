package repository

import (
	"context"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedLikes(t *testing.T, db *gorm.DB, post *models.Post, users ...*models.User) {
	t.Helper()
	for _, u := range users {
		require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: u.ID}).Error)
	}
}

func TestEngagementRepository_RankingCacheServesFullFirstPage(t *testing.T) {
	db := setupSQLiteDB(t)
	mr := useMiniredis(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	author := seedAuthor(t, db, "author")
	fans := []*models.User{
		seedAuthor(t, db, "fan1"),
		seedAuthor(t, db, "fan2"),
		seedAuthor(t, db, "fan3"),
	}

	var posts []*models.Post
	for _, title := range []string{"bronze", "silver", "gold"} {
		p := &models.Post{Title: title, Content: "c", AuthorID: &author.ID}
		require.NoError(t, db.Create(p).Error)
		posts = append(posts, p)
	}
	seedLikes(t, db, posts[2], fans...)
	seedLikes(t, db, posts[1], fans[0], fans[1])
	seedLikes(t, db, posts[0], fans[0])

	// A small first-page request must not pin the cached entry to its limit.
	top, err := repo.MostLiked(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "gold", top[0].Title)
	assert.True(t, mr.Exists(cache.MostLikedKey))

	full, err := repo.MostLiked(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, full, 3)
	assert.Equal(t, "gold", full[0].Title)
	assert.Equal(t, "silver", full[1].Title)
	assert.Equal(t, "bronze", full[2].Title)
}

func TestEngagementRepository_HighestRatedCacheServesFullFirstPage(t *testing.T) {
	db := setupSQLiteDB(t)
	mr := useMiniredis(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	author := seedAuthor(t, db, "author")
	rater := seedAuthor(t, db, "rater")

	var posts []*models.Post
	for _, title := range []string{"meh", "fine", "great"} {
		p := &models.Post{Title: title, Content: "c", AuthorID: &author.ID}
		require.NoError(t, db.Create(p).Error)
		posts = append(posts, p)
	}
	require.NoError(t, repo.Rate(ctx, posts[2].ID, rater.ID, 5))
	require.NoError(t, repo.Rate(ctx, posts[1].ID, rater.ID, 3))
	require.NoError(t, repo.Rate(ctx, posts[0].ID, rater.ID, 1))

	top, err := repo.HighestRated(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "great", top[0].Title)
	assert.True(t, mr.Exists(cache.HighestRatedKey))

	full, err := repo.HighestRated(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, full, 3)
	assert.Equal(t, "great", full[0].Title)
	assert.Equal(t, "meh", full[2].Title)
}
