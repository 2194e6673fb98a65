package repository

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAuthor(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "pw", IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestPostRepository_CreateRequiresTitleAndContent(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedAuthor(t, db, "author")

	err := repo.Create(ctx, &models.Post{Content: "body", AuthorID: &author.ID}, nil)
	assert.Error(t, err)

	err = repo.Create(ctx, &models.Post{Title: "t", Content: "  ", AuthorID: &author.ID}, nil)
	assert.Error(t, err)

	post := &models.Post{Title: "  spaced  ", Content: "body", AuthorID: &author.ID}
	require.NoError(t, repo.Create(ctx, post, nil))
	assert.Equal(t, "spaced", post.Title)
	assert.NotZero(t, post.ID)
}

func TestPostRepository_ListPublishedDateFilter(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedAuthor(t, db, "author")

	old := &models.Post{Title: "old", Content: "c", AuthorID: &author.ID}
	require.NoError(t, db.Create(old).Error)
	require.NoError(t, db.Model(old).Update("published_at",
		time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC)).Error)

	fresh := &models.Post{Title: "fresh", Content: "c", AuthorID: &author.ID}
	require.NoError(t, db.Create(fresh).Error)

	posts, err := repo.List(ctx, ListPostsInput{PublishedDate: "2024-03-10"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, old.ID, posts[0].ID)

	posts, err = repo.List(ctx, ListPostsInput{PublishedDate: "1999-01-01"})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRepository_ListDefaultOrderingNewestFirst(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedAuthor(t, db, "author")

	first := &models.Post{Title: "first", Content: "c", AuthorID: &author.ID}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Model(first).Update("published_at",
		time.Now().Add(-48*time.Hour)).Error)

	second := &models.Post{Title: "second", Content: "c", AuthorID: &author.ID}
	require.NoError(t, db.Create(second).Error)

	posts, err := repo.List(ctx, ListPostsInput{})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)

	posts, err = repo.List(ctx, ListPostsInput{Ordering: "published_date"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, posts[0].ID)
}

func TestPostRepository_ListPagination(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedAuthor(t, db, "author")
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.Post{
			Title: "post", Content: "c", AuthorID: &author.ID,
		}).Error)
	}

	posts, err := repo.List(ctx, ListPostsInput{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, err = repo.List(ctx, ListPostsInput{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestPostRepository_UpdateReplacesTags(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedAuthor(t, db, "author")
	a := models.Tag{Name: "a", Slug: "a"}
	b := models.Tag{Name: "b", Slug: "b"}
	c := models.Tag{Name: "c", Slug: "c"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)
	require.NoError(t, db.Create(&c).Error)

	post := &models.Post{Title: "tagged", Content: "x", AuthorID: &author.ID}
	require.NoError(t, repo.Create(ctx, post, []models.Tag{a, b}))

	require.NoError(t, repo.Update(ctx, post, []models.Tag{c}, true))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "c", got.Tags[0].Name)
}

func TestTagRepository_GetByIDsRejectsUnknown(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	tag := &models.Tag{Name: "known"}
	require.NoError(t, repo.Create(ctx, tag))
	assert.Equal(t, "known", tag.Slug)

	tags, err := repo.GetByIDs(ctx, []uint{tag.ID})
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	_, err = repo.GetByIDs(ctx, []uint{tag.ID, 999})
	assert.Error(t, err)

	tags, err = repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, tags)
}
