package server

import (
	"fmt"
	"net/http"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostActionLikeToggle(t *testing.T) {
	db := setupTestDB(t)
	s := newTestServer(t, db)

	author := createTestUser(t, db, "author")
	liker := createTestUser(t, db, "liker")
	post := createTestPost(t, db, author, "likeable")

	app := newTestApp(liker.ID)
	app.Post("/posts/:id", s.PostAction)

	url := fmt.Sprintf("/posts/%d", post.ID)
	body := map[string]string{"action": "like"}

	// First call creates the like
	resp, err := app.Test(jsonRequest(t, http.MethodPost, url, body))
	require.NoError(t, err)
	var out map[string]string
	decodeBody(t, resp, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "liked", out["status"])

	var count int64
	db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", post.ID, liker.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// Second call removes it
	resp, err = app.Test(jsonRequest(t, http.MethodPost, url, body))
	require.NoError(t, err)
	decodeBody(t, resp, &out)
	assert.Equal(t, "unliked", out["status"])

	db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", post.ID, liker.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// Third call likes again
	resp, err = app.Test(jsonRequest(t, http.MethodPost, url, body))
	require.NoError(t, err)
	decodeBody(t, resp, &out)
	assert.Equal(t, "liked", out["status"])

	db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", post.ID, liker.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPostActionRateReplacesEarlierRating(t *testing.T) {
	db := setupTestDB(t)
	s := newTestServer(t, db)

	author := createTestUser(t, db, "author")
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, author, "rated")

	url := fmt.Sprintf("/posts/%d", post.ID)

	rate := func(userID uint, value int) *http.Response {
		app := newTestApp(userID)
		app.Post("/posts/:id", s.PostAction)
		resp, err := app.Test(jsonRequest(t, http.MethodPost, url,
			map[string]any{"action": "rate", "rating": value}))
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, http.StatusOK, rate(alice.ID, 4).StatusCode)
	assert.Equal(t, http.StatusOK, rate(bob.ID, 2).StatusCode)
	// Alice changes her mind; her first rating must be replaced, not added
	assert.Equal(t, http.StatusOK, rate(alice.ID, 2).StatusCode)

	var count int64
	db.Model(&models.Rating{}).Where("post_id = ?", post.ID).Count(&count)
	assert.Equal(t, int64(2), count)

	var avg float64
	db.Model(&models.Rating{}).Where("post_id = ?", post.ID).
		Select("AVG(rating)").Scan(&avg)
	assert.InDelta(t, 2.0, avg, 0.001)
}

func TestPostActionRateRejectsOutOfRange(t *testing.T) {
	db := setupTestDB(t)
	s := newTestServer(t, db)

	author := createTestUser(t, db, "author")
	rater := createTestUser(t, db, "rater")
	post := createTestPost(t, db, author, "rated")

	app := newTestApp(rater.ID)
	app.Post("/posts/:id", s.PostAction)
	url := fmt.Sprintf("/posts/%d", post.ID)

	for _, value := range []int{0, 6, -1} {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, url,
			map[string]any{"action": "rate", "rating": value}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "rating %d", value)
	}

	for value := models.RatingMin; value <= models.RatingMax; value++ {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, url,
			map[string]any{"action": "rate", "rating": value}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "rating %d", value)
	}
}

func TestPostActionValidation(t *testing.T) {
	db := setupTestDB(t)
	s := newTestServer(t, db)

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author, "target")

	app := newTestApp(author.ID)
	app.Post("/posts/:id", s.PostAction)
	url := fmt.Sprintf("/posts/%d", post.ID)

	// Unknown action
	resp, err := app.Test(jsonRequest(t, http.MethodPost, url, map[string]string{"action": "boost"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Missing action
	resp, err = app.Test(jsonRequest(t, http.MethodPost, url, map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Rate without a rating value
	resp, err = app.Test(jsonRequest(t, http.MethodPost, url, map[string]string{"action": "rate"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Like on a missing post
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/posts/9999", map[string]string{"action": "like"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRankingEndpoints(t *testing.T) {
	db := setupTestDB(t)
	s := newTestServer(t, db)

	author := createTestUser(t, db, "author")
	u1 := createTestUser(t, db, "fan1")
	u2 := createTestUser(t, db, "fan2")

	popular := createTestPost(t, db, author, "popular")
	average := createTestPost(t, db, author, "average")
	ignored := createTestPost(t, db, author, "ignored")

	require.NoError(t, db.Create(&models.Like{PostID: popular.ID, UserID: u1.ID}).Error)
	require.NoError(t, db.Create(&models.Like{PostID: popular.ID, UserID: u2.ID}).Error)
	require.NoError(t, db.Create(&models.Like{PostID: average.ID, UserID: u1.ID}).Error)

	require.NoError(t, db.Create(&models.Rating{PostID: popular.ID, UserID: u1.ID, Rating: 5}).Error)
	require.NoError(t, db.Create(&models.Rating{PostID: average.ID, UserID: u1.ID, Rating: 3}).Error)
	require.NoError(t, db.Create(&models.Rating{PostID: average.ID, UserID: u2.ID, Rating: 2}).Error)

	app := newTestApp(author.ID)
	app.Get("/posts/most-liked", s.MostLikedPosts)
	app.Get("/posts/highest-rated", s.HighestRatedPosts)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/posts/most-liked", nil))
	require.NoError(t, err)
	var posts []models.Post
	decodeBody(t, resp, &posts)
	require.Len(t, posts, 3)
	assert.Equal(t, popular.ID, posts[0].ID)
	assert.Equal(t, int64(2), posts[0].TotalLikes)
	assert.Equal(t, average.ID, posts[1].ID)
	assert.Equal(t, ignored.ID, posts[2].ID)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/posts/highest-rated", nil))
	require.NoError(t, err)
	decodeBody(t, resp, &posts)
	require.Len(t, posts, 3)
	assert.Equal(t, popular.ID, posts[0].ID)
	assert.InDelta(t, 5.0, posts[0].AverageRating, 0.001)
	assert.Equal(t, average.ID, posts[1].ID)
	assert.InDelta(t, 2.5, posts[1].AverageRating, 0.001)
	// Unrated posts sort last with an average of 0
	assert.Equal(t, ignored.ID, posts[2].ID)
	assert.InDelta(t, 0.0, posts[2].AverageRating, 0.001)
}
