package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix   = "post:%d"
	MostLikedKey    = "posts:most-liked"
	HighestRatedKey = "posts:highest-rated"
)

const (
	PostTTL    = 30 * time.Minute
	RankingTTL = 5 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost drops the cached detail view for a post.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidateRankings drops the cached most-liked and highest-rated lists.
// Called on every like/rating mutation and on post create/delete.
func InvalidateRankings(ctx context.Context) {
	Invalidate(ctx, MostLikedKey)
	Invalidate(ctx, HighestRatedKey)
}
