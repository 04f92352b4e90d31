package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	LikeSetTTL       = 24 * time.Hour
	LikeCntTTL       = 24 * time.Hour
	LikeSetKeyPrefix = "like:set:post" // set of member uids that liked a post
	LikeCntKeyPrefix = "like:cnt:post" // cached like count per post
)

// LikeCacheRepository fronts the durable like counter on the post document.
// Every method is best-effort: callers fall back to the store on any error.
type LikeCacheRepository struct {
	rdb    *redis.Client
	setTTL time.Duration
	cntTTL time.Duration
}

func NewLikeCacheRepository(rdb *redis.Client) *LikeCacheRepository {
	return &LikeCacheRepository{
		rdb:    rdb,
		setTTL: LikeSetTTL,
		cntTTL: LikeCntTTL,
	}
}

func (r *LikeCacheRepository) likeSetKey(postID string) string {
	return fmt.Sprintf("%s:%s", LikeSetKeyPrefix, postID)
}

func (r *LikeCacheRepository) likeCntKey(postID string) string {
	return fmt.Sprintf("%s:%s", LikeCntKeyPrefix, postID)
}

func (r *LikeCacheRepository) Liked(ctx context.Context, postID, uid string) (bool, error) {
	return r.rdb.SIsMember(ctx, r.likeSetKey(postID), uid).Result()
}

// Record is the write path: called after the durable counter was bumped.
func (r *LikeCacheRepository) Record(ctx context.Context, postID, uid string, count int64) error {
	k := r.likeSetKey(postID)
	if err := r.rdb.SAdd(ctx, k, uid).Err(); err != nil {
		return err
	}
	_ = r.rdb.Expire(ctx, k, r.setTTL).Err()

	return r.rdb.Set(ctx, r.likeCntKey(postID), count, r.cntTTL).Err()
}

func (r *LikeCacheRepository) Count(ctx context.Context, postID string) (int64, error) {
	return r.rdb.Get(ctx, r.likeCntKey(postID)).Int64()
}
