package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyUsersFeedFmt = "users_feed:%s"
	keyFeedVersion  = "feed:version"
)

// Repository is the Redis side of the feed: per-viewer ranked-feed cache and
// the global corpus version counter every mutation event bumps.
type Repository interface {
	Version(ctx context.Context) (int64, error)
	BumpVersion(ctx context.Context) error
	GetCached(ctx context.Context, viewerID string) (*CachedFeed, error)
	StoreCached(ctx context.Context, viewerID string, cf CachedFeed, ttl time.Duration) error
	Invalidate(ctx context.Context, viewerID string) error
}

type repo struct {
	rdb *redis.Client
}

func NewRepository(rdb *redis.Client) Repository { return &repo{rdb: rdb} }

func (r *repo) feedKey(uid string) string { return fmt.Sprintf(keyUsersFeedFmt, uid) }

func (r *repo) Version(ctx context.Context) (int64, error) {
	n, err := r.rdb.Get(ctx, keyFeedVersion).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (r *repo) BumpVersion(ctx context.Context) error {
	return r.rdb.Incr(ctx, keyFeedVersion).Err()
}

// GetCached returns nil on a cache miss or an undecodable entry; a corrupt
// cache entry just forces a recompute.
func (r *repo) GetCached(ctx context.Context, viewerID string) (*CachedFeed, error) {
	raw, err := r.rdb.Get(ctx, r.feedKey(viewerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cf CachedFeed
	if err := json.Unmarshal(raw, &cf); err != nil {
		return nil, nil
	}
	return &cf, nil
}

func (r *repo) StoreCached(ctx context.Context, viewerID string, cf CachedFeed, ttl time.Duration) error {
	b, err := json.Marshal(cf)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.feedKey(viewerID), b, ttl).Err()
}

func (r *repo) Invalidate(ctx context.Context, viewerID string) error {
	return r.rdb.Del(ctx, r.feedKey(viewerID)).Err()
}
