package cache

import (
	"context"
	"fmt"
	"time"

	"teamtune/logger"

	"github.com/redis/go-redis/v9"
)

const nameTTL = 24 * time.Hour

// NameCache caches Spotify display names by user ID so that resolving a
// playlist's "added by" column does not hit the profile endpoint for every
// read. A nil client degrades to a pass-through.
type NameCache struct {
	client *redis.Client
}

// NewNameCache wraps the given Redis client.
func NewNameCache(client *redis.Client) *NameCache {
	return &NameCache{client: client}
}

func nameKey(spotifyUserID string) string {
	return fmt.Sprintf("spotify_name:%s", spotifyUserID)
}

// Get returns the cached display name and whether there was a hit.
func (c *NameCache) Get(ctx context.Context, spotifyUserID string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}

	name, err := c.client.Get(ctx, nameKey(spotifyUserID)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		logger.Warn("name cache read failed", logger.String("spotify_user", spotifyUserID), logger.ErrorField(err))
		return "", false
	}
	return name, true
}

// Put stores a display name. Errors are logged, a missed cache write is
// never fatal.
func (c *NameCache) Put(ctx context.Context, spotifyUserID, name string) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Set(ctx, nameKey(spotifyUserID), name, nameTTL).Err(); err != nil {
		logger.Warn("name cache write failed", logger.String("spotify_user", spotifyUserID), logger.ErrorField(err))
	}
}
