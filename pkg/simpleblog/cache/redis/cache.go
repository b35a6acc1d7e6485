// Package redis provides a Redis-backed simpleblog.ViewCache.
//
// Single-post views are cached cache-aside: the service consults the cache on
// reads, fills it after a store hit, and deletes the key on an ownership
// update. Values are JSON, keyed post:view:<id>, with a TTL so stale entries
// age out even if an invalidation is missed.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// ViewCache implements simpleblog.ViewCache on a Redis client. All failures
// are logged and treated as cache misses; the cache never fails a request.
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a view cache with the given TTL for post views.
func New(client *redis.Client, ttl time.Duration) *ViewCache {
	return &ViewCache{client: client, ttl: ttl}
}

func postViewKey(id int64) string {
	return fmt.Sprintf("post:view:%d", id)
}

func (c *ViewCache) GetPost(ctx context.Context, id int64) (*simpleblog.PostView, bool) {
	val, err := c.client.Get(ctx, postViewKey(id)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("post view cache read failed", "post_id", id, "error", err)
		}
		return nil, false
	}

	view := &simpleblog.PostView{}
	if err := json.Unmarshal([]byte(val), view); err != nil {
		slog.Warn("post view cache entry malformed", "post_id", id, "error", err)
		return nil, false
	}

	return view, true
}

func (c *ViewCache) SetPost(ctx context.Context, view *simpleblog.PostView) {
	data, err := json.Marshal(view)
	if err != nil {
		slog.Warn("post view cache encode failed", "post_id", view.ID, "error", err)
		return
	}

	if err := c.client.Set(ctx, postViewKey(view.ID), data, c.ttl).Err(); err != nil {
		slog.Warn("post view cache write failed", "post_id", view.ID, "error", err)
	}
}

func (c *ViewCache) InvalidatePost(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, postViewKey(id)).Err(); err != nil {
		slog.Warn("post view cache invalidation failed", "post_id", id, "error", err)
	}
}
