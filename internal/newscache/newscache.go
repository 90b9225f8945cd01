// Package newscache keeps the last successful blog fetch in Redis as a
// single document so user-facing requests usually skip the network.
package newscache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/painori/painori/internal/feed"
)

const (
	cacheKey = "painori:news:blog:latest"

	// DefaultFreshness is how long a cached blog result is served
	// without refetching.
	DefaultFreshness = 30 * time.Minute
)

// Entry is the stored cache document: the article list, its count, and
// the write timestamp staleness is computed from.
type Entry struct {
	Articles  []feed.Article `json:"articles"`
	Count     int            `json:"count"`
	WrittenAt time.Time      `json:"writtenAt"`
}

func (e Entry) fresh(now time.Time, window time.Duration) bool {
	return now.Sub(e.WrittenAt) < window
}

// Cache is a single-key read-through cache. Store errors never surface
// to callers: a failed read is a miss, a failed write is a no-op.
type Cache struct {
	rdb       *redis.Client
	freshness time.Duration
	now       func() time.Time
}

func New(rdb *redis.Client, freshness time.Duration) *Cache {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &Cache{rdb: rdb, freshness: freshness, now: time.Now}
}

// Get returns the cached articles if a fresh entry exists, nil
// otherwise. A stale entry is reported as a miss but left in place.
func (c *Cache) Get(ctx context.Context) []feed.Article {
	if c.rdb == nil {
		return nil
	}

	bs, err := c.rdb.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("newscache: read error: %v", err)
		}
		return nil
	}

	var entry Entry
	if err := json.Unmarshal(bs, &entry); err != nil {
		log.Printf("newscache: corrupt entry: %v", err)
		return nil
	}

	if !entry.fresh(c.now(), c.freshness) {
		log.Printf("newscache: entry stale (written %s ago)", c.now().Sub(entry.WrittenAt).Round(time.Minute))
		return nil
	}

	return entry.Articles
}

// Put overwrites the stored entry with the new list and the current
// write timestamp. No TTL: a stale entry stays around as a last-resort
// fallback rather than being expired by Redis.
func (c *Cache) Put(ctx context.Context, articles []feed.Article) {
	if c.rdb == nil || len(articles) == 0 {
		return
	}

	entry := Entry{
		Articles:  articles,
		Count:     len(articles),
		WrittenAt: c.now(),
	}
	bs, err := json.Marshal(entry)
	if err != nil {
		log.Printf("newscache: marshal error: %v", err)
		return
	}

	if err := c.rdb.Set(ctx, cacheKey, bs, 0).Err(); err != nil {
		log.Printf("newscache: write error: %v", err)
		return
	}
	log.Printf("newscache: stored %d articles", len(articles))
}
