// Package scheduler keeps the blog cache warm so user requests usually
// hit the cache instead of the blog's feed endpoints.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/painori/painori/internal/feed"
	"github.com/painori/painori/internal/news"
)

// Archiver persists refreshed articles; nil-able bookkeeping sink.
type Archiver interface {
	ArchiveArticles(articles []feed.Article) error
	BumpRefreshStat(newsCount int, now time.Time) error
}

type Scheduler struct {
	cron     *cron.Cron
	blog     news.BlogFetcher
	cache    news.BlogCache
	archiver Archiver
}

func New(spec string, blog news.BlogFetcher, cache news.BlogCache, archiver Archiver) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:     c,
		blog:     blog,
		cache:    cache,
		archiver: archiver,
	}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// Delay the first refresh so it does not compete with the first
	// page loads right after a deploy.
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() {
		go s.runOnce()
	})
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunOnce is the manual-trigger entry used by cmd/refresh.
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

// runOnce fetches the blog feed and writes through the cache and the
// archive. Failures log and leave the previous cache entry in place; the
// next tick tries again.
func (s *Scheduler) runOnce() {
	log.Println("refresh: start blog refresh...")

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	articles, err := s.blog.Fetch(ctx)
	if err != nil {
		log.Printf("refresh: blog fetch error: %v", err)
		return
	}
	if len(articles) == 0 {
		log.Println("refresh: blog fetch returned 0 articles")
		return
	}

	s.cache.Put(ctx, articles)

	if s.archiver != nil {
		if err := s.archiver.ArchiveArticles(articles); err != nil {
			log.Printf("refresh: archive error: %v", err)
		}
		if err := s.archiver.BumpRefreshStat(len(articles), time.Now()); err != nil {
			log.Printf("refresh: stats error: %v", err)
		}
	}

	log.Printf("refresh: done, cached %d articles", len(articles))
}
