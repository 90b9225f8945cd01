package main

import (
	"log"

	"github.com/painori/painori/internal/config"
	"github.com/painori/painori/internal/feed"
	"github.com/painori/painori/internal/newscache"
	"github.com/painori/painori/internal/scheduler"
	"github.com/painori/painori/internal/storage"
)

// One-shot blog cache refresh, for manual triggering and deploy hooks.
func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	blogCache := newscache.New(store.Redis, newscache.DefaultFreshness)
	blogFetcher := feed.NewBlogFetcher(nil)

	s, err := scheduler.New(cfg.CronSpec, blogFetcher, blogCache, store)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}

	s.RunOnce()
}
