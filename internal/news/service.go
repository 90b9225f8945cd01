// Package news orchestrates the Painori feeds: a broad crypto feed and
// a Pi-relevant feed that prefers the project's own blog and falls back
// to relevance-filtered generic news.
package news

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/painori/painori/internal/feed"
	"github.com/painori/painori/internal/relevance"
)

// Source labels returned to the UI so it can show where a feed came from.
const (
	SourceSyndicated = "syndicated"
	SourceFallback   = "fallback-filtered"
)

// Category filters sent to the generic news API.
const (
	CryptoCategories     = "BTC,ETH,Market,Exchange"
	PiFallbackCategories = "Blockchain,Technology,Mining,Altcoin,General"
)

// backfillKeywords are the loose secondary terms used to top up the Pi
// feed when too few articles clear the relevance bar.
var backfillKeywords = []string{
	"mobile", "mining", "blockchain", "cryptocurrency", "digital currency",
	"crypto wallet", "decentralized", "consensus", "node", "mining pool",
}

// Limits are the pipeline's tunable thresholds. The defaults are the
// production values; they shape ranking, not correctness.
type Limits struct {
	MinRelevance  int // minimum score to survive the filter
	PrimarySlice  int // scored articles taken before backfill
	BackfillFloor int // soft minimum the backfill tops up to
	MaxResults    int // hard cap on every response
}

func DefaultLimits() Limits {
	return Limits{
		MinRelevance:  5,
		PrimarySlice:  8,
		BackfillFloor: 5,
		MaxResults:    10,
	}
}

// BlogCache is the single-key cache in front of the blog fetch.
type BlogCache interface {
	Get(ctx context.Context) []feed.Article
	Put(ctx context.Context, articles []feed.Article)
}

// BlogFetcher probes the blog's syndication feed.
type BlogFetcher interface {
	Fetch(ctx context.Context) ([]feed.Article, error)
}

// CryptoFetcher queries the generic news API by category.
type CryptoFetcher interface {
	Fetch(ctx context.Context, categories string) ([]feed.Article, error)
}

// Result is the envelope every query-surface operation returns. On any
// internal failure Success is false and Data is empty; callers never see
// an error value from this layer.
type Result struct {
	Success     bool           `json:"success"`
	Data        []feed.Article `json:"data"`
	Timestamp   time.Time      `json:"timestamp"`
	Count       int            `json:"count"`
	Source      string         `json:"source,omitempty"`
	CacheStatus string         `json:"cacheStatus,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// Status reports cache and live-feed health for diagnostics.
type Status struct {
	Cache struct {
		Available bool `json:"available"`
		Count     int  `json:"count"`
	} `json:"cache"`
	Feed struct {
		Available bool   `json:"available"`
		Count     int    `json:"count"`
		TestURL   string `json:"testUrl,omitempty"`
	} `json:"feed"`
	Timestamp time.Time `json:"timestamp"`
}

type Service struct {
	cache  BlogCache
	blog   BlogFetcher
	crypto CryptoFetcher
	limits Limits
	now    func() time.Time
}

func NewService(cache BlogCache, blog BlogFetcher, crypto CryptoFetcher, limits Limits) *Service {
	if limits.MaxResults <= 0 {
		limits = DefaultLimits()
	}
	return &Service{
		cache:  cache,
		blog:   blog,
		crypto: crypto,
		limits: limits,
		now:    time.Now,
	}
}

// CryptoNews returns the broad market feed: one category-filtered fetch
// capped to MaxResults, no scoring or fallback.
func (s *Service) CryptoNews(ctx context.Context) Result {
	articles, err := s.crypto.Fetch(ctx, CryptoCategories)
	if err != nil {
		log.Printf("news: crypto feed error: %v", err)
		return s.failure("failed to fetch crypto news")
	}

	if len(articles) > s.limits.MaxResults {
		articles = articles[:s.limits.MaxResults]
	}
	return s.success(articles, "")
}

// PiNews returns the project-relevant feed. Preference order: fresh
// cached blog articles, a live blog fetch (written through the cache),
// then relevance-filtered generic news with a loose-keyword backfill.
func (s *Service) PiNews(ctx context.Context) Result {
	if cached := s.cache.Get(ctx); len(cached) > 0 {
		return s.success(cached, SourceSyndicated)
	}

	blogArticles, err := s.blog.Fetch(ctx)
	if err != nil {
		log.Printf("news: blog fetch failed, using fallback: %v", err)
	}
	if len(blogArticles) > 0 {
		s.cache.Put(ctx, blogArticles)
		return s.success(blogArticles, SourceSyndicated)
	}

	final := s.fallbackFeed(ctx)
	if len(final) == 0 {
		return s.failure("no pi news available")
	}
	return s.success(final, SourceFallback)
}

// fallbackFeed is steps 3-8 of the pipeline: fetch broad-domain news,
// score, filter, sort, slice, backfill, cap.
func (s *Service) fallbackFeed(ctx context.Context) []feed.Article {
	raw, err := s.crypto.Fetch(ctx, PiFallbackCategories)
	if err != nil {
		log.Printf("news: fallback fetch error: %v", err)
		return nil
	}

	scored := make([]feed.Article, 0, len(raw))
	for _, a := range raw {
		a.Relevance = relevance.Score(a)
		if a.Relevance >= s.limits.MinRelevance {
			scored = append(scored, a)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Relevance != scored[j].Relevance {
			return scored[i].Relevance > scored[j].Relevance
		}
		return scored[i].PublishedAt.After(scored[j].PublishedAt)
	})

	final := scored
	if len(final) > s.limits.PrimarySlice {
		final = final[:s.limits.PrimarySlice]
	}

	if len(final) < s.limits.BackfillFloor {
		final = append(final, s.backfill(raw, final)...)
	}

	if len(final) > s.limits.MaxResults {
		final = final[:s.limits.MaxResults]
	}
	return final
}

// backfill selects loosely matching articles from the unfiltered fetch,
// newest first, skipping URLs already chosen, until the floor is met.
func (s *Service) backfill(raw, selected []feed.Article) []feed.Article {
	seen := make(map[string]struct{}, len(selected))
	for _, a := range selected {
		seen[a.URL] = struct{}{}
	}

	candidates := make([]feed.Article, 0, len(raw))
	for _, a := range raw {
		if _, ok := seen[a.URL]; ok {
			continue
		}
		if matchesAnyKeyword(a) {
			candidates = append(candidates, a)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PublishedAt.After(candidates[j].PublishedAt)
	})

	need := s.limits.BackfillFloor - len(selected)
	if need > len(candidates) {
		need = len(candidates)
	}
	if need <= 0 {
		return nil
	}
	log.Printf("news: backfilled %d loosely matching articles", need)
	return candidates[:need]
}

func matchesAnyKeyword(a feed.Article) bool {
	title := strings.ToLower(a.Title)
	description := strings.ToLower(a.Description)
	for _, kw := range backfillKeywords {
		if strings.Contains(title, kw) || strings.Contains(description, kw) {
			return true
		}
	}
	return false
}

// BlogNews serves only the blog feed: cached articles when fresh,
// otherwise a live fetch written through the cache.
func (s *Service) BlogNews(ctx context.Context) Result {
	if cached := s.cache.Get(ctx); len(cached) > 0 {
		res := s.success(cached, SourceSyndicated)
		res.CacheStatus = "cached"
		return res
	}

	articles, err := s.blog.Fetch(ctx)
	if err != nil || len(articles) == 0 {
		log.Printf("news: blog-only fetch failed: %v", err)
		return s.failure("failed to fetch blog news")
	}
	s.cache.Put(ctx, articles)

	res := s.success(articles, SourceSyndicated)
	res.CacheStatus = "fresh"
	return res
}

// FeedStatus probes both the cache and the live feed for diagnostics.
func (s *Service) FeedStatus(ctx context.Context) Status {
	var st Status
	st.Timestamp = s.now()

	if cached := s.cache.Get(ctx); len(cached) > 0 {
		st.Cache.Available = true
		st.Cache.Count = len(cached)
	}

	fresh, err := s.blog.Fetch(ctx)
	if err != nil {
		log.Printf("news: status probe failed: %v", err)
		return st
	}
	st.Feed.Available = len(fresh) > 0
	st.Feed.Count = len(fresh)
	if len(fresh) > 0 {
		st.Feed.TestURL = fresh[0].FeedURL
	}
	return st
}

func (s *Service) success(articles []feed.Article, source string) Result {
	if articles == nil {
		articles = []feed.Article{}
	}
	return Result{
		Success:   true,
		Data:      articles,
		Timestamp: s.now(),
		Count:     len(articles),
		Source:    source,
	}
}

func (s *Service) failure(msg string) Result {
	return Result{
		Success:   false,
		Data:      []feed.Article{},
		Timestamp: s.now(),
		Error:     msg,
	}
}
