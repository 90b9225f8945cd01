package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/painori/painori/internal/feed"
)

// Post is a message-board entry. PasswordHash is hex(SHA-256(pw+salt)),
// never the raw password.
type Post struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Nickname     string `gorm:"size:64;index" json:"nickname"`
	Content      string `gorm:"size:2000" json:"content"`
	PasswordHash string `gorm:"size:64" json:"-"`
	IsAdmin      bool   `json:"isAdmin"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ArchivedArticle is a persisted copy of a fetched blog article, kept
// for history and offline diagnostics. RawData holds source-specific
// fields (feed URL, original timestamps) as JSONB.
type ArchivedArticle struct {
	ID          string            `gorm:"primaryKey;size:40" json:"id"`
	Title       string            `gorm:"size:512" json:"title"`
	URL         string            `gorm:"size:1024;uniqueIndex" json:"url"`
	Source      string            `gorm:"size:64;index" json:"source"`
	Description string            `gorm:"size:2000" json:"description"`
	PublishedAt time.Time         `gorm:"index" json:"publishedAt"`
	RawData     datatypes.JSONMap `gorm:"type:jsonb" json:"rawData"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DailyStat accumulates per-day counters, keyed by UTC date.
type DailyStat struct {
	Date          string `gorm:"primaryKey;size:10" json:"date"` // 2006-01-02
	Visitors      int64  `json:"visitors"`
	TestnetClicks int64  `json:"testnetClicks"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// TotalStat is the single all-time counter row.
type TotalStat struct {
	ID            uint  `gorm:"primaryKey" json:"-"`
	Visitors      int64 `json:"visitors"`
	TestnetClicks int64 `json:"testnetClicks"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// VisitorMark deduplicates visits: one row per visitor per day.
type VisitorMark struct {
	ID        string    `gorm:"primaryKey;size:80"`
	CreatedAt time.Time `json:"-"`
}

// RefreshStat records the scheduled blog refresh bookkeeping.
type RefreshStat struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	LastUpdate  time.Time `json:"lastUpdate"`
	NewsCount   int       `json:"newsCount"`
	UpdateCount int64     `json:"updateCount"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Post{}, &ArchivedArticle{}, &DailyStat{}, &TotalStat{}, &VisitorMark{}, &RefreshStat{}); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping failed: %v", err)
	}

	return &Store{DB: db, Redis: rdb}, nil
}

// ArchiveArticles upserts fetched blog articles, idempotent by URL.
func (s *Store) ArchiveArticles(articles []feed.Article) error {
	for _, a := range articles {
		row := &ArchivedArticle{
			ID:          hashURL(a.URL),
			Title:       strings.TrimSpace(a.Title),
			URL:         a.URL,
			Source:      a.SourceName,
			Description: truncateRunes(a.Description, 2000),
			PublishedAt: a.PublishedAt,
			RawData: datatypes.JSONMap{
				"feedUrl":      a.FeedURL,
				"fromBlogFeed": a.FromBlogFeed,
				"publishedAt":  a.PublishedAt.Format(time.RFC3339),
			},
		}

		if err := s.DB.Where("url = ?", a.URL).FirstOrCreate(row).Error; err != nil {
			return err
		}
		_ = s.DB.Model(row).Updates(map[string]any{
			"title":        row.Title,
			"description":  row.Description,
			"published_at": row.PublishedAt,
		}).Error
	}
	return nil
}

// ListArchivedArticles returns the most recently published archive rows.
func (s *Store) ListArchivedArticles(limit int) ([]ArchivedArticle, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []ArchivedArticle
	err := s.DB.Order("published_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func hashURL(url string) string {
	h := sha1.New()
	h.Write([]byte(url))
	return hex.EncodeToString(h.Sum(nil))
}

// truncateRunes bounds a string by rune count so multi-byte text cannot
// overflow a varchar column.
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}
