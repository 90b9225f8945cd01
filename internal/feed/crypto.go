package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	cryptoClientTimeout    = 10 * time.Second
	cryptoMaxResponseBytes = 1 << 20 // 1MB
)

// CryptoFetcher pulls category-filtered news from a CryptoCompare style
// API. Malformed or empty responses come back as an empty list, never as
// a panic; transport errors are returned for the caller to absorb.
type CryptoFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewCryptoFetcher(baseURL string) *CryptoFetcher {
	return &CryptoFetcher{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: cryptoClientTimeout},
	}
}

type cryptoEnvelope struct {
	Data []cryptoRecord `json:"Data"`
}

type cryptoRecord struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	URL         string `json:"url"`
	GUID        string `json:"guid"`
	Source      string `json:"source"`
	PublishedOn int64  `json:"published_on"`
}

// Fetch returns normalized articles for the given comma-separated
// category filter. Records without a usable title or link are dropped.
func (f *CryptoFetcher) Fetch(ctx context.Context, categories string) ([]Article, error) {
	endpoint := fmt.Sprintf("%s/data/v2/news/?lang=EN&categories=%s", f.BaseURL, url.QueryEscape(categories))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("crypto: build request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crypto: fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crypto: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, cryptoMaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("crypto: read body: %w", err)
	}

	var envelope cryptoEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		// Shape deviation degrades to "no data", not an error the
		// pipeline has to distinguish from an empty feed.
		log.Printf("crypto: malformed response (%d bytes): %v", len(body), err)
		return nil, nil
	}

	if len(envelope.Data) == 0 {
		log.Printf("crypto: empty Data array for categories %q", categories)
		return nil, nil
	}

	now := time.Now()
	out := make([]Article, 0, len(envelope.Data))
	for _, rec := range envelope.Data {
		if strings.TrimSpace(rec.Title) == "" {
			continue
		}
		link := rec.URL
		if link == "" {
			link = rec.GUID
		}
		if link == "" {
			continue
		}

		source := rec.Source
		if source == "" {
			source = "Unknown"
		}

		published := now
		if rec.PublishedOn > 0 {
			published = time.Unix(rec.PublishedOn, 0).UTC()
		}

		out = append(out, Article{
			Title:       rec.Title,
			Description: rec.Body,
			URL:         link,
			SourceName:  source,
			PublishedAt: published,
		})
	}

	return out, nil
}
