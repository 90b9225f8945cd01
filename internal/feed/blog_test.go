package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const rssTwoItems = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Pi Blog</title>
<item>
  <title>Mainnet progress</title>
  <link>https://minepi.com/blog/mainnet-progress</link>
  <description>An update on mainnet.</description>
  <pubDate>Mon, 12 Feb 2024 10:00:00 +0000</pubDate>
</item>
<item>
  <title>KYC milestones</title>
  <link>https://minepi.com/blog/kyc-milestones</link>
  <description>KYC numbers.</description>
  <pubDate>Sun, 11 Feb 2024 10:00:00 +0000</pubDate>
</item>
</channel></rss>`

const atomTwoEntries = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
<title>Pi Blog</title>
<entry>
  <title>Hackathon winners</title>
  <link href="https://minepi.com/blog/hackathon-winners"/>
  <summary>Winners announced.</summary>
  <updated>2024-02-12T10:00:00Z</updated>
</entry>
<entry>
  <title>Wallet release</title>
  <link href="https://minepi.com/blog/wallet-release"/>
  <summary>New wallet build.</summary>
  <updated>2024-02-11T10:00:00Z</updated>
</entry>
</feed>`

func TestBlogFetchTriesURLsInOrder(t *testing.T) {
	var hits []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		switch r.URL.Path {
		case "/blog/feed/":
			http.NotFound(w, r)
		case "/blog/rss.xml":
			if got := r.Header.Get("User-Agent"); !strings.Contains(got, "Painori RSS Reader") {
				t.Errorf("missing client identifier, got UA %q", got)
			}
			w.Write([]byte(rssTwoItems))
		default:
			t.Errorf("unexpected probe of %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	f := NewBlogFetcher([]string{ts.URL + "/blog/feed/", ts.URL + "/blog/rss.xml"})
	articles, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if want := []string{"/blog/feed/", "/blog/rss.xml"}; fmt.Sprint(hits) != fmt.Sprint(want) {
		t.Fatalf("probe order = %v, want %v", hits, want)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}

	a := articles[0]
	if a.Title != "Mainnet progress" || a.URL != "https://minepi.com/blog/mainnet-progress" {
		t.Fatalf("unexpected first article: %+v", a)
	}
	if !a.FromBlogFeed {
		t.Fatal("blog article must carry the blog-feed flag")
	}
	if a.SourceName != "Pi Network Blog" {
		t.Fatalf("SourceName = %q", a.SourceName)
	}
	if a.FeedURL != ts.URL+"/blog/rss.xml" {
		t.Fatalf("FeedURL should record the winning URL, got %q", a.FeedURL)
	}
	if a.PublishedAt.IsZero() {
		t.Fatal("pubDate not parsed")
	}
}

func TestBlogFetchParsesAtom(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(atomTwoEntries))
	}))
	defer ts.Close()

	f := NewBlogFetcher([]string{ts.URL + "/feed/"})
	articles, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	if articles[0].Title != "Hackathon winners" || articles[0].URL != "https://minepi.com/blog/hackathon-winners" {
		t.Fatalf("unexpected atom article: %+v", articles[0])
	}
}

func TestBlogFetchSkipsNonFeedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/html":
			// A 200 that is actually an HTML error page.
			w.Write([]byte("<!DOCTYPE html><html><body>not found</body></html>"))
		case "/rss":
			w.Write([]byte(rssTwoItems))
		}
	}))
	defer ts.Close()

	f := NewBlogFetcher([]string{ts.URL + "/html", ts.URL + "/rss"})
	articles, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("HTML candidate should be skipped, got %d articles", len(articles))
	}
	if articles[0].FeedURL != ts.URL+"/rss" {
		t.Fatalf("winning FeedURL = %q", articles[0].FeedURL)
	}
}

func TestBlogFetchCapsEntries(t *testing.T) {
	var items strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&items, `<item><title>Post %d</title><link>https://minepi.com/blog/%d</link><description>d</description></item>`, i, i)
	}
	body := `<?xml version="1.0"?><rss version="2.0"><channel><title>Pi Blog</title>` + items.String() + `</channel></rss>`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer ts.Close()

	f := NewBlogFetcher([]string{ts.URL})
	articles, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(articles) != blogMaxEntries {
		t.Fatalf("got %d articles, want cap %d", len(articles), blogMaxEntries)
	}
}

func TestBlogFetchAllURLsFail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	f := NewBlogFetcher([]string{ts.URL + "/a", ts.URL + "/b"})
	articles, err := f.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error when every candidate fails")
	}
	if len(articles) != 0 {
		t.Fatalf("got %d articles, want 0", len(articles))
	}
}
