package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func rssPayload(items int) string {
	body := `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Test Feed</title>`
	for i := 0; i < items; i++ {
		body += fmt.Sprintf(`<item>
			<title>Item %d</title>
			<link>https://example.com/post-%d</link>
			<guid>post-%d</guid>
			<description>Description %d</description>
			<pubDate>Wed, 08 Jan 2025 10:00:00 +0000</pubDate>
		</item>`, i, i, i, i)
	}
	return body + `</channel></rss>`
}

func TestRSSFetchMapsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssPayload(2)))
	}))
	defer srv.Close()

	f := NewRSSFetcher()
	res := f.Fetch(context.Background(), srv.URL, "Science")

	if !res.Success {
		t.Fatalf("expected success, got %q", res.Err)
	}
	if len(res.Articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(res.Articles))
	}

	a := res.Articles[0]
	if a.ID != "post-0" {
		t.Errorf("id = %q, want guid", a.ID)
	}
	if a.Category != "Science" {
		t.Errorf("category = %q, want Science", a.Category)
	}
	if a.Summary != "Description 0" {
		t.Errorf("summary = %q", a.Summary)
	}
	if a.PublishedAt == "" {
		t.Error("expected publishedAt set")
	}
}

func TestRSSFetchLimitsToFive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssPayload(9)))
	}))
	defer srv.Close()

	f := NewRSSFetcher()
	res := f.Fetch(context.Background(), srv.URL, "Science")

	if !res.Success {
		t.Fatalf("expected success, got %q", res.Err)
	}
	if len(res.Articles) != 5 {
		t.Errorf("expected feed capped at 5 entries, got %d", len(res.Articles))
	}
}

func TestRSSFetchParseFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a feed"))
	}))
	defer srv.Close()

	f := NewRSSFetcher()
	res := f.Fetch(context.Background(), srv.URL, "Science")

	if res.Success {
		t.Error("expected failure for unparsable payload")
	}
	if len(res.Articles) != 0 {
		t.Errorf("expected empty article list, got %d", len(res.Articles))
	}
	if res.Err == "" {
		t.Error("expected stringified error")
	}
}
