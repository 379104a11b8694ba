package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query Results</title>
  <entry>
    <id>http://arxiv.org/abs/2501.01234v1</id>
    <title>Deep Learning for
 Everything</title>
    <summary>We propose a method.</summary>
    <published>2025-01-10T12:00:00Z</published>
    <author>
      <name>Alice Example</name>
    </author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2501.05678v2</id>
    <title>Second Paper</title>
    <summary>Another abstract.</summary>
    <published>2025-01-09T08:00:00Z</published>
    <author>
      <name>Bob Example</name>
    </author>
  </entry>
  <entry>
    <title>Entry With No ID Is Skipped</title>
    <summary>orphan</summary>
  </entry>
</feed>`

func TestParseArxivEntries(t *testing.T) {
	articles := parseArxivEntries(sampleAtom, "cs.AI")

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles (record missing id skipped), got %d", len(articles))
	}

	a := articles[0]
	if a.ID != "http://arxiv.org/abs/2501.01234v1" {
		t.Errorf("id = %q, want abs URL", a.ID)
	}
	if a.URL != "http://arxiv.org/pdf/2501.01234v1" {
		t.Errorf("url = %q, want pdf form", a.URL)
	}
	if a.Title != "Deep Learning for Everything" {
		t.Errorf("title = %q, want newline collapsed", a.Title)
	}
	if a.Author != "Alice Example" {
		t.Errorf("author = %q", a.Author)
	}
	if a.Category != "AI" {
		t.Errorf("category = %q, want AI", a.Category)
	}
	if a.OriginalContent != "We propose a method." {
		t.Errorf("originalContent = %q", a.OriginalContent)
	}
}

func TestParseArxivEntriesEmptyPayload(t *testing.T) {
	if got := parseArxivEntries("", "cs.AI"); len(got) != 0 {
		t.Errorf("expected no articles from empty payload, got %d", len(got))
	}
	if got := parseArxivEntries("<feed><title>no entries</title></feed>", "cs.AI"); len(got) != 0 {
		t.Errorf("expected no articles from entry-less payload, got %d", len(got))
	}
}

func TestArxivFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search_query"); got != "cat:cs.AI" {
			t.Errorf("search_query = %q", got)
		}
		if got := r.URL.Query().Get("max_results"); got != "3" {
			t.Errorf("max_results = %q", got)
		}
		w.Write([]byte(sampleAtom))
	}))
	defer srv.Close()

	f := NewArxivFetcherWithBase(srv.URL)
	res := f.Fetch(context.Background(), "cs.AI", 3)

	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Err)
	}
	if len(res.Articles) != 2 {
		t.Errorf("expected 2 articles, got %d", len(res.Articles))
	}
}

func TestArxivFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewArxivFetcherWithBase(srv.URL)
	res := f.Fetch(context.Background(), "cs.AI", 3)

	if res.Success {
		t.Error("expected failure on 500")
	}
	if len(res.Articles) != 0 {
		t.Errorf("expected empty article list, got %d", len(res.Articles))
	}
	if !strings.Contains(res.Err, "500") {
		t.Errorf("expected stringified status in error, got %q", res.Err)
	}
}

func TestTagText(t *testing.T) {
	tests := []struct {
		input string
		tag   string
		want  string
	}{
		{"<title>Hello</title>", "title", "Hello"},
		{"<title>  padded  </title>", "title", "padded"},
		{"<title>unclosed", "title", ""},
		{"no tag at all", "title", ""},
		{"<summary>a</summary><title>b</title>", "title", "b"},
	}
	for _, tt := range tests {
		if got := tagText(tt.input, tt.tag); got != tt.want {
			t.Errorf("tagText(%q, %q) = %q, want %q", tt.input, tt.tag, got, tt.want)
		}
	}
}

func TestCategoryLabel(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"cs.AI", "AI"},
		{"cs.LG", "AI"},
		{"stat.ML", "AI"},
		{"q-bio.NC", "認知科学"},
		{"physics.hist-ph", "哲学"},
		{"econ.GN", "経済学"},
		{"cs.CY", "社会"},
		{"math.CO", "Science"},
		{"", "Science"},
	}
	for _, tt := range tests {
		if got := CategoryLabel(tt.code); got != tt.want {
			t.Errorf("CategoryLabel(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
