package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Giraffe0925/ai-trend-viewer/internal/article"
)

const arxivAPIURL = "http://export.arxiv.org/api/query"

// ArxivFetcher pulls recent papers for one arXiv category. The API returns
// an Atom payload that is frequently not well-formed, so fields are
// extracted by scanning for literal open/close tags per <entry> record
// instead of strict XML decoding.
type ArxivFetcher struct {
	client  *http.Client
	baseURL string
}

func NewArxivFetcher() *ArxivFetcher {
	return &ArxivFetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: arxivAPIURL,
	}
}

// NewArxivFetcherWithBase is used by tests to point at a fake endpoint.
func NewArxivFetcherWithBase(base string) *ArxivFetcher {
	f := NewArxivFetcher()
	f.baseURL = base
	return f
}

// Fetch never raises past its boundary: any network or parse failure
// produces Success=false with an empty article list.
func (f *ArxivFetcher) Fetch(ctx context.Context, category string, maxResults int) article.FetchResult {
	if maxResults <= 0 {
		maxResults = 5
	}

	q := url.Values{}
	q.Set("search_query", "cat:"+category)
	q.Set("start", "0")
	q.Set("max_results", fmt.Sprintf("%d", maxResults))
	q.Set("sortBy", "submittedDate")
	q.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return article.FetchResult{Err: err.Error()}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return article.FetchResult{Err: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return article.FetchResult{Err: fmt.Sprintf("arxiv API status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return article.FetchResult{Err: err.Error()}
	}

	return article.FetchResult{
		Success:  true,
		Articles: parseArxivEntries(string(body), category),
	}
}

func parseArxivEntries(payload, category string) []article.Article {
	entries := strings.Split(payload, "<entry>")
	var articles []article.Article

	// First split is the feed header.
	for _, entry := range entries[1:] {
		title := tagText(entry, "title")
		id := tagText(entry, "id")
		if title == "" || id == "" {
			continue
		}

		summary := tagText(entry, "summary")
		published := tagText(entry, "published")
		if published == "" {
			published = time.Now().UTC().Format(time.RFC3339)
		}

		// The <id> is the canonical /abs/ detail URL; link directly to the
		// PDF for reading convenience.
		absURL := id
		pdfURL := strings.Replace(absURL, "/abs/", "/pdf/", 1)

		articles = append(articles, article.Article{
			ID:              absURL,
			Title:           strings.Join(strings.Fields(title), " "),
			Source:          article.SourceArxiv,
			URL:             pdfURL,
			Summary:         summary,
			PublishedAt:     published,
			Author:          firstAuthor(entry),
			Category:        CategoryLabel(category),
			OriginalContent: summary,
		})
	}
	return articles
}

// tagText returns the trimmed text between the first literal <tag> and
// </tag> pair, or "" when either is missing.
func tagText(s, tag string) string {
	open := "<" + tag + ">"
	close := "</" + tag + ">"
	i := strings.Index(s, open)
	if i < 0 {
		return ""
	}
	rest := s[i+len(open):]
	j := strings.Index(rest, close)
	if j < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:j])
}

func firstAuthor(entry string) string {
	i := strings.Index(entry, "<author>")
	if i < 0 {
		return ""
	}
	return tagText(entry[i:], "name")
}
