package fetch

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/Giraffe0925/ai-trend-viewer/internal/article"
)

// rssEntryLimit caps how many entries of one feed enter the pipeline.
const rssEntryLimit = 5

// RSSFetcher maps syndication feed entries to the common article shape.
type RSSFetcher struct {
	parser *gofeed.Parser
}

func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser()}
}

// Fetch never raises past its boundary: parse failures produce
// Success=false with an empty article list. Fields missing in the feed
// fall back to empty string or the current timestamp.
func (f *RSSFetcher) Fetch(ctx context.Context, url, category string) article.FetchResult {
	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return article.FetchResult{Err: err.Error()}
	}

	items := feed.Items
	if len(items) > rssEntryLimit {
		items = items[:rssEntryLimit]
	}

	articles := make([]article.Article, 0, len(items))
	for _, item := range items {
		id := item.GUID
		if id == "" {
			id = item.Link
		}
		if id == "" {
			continue
		}

		title := item.Title
		if title == "" {
			title = "No Title"
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		published := item.Published
		if published == "" {
			if item.PublishedParsed != nil {
				published = item.PublishedParsed.Format(time.RFC3339)
			} else {
				published = time.Now().UTC().Format(time.RFC3339)
			}
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}

		var author string
		if item.Author != nil {
			author = item.Author.Name
		}

		articles = append(articles, article.Article{
			ID:              id,
			Title:           title,
			Source:          article.SourceRSS,
			URL:             item.Link,
			Summary:         summary,
			PublishedAt:     published,
			Author:          author,
			Category:        category,
			OriginalContent: content,
		})
	}

	return article.FetchResult{Success: true, Articles: articles}
}
