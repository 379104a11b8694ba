package article

import "time"

// Source identifies where an article was fetched from.
type Source string

const (
	SourceArxiv Source = "arxiv"
	SourceRSS   Source = "rss"
	SourceX     Source = "x"
	SourceOther Source = "other"
)

// Categories is the closed set of topic labels articles can carry.
var Categories = []string{"AI", "Science", "認知科学", "哲学", "経済学", "社会"}

// Article is the single persisted entity, flowing from raw fetch through
// enrichment, illustration and narration. JSON tags match the posts.json
// layout the web front-end reads.
type Article struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Source      Source `json:"source"`
	URL         string `json:"url"`
	Summary     string `json:"summary"`
	PublishedAt string `json:"publishedAt"`
	Author      string `json:"author,omitempty"`

	// Raw text fed to the LLM; not rendered anywhere.
	OriginalContent string `json:"originalContent,omitempty"`

	// Enrichment fields, each populated best-effort.
	TitleJa           string   `json:"titleJa,omitempty"`
	SummaryJa         string   `json:"summaryJa,omitempty"`
	ExplanationJa     string   `json:"explanationJa,omitempty"`
	TranslationJa     string   `json:"translationJa,omitempty"`
	InsightJa         string   `json:"insightJa,omitempty"`
	RecommendedBooks  []string `json:"recommendedBooks,omitempty"`
	ImageURL          string   `json:"imageUrl,omitempty"`
	Category          string   `json:"category,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	VisualSuggestions []string `json:"visualSuggestions,omitempty"`
	VisualImages      []string `json:"visualImages,omitempty"`
	AudioURL          string   `json:"audioUrl,omitempty"`
}

// ParsedTime returns PublishedAt as a time.Time, or the zero time if it
// cannot be parsed. Sorting treats unparsable timestamps as oldest.
func (a *Article) ParsedTime() time.Time {
	for _, layout := range []string{time.RFC3339, time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822} {
		if t, err := time.Parse(layout, a.PublishedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DisplayTitle prefers the Japanese title when enrichment produced one.
func (a *Article) DisplayTitle() string {
	if a.TitleJa != "" {
		return a.TitleJa
	}
	return a.Title
}

// DisplaySummary prefers the Japanese summary when enrichment produced one.
func (a *Article) DisplaySummary() string {
	if a.SummaryJa != "" {
		return a.SummaryJa
	}
	return a.Summary
}

// HasAudio reports whether narration already produced an episode. Once set,
// audioUrl is immutable and the article is skipped by the narrator.
func (a *Article) HasAudio() bool {
	return a.AudioURL != ""
}

// FetchResult is the never-raising boundary type returned by fetchers.
// Network or parse failures produce Success=false with an empty list.
type FetchResult struct {
	Success  bool
	Articles []Article
	Err      string
}
