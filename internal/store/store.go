// Package store persists the article collection as a single pretty-printed
// JSON array, read fully into memory and rewritten fully on save.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Giraffe0925/ai-trend-viewer/internal/article"
)

// Store reads and writes the posts.json collection at a fixed path.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted articles. A missing file or a decode failure
// is treated as "no existing data", never as a fatal error; the caller may
// inspect the returned error for logging.
func (s *Store) Load() ([]article.Article, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var articles []article.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	return articles, nil
}

// Save writes the full collection pretty-printed, via a temp file and
// rename so a crash mid-write cannot leave a truncated store.
func (s *Store) Save(articles []article.Article) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding articles: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// SortByPublished orders articles newest first. Unparsable timestamps sort
// last.
func SortByPublished(articles []article.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].ParsedTime().After(articles[j].ParsedTime())
	})
}

// Truncate keeps the cap most recently published articles. Input order is
// not assumed; eviction is always by oldest publishedAt.
func Truncate(articles []article.Article, cap int) []article.Article {
	if cap <= 0 || len(articles) <= cap {
		return articles
	}
	SortByPublished(articles)
	return articles[:cap]
}

// ByID returns the article with the given id, or nil.
func ByID(articles []article.Article, id string) *article.Article {
	for i := range articles {
		if articles[i].ID == id {
			return &articles[i]
		}
	}
	return nil
}

// WithoutAudio returns articles eligible for narration, newest first.
func WithoutAudio(articles []article.Article) []article.Article {
	sorted := make([]article.Article, len(articles))
	copy(sorted, articles)
	SortByPublished(sorted)

	var out []article.Article
	for _, a := range sorted {
		if !a.HasAudio() {
			out = append(out, a)
		}
	}
	return out
}

// WithAudio returns narrated articles, newest first.
func WithAudio(articles []article.Article) []article.Article {
	sorted := make([]article.Article, len(articles))
	copy(sorted, articles)
	SortByPublished(sorted)

	var out []article.Article
	for _, a := range sorted {
		if a.HasAudio() {
			out = append(out, a)
		}
	}
	return out
}

// Search filters by case-insensitive substring over title, translated
// title, summaries, tags and category. An empty query matches everything.
func Search(articles []article.Article, query string) []article.Article {
	if query == "" {
		return articles
	}
	q := strings.ToLower(query)

	var out []article.Article
	for _, a := range articles {
		if matches(&a, q) {
			out = append(out, a)
		}
	}
	return out
}

func matches(a *article.Article, q string) bool {
	for _, field := range []string{a.Title, a.TitleJa, a.Summary, a.SummaryJa, a.Category} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Stats reports collection size on disk and article/episode counts.
func (s *Store) Stats() (count, narrated int, size int64, err error) {
	articles, err := s.Load()
	if err != nil {
		return 0, 0, 0, err
	}
	for _, a := range articles {
		if a.HasAudio() {
			narrated++
		}
	}
	if fi, statErr := os.Stat(s.path); statErr == nil {
		size = fi.Size()
	}
	return len(articles), narrated, size, nil
}
