// Package dedup filters freshly fetched articles against the persisted set.
// Matching is by exact id only; near-duplicate titles are not detected.
package dedup

import "github.com/Giraffe0925/ai-trend-viewer/internal/article"

// NewArticles returns the fetched articles whose id is not already present
// in existing, preserving fetch order. Pure and idempotent.
func NewArticles(fetched, existing []article.Article) []article.Article {
	seen := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		seen[a.ID] = struct{}{}
	}

	var out []article.Article
	for _, a := range fetched {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		out = append(out, a)
	}
	return out
}
