// Package publish lands enriched articles in the store and announces them
// afterwards. Persistence always wins: an announcement failure never rolls
// back or blocks a save.
package publish

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/Giraffe0925/ai-trend-viewer/internal/article"
	"github.com/Giraffe0925/ai-trend-viewer/internal/store"
)

// Announcer posts one article to an external audience.
type Announcer interface {
	Post(ctx context.Context, a *article.Article) (string, error)
}

// Publisher merges pipeline output into the capped store.
type Publisher struct {
	Store     *store.Store
	Cap       int
	Announcer Announcer // nil disables announcements
	Logger    *log.Logger
}

// Publish merges the new articles with the existing collection, orders it
// newest first, evicts past the retention cap and saves. Announcements run
// only after a successful save, one per new article, best effort.
func (p *Publisher) Publish(ctx context.Context, existing, added []article.Article) ([]article.Article, error) {
	merged := make([]article.Article, 0, len(existing)+len(added))
	merged = append(merged, added...)
	merged = append(merged, existing...)

	store.SortByPublished(merged)
	merged = store.Truncate(merged, p.Cap)

	if err := p.Store.Save(merged); err != nil {
		return nil, err
	}
	p.Logger.Info("store saved", "articles", len(merged), "added", len(added), "path", p.Store.Path())

	p.announce(ctx, added)
	return merged, nil
}

func (p *Publisher) announce(ctx context.Context, added []article.Article) {
	if p.Announcer == nil || len(added) == 0 {
		return
	}
	for i := range added {
		a := &added[i]
		postID, err := p.Announcer.Post(ctx, a)
		if err != nil {
			p.Logger.Warn("announcement failed", "id", a.ID, "err", err)
			continue
		}
		p.Logger.Info("announced", "id", a.ID, "post", postID)
	}
}
