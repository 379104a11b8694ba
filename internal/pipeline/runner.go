// Package pipeline orchestrates one update cycle: fetch from all enabled
// sources, drop known articles, enrich, illustrate and publish the rest.
package pipeline

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/Giraffe0925/ai-trend-viewer/internal/article"
	"github.com/Giraffe0925/ai-trend-viewer/internal/config"
	"github.com/Giraffe0925/ai-trend-viewer/internal/dedup"
	"github.com/Giraffe0925/ai-trend-viewer/internal/illustrate"
)

// ArxivFetcher fetches one arXiv category.
type ArxivFetcher interface {
	Fetch(ctx context.Context, category string, maxResults int) article.FetchResult
}

// RSSFetcher fetches one syndication feed.
type RSSFetcher interface {
	Fetch(ctx context.Context, url, category string) article.FetchResult
}

// Enricher adds the Japanese LLM-generated fields to one article.
type Enricher interface {
	Enrich(ctx context.Context, a article.Article) article.Article
}

// Illustrator finds a cover photo and per-suggestion visuals.
type Illustrator interface {
	CoverImage(ctx context.Context, tags []string, category string) string
	VisualImages(ctx context.Context, suggestions []string) []string
}

// Publisher lands the cycle's output in the store and announces it.
type Publisher interface {
	Publish(ctx context.Context, existing, added []article.Article) ([]article.Article, error)
}

// Report summarizes one update cycle.
type Report struct {
	Fetched       int
	New           int
	Enriched      int
	FailedSources int
	Stored        int
}

// Runner wires the pipeline stages together. Enricher and Illustrator may
// be nil when their API keys are missing; those stages are skipped with a
// warning and the raw articles flow through.
type Runner struct {
	Config      *config.Config
	Arxiv       ArxivFetcher
	RSS         RSSFetcher
	Enricher    Enricher
	Illustrator Illustrator
	Publisher   Publisher
	Logger      *log.Logger
}

// Run executes one full cycle against the existing collection and returns
// the merged result alongside a report. Individual source failures are
// counted, logged and skipped; the cycle only fails when the final save
// does.
func (r *Runner) Run(ctx context.Context, existing []article.Article) ([]article.Article, Report, error) {
	var report Report

	fetched := r.fetchAll(ctx, &report)
	report.Fetched = len(fetched)

	fresh := dedup.NewArticles(fetched, existing)
	report.New = len(fresh)
	r.Logger.Info("fetch complete", "fetched", len(fetched), "new", len(fresh), "failed_sources", report.FailedSources)

	if len(fresh) == 0 {
		report.Stored = len(existing)
		return existing, report, nil
	}

	processed := r.process(ctx, fresh, &report)

	merged, err := r.Publisher.Publish(ctx, existing, processed)
	if err != nil {
		return nil, report, err
	}
	report.Stored = len(merged)
	return merged, report, nil
}

// fetchAll queries every enabled source in config order. A failed source
// never aborts the cycle.
func (r *Runner) fetchAll(ctx context.Context, report *Report) []article.Article {
	var out []article.Article

	for _, src := range r.Config.EnabledArxiv() {
		res := r.Arxiv.Fetch(ctx, src.Category, src.MaxResults)
		if !res.Success {
			r.Logger.Warn("arxiv source failed", "category", src.Category, "err", res.Err)
			report.FailedSources++
			continue
		}
		out = append(out, res.Articles...)
	}

	for _, src := range r.Config.EnabledRSS() {
		res := r.RSS.Fetch(ctx, src.URL, src.Category)
		if !res.Success {
			r.Logger.Warn("rss source failed", "name", src.Name, "err", res.Err)
			report.FailedSources++
			continue
		}
		out = append(out, res.Articles...)
	}

	return out
}

// process enriches and illustrates each new article, pacing provider calls
// at one article per configured interval.
func (r *Runner) process(ctx context.Context, fresh []article.Article, report *Report) []article.Article {
	limiter := rate.NewLimiter(rate.Every(r.Config.ArticleDelayDuration()), 1)

	out := make([]article.Article, 0, len(fresh))
	for _, a := range fresh {
		if err := limiter.Wait(ctx); err != nil {
			r.Logger.Warn("pipeline interrupted", "err", err)
			out = append(out, a)
			continue
		}

		if r.Enricher != nil {
			enriched := r.Enricher.Enrich(ctx, a)
			if enriched.TitleJa != "" {
				report.Enriched++
			}
			a = enriched
		} else {
			r.Logger.Warn("LLM key missing, skipping enrichment", "id", a.ID)
		}

		r.illustrate(ctx, &a)
		out = append(out, a)
	}
	return out
}

func (r *Runner) illustrate(ctx context.Context, a *article.Article) {
	if r.Illustrator == nil {
		r.Logger.Warn("pexels key missing, using fallback image", "id", a.ID)
		a.ImageURL = illustrate.FallbackImageURL(a.ID)
		return
	}

	if img := r.Illustrator.CoverImage(ctx, a.Tags, a.Category); img != "" {
		a.ImageURL = img
	} else {
		a.ImageURL = illustrate.FallbackImageURL(a.ID)
	}

	if len(a.VisualSuggestions) > 0 {
		a.VisualImages = r.Illustrator.VisualImages(ctx, a.VisualSuggestions)
	}
}
