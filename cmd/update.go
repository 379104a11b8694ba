package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Giraffe0925/ai-trend-viewer/internal/config"
	"github.com/Giraffe0925/ai-trend-viewer/internal/enrich"
	"github.com/Giraffe0925/ai-trend-viewer/internal/fetch"
	"github.com/Giraffe0925/ai-trend-viewer/internal/gemini"
	"github.com/Giraffe0925/ai-trend-viewer/internal/illustrate"
	"github.com/Giraffe0925/ai-trend-viewer/internal/pipeline"
	"github.com/Giraffe0925/ai-trend-viewer/internal/publish"
	"github.com/Giraffe0925/ai-trend-viewer/internal/store"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch, enrich and store new articles",
	Long: `Run one pipeline cycle: query every enabled arXiv category and RSS feed,
drop articles already in the store, enrich the rest with Japanese summaries,
attach cover images and save. Announcements to X run after a successful save
when credentials are configured.`,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st := store.New(cfg.DataFilePath())
	existing, err := st.Load()
	if err != nil {
		logger.Warn("store unreadable, starting from empty collection", "err", err)
	}

	runner := newRunner(cfg, st)
	_, report, err := runner.Run(cmd.Context(), existing)
	if err != nil {
		return fmt.Errorf("update cycle: %w", err)
	}

	fmt.Printf("Fetched %d article(s), %d new, %d enriched. Store now holds %d.\n",
		report.Fetched, report.New, report.Enriched, report.Stored)
	if report.FailedSources > 0 {
		fmt.Printf("%d source(s) failed; see log output.\n", report.FailedSources)
	}
	return nil
}

// newRunner assembles the pipeline from config. Stages whose API keys are
// missing stay nil; the runner skips them with a warning instead of
// failing.
func newRunner(cfg *config.Config, st *store.Store) *pipeline.Runner {
	var enricher pipeline.Enricher
	if key := cfg.GeminiKey(); key != "" {
		enricher = enrich.New(gemini.NewClient(key), cfg.CandidateModels(), logger)
	}

	var illustrator pipeline.Illustrator
	if key := cfg.PexelsKey(); key != "" {
		illustrator = illustrate.NewClient(key, logger)
	}

	var announcer publish.Announcer
	if cfg.AnnounceToX {
		tw := cfg.TwitterCreds()
		if tw.Configured() {
			announcer = publish.NewTwitterClient(tw.APIKey, tw.APISecret, tw.AccessToken, tw.AccessSecret, cfg.SiteURL)
		} else {
			logger.Warn("announce_to_x is on but X credentials are incomplete, skipping announcements")
		}
	}

	return &pipeline.Runner{
		Config:      cfg,
		Arxiv:       fetch.NewArxivFetcher(),
		RSS:         fetch.NewRSSFetcher(),
		Enricher:    enricher,
		Illustrator: illustrator,
		Publisher: &publish.Publisher{
			Store:     st,
			Cap:       cfg.Cap(),
			Announcer: announcer,
			Logger:    logger,
		},
		Logger: logger,
	}
}
