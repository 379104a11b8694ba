package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/Giraffe0925/ai-trend-viewer/internal/config"
	"github.com/Giraffe0925/ai-trend-viewer/internal/server"
	"github.com/Giraffe0925/ai-trend-viewer/internal/store"
)

var flagCron string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reader API, podcast feed and audio files",
	Long: `Start the HTTP server exposing /api/articles, /podcast/feed.xml and the
narrated audio under /audio/. With --cron, pipeline cycles also run on the
given schedule while the server is up.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagCron, "cron", "", `cron schedule for automatic updates (e.g. "0 7 * * *")`)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st := store.New(cfg.DataFilePath())
	srv := server.New(cfg, st, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagCron != "" {
		// Skip a tick if the previous cycle is still running.
		c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
		if _, err := c.AddFunc(flagCron, func() { runScheduledCycle(ctx, cfg, st) }); err != nil {
			return fmt.Errorf("invalid cron schedule %q: %w", flagCron, err)
		}
		c.Start()
		defer c.Stop()
		logger.Info("scheduled updates enabled", "schedule", flagCron, "narrate", cfg.NarrateOnCron)
	}

	logger.Info("listening", "addr", cfg.Addr())
	return srv.Start(ctx)
}

// runScheduledCycle is one cron tick: a full update cycle, then narration
// of the newest episode-less article when configured. Errors are logged;
// a failed cycle never takes the server down.
func runScheduledCycle(ctx context.Context, cfg *config.Config, st *store.Store) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	existing, err := st.Load()
	if err != nil {
		logger.Warn("store unreadable, starting from empty collection", "err", err)
	}

	merged, report, err := newRunner(cfg, st).Run(ctx, existing)
	if err != nil {
		logger.Error("scheduled update failed", "err", err)
		return
	}
	logger.Info("scheduled update complete", "fetched", report.Fetched, "new", report.New, "stored", report.Stored)

	if !cfg.NarrateOnCron || report.New == 0 {
		return
	}
	targets := store.WithoutAudio(merged)
	if len(targets) > 1 {
		targets = targets[:1]
	}
	if _, err := narrateArticles(ctx, cfg, st, merged, targets); err != nil {
		logger.Error("scheduled narration failed", "err", err)
	}
}
