package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Giraffe0925/ai-trend-viewer/internal/article"
	"github.com/Giraffe0925/ai-trend-viewer/internal/audiofx"
	"github.com/Giraffe0925/ai-trend-viewer/internal/config"
	"github.com/Giraffe0925/ai-trend-viewer/internal/gemini"
	"github.com/Giraffe0925/ai-trend-viewer/internal/podcast"
	"github.com/Giraffe0925/ai-trend-viewer/internal/store"
)

var (
	flagNarrateLimit int
	flagNarrateAll   bool
	flagNarrateID    string
	flagBGM          string
)

var narrateCmd = &cobra.Command{
	Use:   "narrate",
	Short: "Generate podcast episodes for stored articles",
	Long: `Turn stored articles into two-speaker podcast episodes: an LLM writes the
dialogue, TTS voices it and ffmpeg adjusts speed and volume. Without flags
the newest article lacking audio is narrated.`,
	RunE: runNarrate,
}

func init() {
	narrateCmd.Flags().IntVar(&flagNarrateLimit, "limit", 1, "number of articles to narrate, newest first")
	narrateCmd.Flags().BoolVar(&flagNarrateAll, "all", false, "narrate every stored article lacking audio")
	narrateCmd.Flags().StringVar(&flagNarrateID, "id", "", "narrate one specific article by id")
	narrateCmd.Flags().StringVar(&flagBGM, "bgm", "", "background music file to mix under the narration")
}

func runNarrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st := store.New(cfg.DataFilePath())
	articles, err := st.Load()
	if err != nil {
		logger.Warn("store unreadable", "err", err)
	}
	if len(articles) == 0 {
		fmt.Println("Store is empty; run update first.")
		return nil
	}

	targets, err := narrateTargets(articles, flagNarrateID, flagNarrateLimit, flagNarrateAll)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Println("Every stored article is already narrated.")
		return nil
	}

	narrated, err := narrateArticles(cmd.Context(), cfg, st, articles, targets)
	if err != nil {
		return err
	}
	fmt.Printf("Narrated %d of %d article(s).\n", narrated, len(targets))
	return nil
}

// narrateTargets selects which articles to narrate: one by id, or the
// episode-less articles newest first, capped at limit unless all is set.
func narrateTargets(articles []article.Article, id string, limit int, all bool) ([]article.Article, error) {
	if id != "" {
		a := store.ByID(articles, id)
		if a == nil {
			return nil, fmt.Errorf("no article with id %q", id)
		}
		return []article.Article{*a}, nil
	}

	targets := store.WithoutAudio(articles)
	if !all && len(targets) > limit {
		targets = targets[:limit]
	}
	return targets, nil
}

// narrateArticles runs the narrator over the targets and saves the store
// once when any episode landed. Per-article failures are logged and
// skipped.
func narrateArticles(ctx context.Context, cfg *config.Config, st *store.Store, all, targets []article.Article) (int, error) {
	key := cfg.GeminiKey()
	if key == "" {
		return 0, fmt.Errorf("narration needs a Gemini API key (set GEMINI_API_KEY or llm.api_key)")
	}
	client := gemini.NewClient(key)

	narrator := &podcast.Narrator{
		Gen:         client,
		Speech:      client,
		Proc:        audiofx.NewProcessor(logger),
		AudioDir:    cfg.AudioDirPath(),
		ScriptModel: cfg.CandidateModels()[0],
		Speed:       cfg.Podcast.Speed,
		Volume:      cfg.Podcast.Volume,
		BGMPath:     flagBGM,
		BGMVolume:   cfg.Podcast.BGMVolume,
		Logger:      logger,
	}
	if cfg.Podcast.PerTurn {
		if ttsKey := cfg.TTSKey(); ttsKey != "" {
			narrator.Turns = podcast.NewCloudTTS(ttsKey, cfg.TurnDelay(), logger)
		} else {
			logger.Warn("per-turn synthesis configured but Cloud TTS key missing, using multi-speaker synthesis")
		}
	}

	narrated := 0
	for i := range targets {
		audioURL, err := narrator.Narrate(ctx, &targets[i])
		if err != nil {
			logger.Error("narration failed", "id", targets[i].ID, "err", err)
			continue
		}
		if audioURL == "" {
			continue
		}
		if a := store.ByID(all, targets[i].ID); a != nil {
			a.AudioURL = audioURL
			narrated++
		}
	}

	if narrated > 0 {
		if err := st.Save(all); err != nil {
			return narrated, fmt.Errorf("saving store: %w", err)
		}
	}
	return narrated, nil
}
