package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Giraffe0925/ai-trend-viewer/internal/browser"
	"github.com/Giraffe0925/ai-trend-viewer/internal/config"
	"github.com/Giraffe0925/ai-trend-viewer/internal/store"
)

var openCmd = &cobra.Command{
	Use:   "open [n]",
	Short: "Open the n-th newest article in the browser",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		articles, err := store.New(cfg.DataFilePath()).Load()
		if err != nil {
			return fmt.Errorf("loading store: %w", err)
		}
		if len(articles) == 0 {
			return fmt.Errorf("store is empty; run update first")
		}
		store.SortByPublished(articles)

		n := 1
		if len(args) == 1 {
			n, err = strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("argument must be a positive article position, got %q", args[0])
			}
		}
		if n > len(articles) {
			return fmt.Errorf("only %d article(s) in the store", len(articles))
		}

		a := articles[n-1]
		fmt.Printf("Opening %s\n", a.DisplayTitle())
		return browser.OpenArticle(&a)
	},
}
