package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Giraffe0925/ai-trend-viewer/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagConfig string

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

var rootCmd = &cobra.Command{
	Use:   "ai-trend-viewer",
	Short: "Research trend pipeline with Japanese summaries and podcast narration",
	Long: `ai-trend-viewer fetches new arXiv papers and RSS articles, enriches them
with Japanese translations and commentary, narrates them as two-speaker
podcast episodes, and serves the collection as a reader API and podcast feed.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(narrateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(openCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ai-trend-viewer %s (commit: %s, built: %s)\n", version, commit, date)
		if res := update.Check(context.Background(), version); res != nil {
			fmt.Printf("A newer version is available: %s\n", res.LatestVersion)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
