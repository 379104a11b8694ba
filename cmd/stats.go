package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Giraffe0925/ai-trend-viewer/internal/config"
	"github.com/Giraffe0925/ai-trend-viewer/internal/store"
)

var statsLabelStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		st := store.New(cfg.DataFilePath())
		count, narrated, size, err := st.Stats()
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("%s %s\n", statsLabelStyle.Render("Store:"), st.Path())
		fmt.Printf("%s %d (cap %d)\n", statsLabelStyle.Render("Articles:"), count, cfg.Cap())
		fmt.Printf("%s %d\n", statsLabelStyle.Render("Narrated:"), narrated)
		fmt.Printf("%s %s\n", statsLabelStyle.Render("Size:"), formatBytes(size))
		return nil
	},
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
