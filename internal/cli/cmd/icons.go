package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/nexus/internal/cli/styles"
	"github.com/bnema/nexus/internal/domain/entity"
	"github.com/bnema/nexus/internal/favicon"
)

var iconsCmd = &cobra.Command{
	Use:   "icons",
	Short: "Inspect and manage the icon cache",
}

var iconsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show icon cache statistics",
	RunE:  runIconsStats,
}

var iconsSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired icon cache entries",
	RunE:  runIconsSweep,
}

var iconsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the entire icon cache",
	RunE:  runIconsClear,
}

func init() {
	iconsCmd.AddCommand(iconsStatsCmd)
	iconsCmd.AddCommand(iconsSweepCmd)
	iconsCmd.AddCommand(iconsClearCmd)
	rootCmd.AddCommand(iconsCmd)
}

func runIconsStats(_ *cobra.Command, _ []string) error {
	a := GetApp()
	stats := a.Icons.Stats(a.Ctx())
	theme := styles.NewTheme(a.Settings.Theme(a.Ctx()))

	fmt.Println(theme.Title.Render("icon cache"))
	fmt.Printf("entries: %d / %d\n", stats.TotalEntries, entity.IconCacheMaxEntries)
	if stats.TotalEntries == 0 {
		return nil
	}

	fmt.Printf("oldest:  %s\n", styles.RelativeTime(time.UnixMilli(stats.OldestTimestamp)))
	fmt.Printf("newest:  %s\n", styles.RelativeTime(time.UnixMilli(stats.NewestTimestamp)))

	chain := favicon.Chain()
	for idx, count := range stats.ServiceDistribution {
		name := "unknown"
		if idx >= 0 && idx < len(chain) {
			name = chain[idx].Name
		}
		fmt.Printf("  %-12s %d\n", name, count)
	}
	return nil
}

func runIconsSweep(_ *cobra.Command, _ []string) error {
	a := GetApp()
	removed := a.Icons.SweepExpired(a.Ctx())
	fmt.Printf("Removed %d expired entries\n", removed)
	return nil
}

func runIconsClear(_ *cobra.Command, _ []string) error {
	a := GetApp()
	a.Icons.Clear(a.Ctx())
	fmt.Println("Icon cache cleared")
	return nil
}
