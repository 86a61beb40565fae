package cmd

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/bnema/nexus/internal/config"
	"github.com/bnema/nexus/internal/storage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and storage",
	RunE:  runConfigInit,
}

var configStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Report stored keys and quota usage",
	RunE:  runConfigStorage,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configStorageCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	a := GetApp()

	out, err := toml.Marshal(a.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	a := GetApp()

	fmt.Printf("nexus %s - initialization complete\n", version)

	xdgDirs, err := config.GetXDGDirs()
	if err == nil {
		fmt.Println("Directories:")
		fmt.Printf("- Config: %s\n", xdgDirs.ConfigHome)
		fmt.Printf("- Data:   %s\n", xdgDirs.DataHome)
		fmt.Printf("- State:  %s\n", xdgDirs.StateHome)
	}

	fmt.Println("Shortcuts:")
	for _, sc := range a.Shortcuts.List() {
		fmt.Printf("- %s -> %s\n", sc.Title, sc.URL)
	}
	return nil
}

func runConfigStorage(_ *cobra.Command, _ []string) error {
	a := GetApp()

	usage, total, err := storage.Usage(a.Store.Backend())
	if err != nil {
		return fmt.Errorf("read storage usage: %w", err)
	}

	for _, u := range usage {
		fmt.Printf("%-28s %8d bytes\n", u.Key, u.Bytes)
	}
	if quota := a.Config.Storage.QuotaBytes; quota > 0 {
		fmt.Printf("%-28s %8d / %d bytes\n", "total", total, quota)
	} else {
		fmt.Printf("%-28s %8d bytes (no quota)\n", "total", total)
	}
	return nil
}
