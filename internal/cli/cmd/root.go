// Package cmd provides Cobra CLI commands for nexus.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/nexus/internal/cli"
)

var (
	app       *cli.App
	version   = "dev"
	ephemeral bool

	rootCmd = &cobra.Command{
		Use:   "nexus",
		Short: "A personal start page in your terminal",
		Long: `Nexus - a personal start page with quota-safe local storage.

Shortcuts resolve their icons through a provider chain (Google s2,
DuckDuckGo, icon.horse, the site itself, Clearbit) with a persistent
cache, custom icon uploads, and sibling widgets for notes, todos,
currency conversion and password generation.

Use 'nexus open' for the interactive picker, or explore the
subcommands for scripted operations.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}

			var err error
			app, err = cli.NewApp(ephemeral)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetVersion sets the version string (called from main before Execute).
func SetVersion(v string) {
	version = v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("nexus %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep state in memory, discard on exit")
	rootCmd.AddCommand(versionCmd)
}
