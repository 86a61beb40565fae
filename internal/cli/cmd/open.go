package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/nexus/internal/cli/model"
	"github.com/bnema/nexus/internal/cli/styles"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Pick a shortcut and open it",
	Long: `Interactive shortcut picker. Icons resolve in the background
as the list renders; the selection opens via xdg-open.`,
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(_ *cobra.Command, _ []string) error {
	a := GetApp()
	theme := styles.NewTheme(a.Settings.Theme(a.Ctx()))

	m := model.NewPickerModel(a.Ctx(), theme, a.Resolver, a.Shortcuts.List())

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if picker, ok := final.(model.PickerModel); ok && picker.Err() != nil {
		return picker.Err()
	}
	return nil
}
