package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/nexus/internal/cli/styles"
	"github.com/bnema/nexus/internal/domain/entity"
	"github.com/bnema/nexus/internal/favicon"
)

var resolveAll bool

var resolveCmd = &cobra.Command{
	Use:   "resolve [id]",
	Short: "Resolve shortcut icons",
	Long: `Run shortcuts through the icon resolution chain and report the
winning source. Successful provider hits are written back to the icon
cache so future resolutions skip straight to a working provider.

Examples:
  nexus resolve --all
  nexus resolve 4f7c2a`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveAll, "all", false, "resolve every shortcut")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	a := GetApp()

	var targets []entity.Shortcut
	switch {
	case resolveAll:
		targets = a.Shortcuts.List()
	case len(args) == 1:
		sc, ok := a.Shortcuts.Get(args[0])
		if !ok {
			return fmt.Errorf("no shortcut with id %s", args[0])
		}
		targets = []entity.Shortcut{sc}
	default:
		return cmd.Help()
	}

	theme := styles.NewTheme(a.Settings.Theme(a.Ctx()))
	for _, sc := range targets {
		res := a.Resolver.Resolve(a.Ctx(), sc)
		describeResolution(theme, sc, res)
	}
	return nil
}

func describeResolution(theme *styles.Theme, sc entity.Shortcut, res favicon.Resolution) {
	badge := theme.SourceBadge(string(res.Kind))
	source := res.Source

	switch res.Kind {
	case favicon.KindProvider, favicon.KindCached:
		badge = theme.SourceBadge(favicon.Chain()[res.ProviderIndex].Name)
	case favicon.KindCustom:
		source = "(inline custom icon)"
	case favicon.KindPlaceholder:
		source = "(placeholder glyph)"
	}

	fmt.Printf("%s  %s\n    %s\n", theme.Normal.Render(sc.Title), badge, theme.Subtle.Render(source))
}
