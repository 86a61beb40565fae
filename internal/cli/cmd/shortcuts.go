package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/nexus/internal/cli/styles"
	"github.com/bnema/nexus/internal/favicon"
	"github.com/bnema/nexus/internal/shortcut"
)

var (
	addIconPath string

	editTitle      string
	editURL        string
	editIconPath   string
	editRemoveIcon bool

	listJSON bool
)

var addCmd = &cobra.Command{
	Use:   "add <title> <url>",
	Short: "Add a shortcut",
	Long: `Add a shortcut to the start page.

Scheme-less URLs are coerced to https://. An icon file passed with
--icon is validated, recompressed if needed, and stored inline.

Examples:
  nexus add GitHub github.com
  nexus add Mail mail.example.com --icon ~/icons/mail.png`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List shortcuts",
	RunE:  runList,
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a shortcut",
	Long: `Edit a shortcut. Only the provided flags change; the rest of
the record is left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a shortcut",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	addCmd.Flags().StringVar(&addIconPath, "icon", "", "path to a custom icon file")

	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	editCmd.Flags().StringVar(&editURL, "url", "", "new URL")
	editCmd.Flags().StringVar(&editIconPath, "icon", "", "path to a new custom icon file")
	editCmd.Flags().BoolVar(&editRemoveIcon, "remove-icon", false, "remove the custom icon")

	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(removeCmd)
}

// ingestIconFile validates and recompresses an icon file into its
// inline storage form.
func ingestIconFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read icon file: %w", err)
	}
	uri, err := favicon.ProcessUpload(GetApp().Ctx(), data)
	if err != nil {
		return "", fmt.Errorf("process icon: %w", err)
	}
	return uri, nil
}

func runAdd(_ *cobra.Command, args []string) error {
	a := GetApp()

	icon := ""
	if addIconPath != "" {
		var err error
		icon, err = ingestIconFile(addIconPath)
		if err != nil {
			return err
		}
	}

	sc := a.Shortcuts.Add(a.Ctx(), args[0], args[1], icon)
	fmt.Printf("Added %s (%s)\n", sc.Title, sc.ID)
	return nil
}

func runList(_ *cobra.Command, _ []string) error {
	a := GetApp()
	shortcuts := a.Shortcuts.List()

	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(shortcuts)
	}

	theme := styles.NewTheme(a.Settings.Theme(a.Ctx()))
	for _, sc := range shortcuts {
		line := fmt.Sprintf("%s  %s  %s",
			theme.Subtle.Render(sc.ID),
			theme.Normal.Render(sc.Title),
			theme.Subtle.Render(sc.URL),
		)
		if sc.HasCustomIcon() {
			line += "  " + theme.Badge.Render("custom icon")
		}
		fmt.Println(line)
	}
	fmt.Println(theme.CountBadge(len(shortcuts), "shortcut"))
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	a := GetApp()
	id := args[0]

	if editIconPath != "" && editRemoveIcon {
		return fmt.Errorf("--icon and --remove-icon are mutually exclusive")
	}

	fields := shortcut.Fields{}
	if cmd.Flags().Changed("title") {
		fields.Title = &editTitle
	}
	if cmd.Flags().Changed("url") {
		fields.URL = &editURL
	}
	if editIconPath != "" {
		icon, err := ingestIconFile(editIconPath)
		if err != nil {
			return err
		}
		fields.CustomIcon = &icon
	}
	if editRemoveIcon {
		empty := ""
		fields.CustomIcon = &empty
	}

	if !a.Shortcuts.Update(a.Ctx(), id, fields) {
		return fmt.Errorf("no shortcut with id %s", id)
	}
	fmt.Println("Updated", id)
	return nil
}

func runRemove(_ *cobra.Command, args []string) error {
	a := GetApp()
	if !a.Shortcuts.Remove(a.Ctx(), args[0]) {
		return fmt.Errorf("no shortcut with id %s", args[0])
	}
	fmt.Println("Removed", args[0])
	return nil
}
