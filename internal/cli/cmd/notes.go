package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/nexus/internal/cli/styles"
	"github.com/bnema/nexus/internal/domain/entity"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage quick notes",
	RunE:  runNotesList,
}

var notesAddCmd = &cobra.Command{
	Use:   "add <text>...",
	Short: "Add a quick note",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNotesAdd,
}

var notesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a quick note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotesRemove,
}

func init() {
	notesCmd.AddCommand(notesAddCmd)
	notesCmd.AddCommand(notesRemoveCmd)
	rootCmd.AddCommand(notesCmd)
}

func runNotesList(_ *cobra.Command, _ []string) error {
	a := GetApp()
	theme := styles.NewTheme(a.Settings.Theme(a.Ctx()))

	notes := a.Notes.List(a.Ctx())
	for _, note := range notes {
		fmt.Printf("%s  %s  %s\n",
			theme.Subtle.Render(note.ID),
			theme.Normal.Render(note.Text),
			theme.BadgeMuted.Render(styles.RelativeTime(time.UnixMilli(note.CreatedAt))),
		)
	}
	fmt.Printf("%d/%d notes\n", len(notes), entity.MaxNotes)
	return nil
}

func runNotesAdd(_ *cobra.Command, args []string) error {
	a := GetApp()
	note, ok := a.Notes.Add(a.Ctx(), strings.Join(args, " "))
	if !ok {
		return fmt.Errorf("could not add note (limit is %d)", entity.MaxNotes)
	}
	fmt.Println("Added note", note.ID)
	return nil
}

func runNotesRemove(_ *cobra.Command, args []string) error {
	a := GetApp()
	if !a.Notes.Remove(a.Ctx(), args[0]) {
		return fmt.Errorf("no note with id %s", args[0])
	}
	fmt.Println("Removed note", args[0])
	return nil
}
