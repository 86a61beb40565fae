package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/nexus/internal/cli/styles"
)

var todosCmd = &cobra.Command{
	Use:   "todos",
	Short: "Manage the task list",
	RunE:  runTodosList,
}

var todosAddCmd = &cobra.Command{
	Use:   "add <text>...",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodosAdd,
}

var todosToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodosToggle,
}

var todosRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodosRemove,
}

func init() {
	todosCmd.AddCommand(todosAddCmd)
	todosCmd.AddCommand(todosToggleCmd)
	todosCmd.AddCommand(todosRemoveCmd)
	rootCmd.AddCommand(todosCmd)
}

func runTodosList(_ *cobra.Command, _ []string) error {
	a := GetApp()
	theme := styles.NewTheme(a.Settings.Theme(a.Ctx()))

	todos := a.Todos.List(a.Ctx())
	for _, todo := range todos {
		mark := "[ ]"
		text := theme.Normal.Render(todo.Text)
		if todo.Completed {
			mark = "[x]"
			text = theme.Subtle.Render(todo.Text)
		}
		fmt.Printf("%s %s  %s\n", mark, theme.Subtle.Render(todo.ID), text)
	}
	fmt.Println(theme.CountBadge(len(todos), "task"))
	return nil
}

func runTodosAdd(_ *cobra.Command, args []string) error {
	a := GetApp()
	todo, ok := a.Todos.Add(a.Ctx(), strings.Join(args, " "))
	if !ok {
		return fmt.Errorf("could not add task")
	}
	fmt.Println("Added task", todo.ID)
	return nil
}

func runTodosToggle(_ *cobra.Command, args []string) error {
	a := GetApp()
	if !a.Todos.Toggle(a.Ctx(), args[0]) {
		return fmt.Errorf("no task with id %s", args[0])
	}
	fmt.Println("Toggled task", args[0])
	return nil
}

func runTodosRemove(_ *cobra.Command, args []string) error {
	a := GetApp()
	if !a.Todos.Remove(a.Ctx(), args[0]) {
		return fmt.Errorf("no task with id %s", args[0])
	}
	fmt.Println("Removed task", args[0])
	return nil
}
