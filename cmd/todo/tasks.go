package main

import (
	"github.com/spf13/cobra"

	"github.com/mmynk/todolist/internal/app"
	"github.com/mmynk/todolist/internal/models"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your tasks",
	RunE:  runList,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a task",
	RunE:  runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Replace every task matching label, item and description",
	Long: `Replace every task whose label, item and description all equal the
given values. Tasks are matched by content, not by id.

Examples:
  todo edit --item Milk --new-item 'Oat milk'
  todo edit --label home --item Milk --description 2% --new-label home --new-item Milk --new-description 1L`,
	RunE: runEdit,
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete every task matching label, item and description",
	RunE:  runDelete,
}

func init() {
	for _, c := range []*cobra.Command{addCmd, editCmd, deleteCmd} {
		c.Flags().String("label", "", "task label")
		c.Flags().String("item", "", "task item")
		c.Flags().String("description", "", "full description")
	}
	editCmd.Flags().String("new-label", "", "replacement label (default: unchanged)")
	editCmd.Flags().String("new-item", "", "replacement item (default: unchanged)")
	editCmd.Flags().String("new-description", "", "replacement description (default: unchanged)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
}

func taskFromFlags(cmd *cobra.Command, prefix string) models.Task {
	var t models.Task
	t.Label, _ = cmd.Flags().GetString(prefix + "label")
	t.Item, _ = cmd.Flags().GetString(prefix + "item")
	t.FullDescription, _ = cmd.Flags().GetString(prefix + "description")
	return t
}

// start loads the session and the current list; task commands need both.
func start(cmd *cobra.Command) (*env, app.State, error) {
	e, err := setup(cmd)
	if err != nil {
		return nil, app.State{}, err
	}
	st, err := e.ctrl.Start(cmd.Context())
	if err == nil && !st.Session.IsLoggedIn {
		err = app.ErrNotLoggedIn
		st.Notice = app.NoticeLoginFirst
	}
	if err != nil {
		e.close()
		return nil, st, result(cmd.OutOrStdout(), st, err)
	}
	return e, st, nil
}

func runList(cmd *cobra.Command, args []string) error {
	e, st, err := start(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	printState(cmd.OutOrStdout(), st)
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	e, st, err := start(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	st, err = e.ctrl.AddTask(cmd.Context(), st, taskFromFlags(cmd, ""))
	return result(cmd.OutOrStdout(), st, err)
}

func runEdit(cmd *cobra.Command, args []string) error {
	e, st, err := start(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	old := taskFromFlags(cmd, "")
	fields := old
	if cmd.Flags().Changed("new-label") {
		fields.Label, _ = cmd.Flags().GetString("new-label")
	}
	if cmd.Flags().Changed("new-item") {
		fields.Item, _ = cmd.Flags().GetString("new-item")
	}
	if cmd.Flags().Changed("new-description") {
		fields.FullDescription, _ = cmd.Flags().GetString("new-description")
	}

	st, err = e.ctrl.EditTask(cmd.Context(), st, old, fields)
	return result(cmd.OutOrStdout(), st, err)
}

func runDelete(cmd *cobra.Command, args []string) error {
	e, st, err := start(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	st, err = e.ctrl.DeleteTask(cmd.Context(), st, taskFromFlags(cmd, ""))
	return result(cmd.OutOrStdout(), st, err)
}
