package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"todo-board/internal/models"
)

var (
	addDesc     string
	addCategory string
	addPriority string
	addDue      string

	listFilter string

	editDesc     string
	editCategory string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tm, _, closeStore, err := openManager(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		task, err := tm.AddTask(cmd.Context(), models.CreateTaskParams{
			Description: addDesc,
			Category:    addCategory,
			Priority:    models.Priority(addPriority),
			Due:         addDue,
			Owner:       ownerFlag,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added task with ID %d\n", task.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tm, _, closeStore, err := openManager(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		tasks, err := tm.ListTasks(cmd.Context(), models.ParseFilter(listFilter), ownerFlag)
		if err != nil {
			return err
		}

		if len(tasks) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tasks found")
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), renderTaskList(tasks))
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete ID",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		tm, _, closeStore, err := openManager(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		if err := tm.CompleteTask(cmd.Context(), id, ownerFlag); err != nil {
			return fmt.Errorf("task %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %d marked as completed\n", id)
		return nil
	},
}

var reopenCmd = &cobra.Command{
	Use:   "reopen ID",
	Short: "Mark a task as not completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		tm, _, closeStore, err := openManager(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		if err := tm.ReopenTask(cmd.Context(), id, ownerFlag); err != nil {
			return fmt.Errorf("task %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %d reopened\n", id)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a task's description and category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		tm, _, closeStore, err := openManager(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		if err := tm.EditTask(cmd.Context(), id, editDesc, editCategory, ownerFlag); err != nil {
			return fmt.Errorf("task %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %d updated\n", id)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		tm, _, closeStore, err := openManager(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		if err := tm.DeleteTask(cmd.Context(), id, ownerFlag); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %d deleted\n", id)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all completed tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tm, _, closeStore, err := openManager(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		removed, err := tm.ClearCompleted(cmd.Context(), ownerFlag)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d completed tasks\n", removed)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDesc, "desc", "", "Task description")
	addCmd.Flags().StringVar(&addCategory, "category", models.DefaultCategory, "Task category")
	addCmd.Flags().StringVar(&addPriority, "priority", string(models.DefaultPriority), "Low, Medium or High")
	addCmd.Flags().StringVar(&addDue, "due", "", "Free-form due date")
	_ = addCmd.MarkFlagRequired("desc")

	listCmd.Flags().StringVar(&listFilter, "filter", string(models.FilterAll), "all, active or completed")

	editCmd.Flags().StringVar(&editDesc, "desc", "", "New description")
	editCmd.Flags().StringVar(&editCategory, "category", "", "New category (empty resets to General)")
	_ = editCmd.MarkFlagRequired("desc")

	rootCmd.AddCommand(addCmd, listCmd, completeCmd, reopenCmd, editCmd, deleteCmd, clearCmd)
}
