package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"todo-board/internal/export"
	"todo-board/internal/models"
)

var (
	exportFormat string
	exportOut    string
	exportFilter string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks as json, csv or pdf",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tm, _, closeStore, err := openManager(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		tasks, err := tm.ListTasks(cmd.Context(), models.ParseFilter(exportFilter), ownerFlag)
		if err != nil {
			return err
		}

		out, err := export.Render(tasks, exportFormat)
		if err != nil {
			return err
		}

		if exportOut == "" || exportOut == "-" {
			_, err = cmd.OutOrStdout().Write(out)
			return err
		}
		if err := os.WriteFile(exportOut, out, 0644); err != nil {
			return fmt.Errorf("write %s: %w", exportOut, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d tasks to %s in %s format\n", len(tasks), exportOut, exportFormat)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format ("+strings.Join(export.Formats, "|")+")")
	exportCmd.Flags().StringVar(&exportOut, "out", "-", "Output file path, - for stdout")
	exportCmd.Flags().StringVar(&exportFilter, "filter", string(models.FilterAll), "all, active or completed")

	rootCmd.AddCommand(exportCmd)
}
