package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo-board/internal/models"
)

var (
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	priorityStyle = map[models.Priority]lipgloss.Style{
		models.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		models.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		models.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
)

func renderTaskList(tasks []models.Task) string {
	var b strings.Builder
	for _, task := range tasks {
		check := "[ ]"
		desc := task.Description
		if task.Completed {
			check = "[x]"
			desc = doneStyle.Render(desc)
		}

		meta := task.Category + " · " + priorityStyle[task.Priority].Render(string(task.Priority))
		if task.Due != "" {
			meta += " · due " + task.Due
		}

		fmt.Fprintf(&b, "%s %d: %s %s\n", check, task.ID, desc, metaStyle.Render("("+meta+")"))
	}
	return b.String()
}
