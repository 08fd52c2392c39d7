package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"todo-board/internal/models"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the accepted values for Render.
var Formats = []string{"json", "csv", "pdf"}

var csvHeader = []string{"id", "description", "category", "priority", "due", "completed", "created_at", "owner"}

func Render(tasks []models.Task, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(tasks, "", "  ")
	case "csv":
		return renderCSV(tasks)
	case "pdf":
		return renderPDF(tasks)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func renderCSV(tasks []models.Task) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, task := range tasks {
		record := []string{
			strconv.FormatInt(task.ID, 10),
			task.Description,
			task.Category,
			string(task.Priority),
			task.Due,
			strconv.FormatBool(task.Completed),
			task.CreatedAt.UTC().Format(time.RFC3339),
			task.Owner,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return b.Bytes(), w.Error()
}

func renderPDF(tasks []models.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	if len(tasks) == 0 {
		pdf.Cell(40, 6, "No tasks.")
	}
	for _, task := range tasks {
		status := "[ ]"
		if task.Completed {
			status = "[x]"
		}
		line := fmt.Sprintf("%s #%d %s (%s, %s)", status, task.ID, task.Description, task.Category, task.Priority)
		if task.Due != "" {
			line += " due " + task.Due
		}
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
