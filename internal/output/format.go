// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/model"
)

// NoDueDate is printed for tasks without a due date.
const NoDueDate = "(no due date)"

// FormatTaskHeader writes the column header for a task table.
func FormatTaskHeader(w io.Writer) {
	fmt.Fprintf(w, "%-22s  %-26s  %-12s  %-10s  %s\n", "ID", "TITLE", "STATUS", "IMPORTANCE", "DUE")
}

// FormatTaskRow writes one task line.
// Format: fixed-width id, title, status, importance columns, then due.
func FormatTaskRow(w io.Writer, t model.Task) {
	due := t.Due
	if strings.TrimSpace(due) == "" {
		due = NoDueDate
	}
	fmt.Fprintf(w, "%-22s  %-26s  %-12s  %-10s  %s\n",
		t.ID, normalizeTitle(t.Title), t.Status, t.Importance, due)
}

// FormatCount writes the "Showing X of Y tasks" line shown under active
// filters.
func FormatCount(w io.Writer, shown, total int) {
	fmt.Fprintf(w, "Showing %d of %d tasks\n", shown, total)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
