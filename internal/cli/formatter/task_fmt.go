package formatter

import (
	"fmt"
	"time"

	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/progress"
)

const taskTitleWidth = 40

// FormatTaskList renders a project's tasks as a table.
func FormatTaskList(project *domain.Project, tasks []*domain.Task, now time.Time) string {
	title := "Tasks · " + project.DisplayID()
	if len(tasks) == 0 {
		return RenderBox(title, Dim("No tasks."))
	}

	headers := []string{"ID", "TITLE", "CATEGORY", "STAGE", "STATUS", "PRIORITY", "DUE"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			TruncID(t.ID),
			Truncate(t.Title, taskTitleWidth),
			CategoryBadge(t.Category),
			Dim(progress.StageDisplayName(progress.StageForCategory(t.Category))),
			TaskStatusPill(t.Status),
			PriorityBadge(t.Priority),
			DueDateStyled(t.DueDate, now, t.IsCompleted()),
		})
	}
	return RenderBox(title, RenderTable(headers, rows))
}

// FormatTaskSaved is the one-line confirmation after a task changes,
// including the project's recomputed progress.
func FormatTaskSaved(verb string, t *domain.Task, p *domain.Project) string {
	out := fmt.Sprintf("%s %s %s  %s  %s\n",
		StyleGreen.Render("✔"), verb, TruncID(t.ID), Bold(t.Title), TaskStatusPill(t.Status))
	if p != nil {
		out += fmt.Sprintf("  %s %s\n", Dim(p.DisplayID()+" now at"), RenderPercent(p.Progress, listProgressBarWidth))
	}
	return out
}
