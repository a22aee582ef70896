package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/atelier/internal/app"
	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/progress"
	"github.com/charmbracelet/lipgloss"
)

const (
	timelineBarWidth = 12
	notesWrapWidth   = 60
	stageNameWidth   = 24
)

// FormatTimeline renders a project card: metadata on the left and the
// vertical stage timeline on the right, followed by the task list.
func FormatTimeline(tl *app.ProjectTimeline, now time.Time) string {
	p := tl.Project

	var meta strings.Builder
	meta.WriteString(StyleBold.Render(p.Name) + "\n")
	if p.ClientName != "" {
		meta.WriteString(Dim("for "+p.ClientName) + "\n")
	}
	meta.WriteString("\n")
	fmt.Fprintf(&meta, "%s  %s\n", StyleDim.Render("ID      "), p.DisplayID())
	fmt.Fprintf(&meta, "%s  %s\n", StyleDim.Render("UUID    "), TruncID(p.ID))
	fmt.Fprintf(&meta, "%s  %s\n", StyleDim.Render("STAGE   "), StagePill(p.Status))
	fmt.Fprintf(&meta, "%s  %s\n", StyleDim.Render("PROGRESS"), RenderPercent(tl.Progress, timelineBarWidth))
	fmt.Fprintf(&meta, "%s  %s\n", StyleDim.Render("CREATED "), StyleFg.Render(HumanDate(p.CreatedAt)))
	if p.IsArchived() {
		fmt.Fprintf(&meta, "%s  %s\n", StyleDim.Render("ARCHIVED"), StyleFg.Render(HumanDate(*p.ArchivedAt)))
	}
	if tl.Progress != p.Progress {
		meta.WriteString("\n" + StyleYellow.Render(fmt.Sprintf("stored progress %d%% is stale", p.Progress)) + "\n")
	}

	card := lipgloss.JoinHorizontal(lipgloss.Top, meta.String(), "    ", renderStages(tl.Stages))

	var b strings.Builder
	b.WriteString(card)
	b.WriteString("\n\n")
	b.WriteString(renderTimelineTasks(tl.Tasks, now))
	return RenderBox("", b.String())
}

func renderStages(stages []progress.StageProgress) string {
	var b strings.Builder
	for i, s := range stages {
		marker := StyleDim.Render("○")
		name := StyleDim.Render(s.DisplayName)
		switch {
		case s.IsCompleted:
			marker = StyleGreen.Render("✔")
			name = StyleFg.Render(s.DisplayName)
		case s.IsCurrent:
			marker = StageStyle(s.Stage).Render("●")
			name = StyleBold.Render(s.DisplayName)
		}
		bar := RenderCompactBar(float64(s.Progress)/100, timelineBarWidth, !s.IsCompleted && !s.IsCurrent)
		pad := stageNameWidth - lipgloss.Width(name)
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(&b, "%s %s%s %s %3d%%", marker, name, strings.Repeat(" ", pad), bar, s.Progress)
		if s.TaskCount > 0 {
			b.WriteString(Dim(fmt.Sprintf("  %d task(s)", s.TaskCount)))
		}
		b.WriteString("\n")
		if i < len(stages)-1 {
			b.WriteString(StyleDim.Render("│") + "\n")
		}
	}
	return b.String()
}

func renderTimelineTasks(tasks []*domain.Task, now time.Time) string {
	if len(tasks) == 0 {
		return Dim("No tasks. Add one with `atelier task add`.")
	}
	var b strings.Builder
	b.WriteString(Header("Tasks") + "\n")
	for _, t := range tasks {
		check := StyleDim.Render("[ ]")
		title := StyleFg.Render(t.Title)
		if t.IsCompleted() {
			check = StyleGreen.Render("[x]")
			title = StyleDim.Render(t.Title)
		} else if t.Status == domain.TaskInProgress {
			check = StyleYellow.Render("[~]")
		}
		fmt.Fprintf(&b, "%s %s  %s  %s", check, TruncID(t.ID), title, CategoryBadge(t.Category))
		if t.DueDate != nil {
			b.WriteString("  " + DueDateStyled(t.DueDate, now, t.IsCompleted()))
		}
		b.WriteString("\n")
		if t.Notes != "" {
			for _, line := range strings.Split(Wrap(t.Notes, notesWrapWidth), "\n") {
				b.WriteString("      " + Dim(line) + "\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
