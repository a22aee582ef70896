package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/atelier/internal/app"
)

const statusProgressBarWidth = 10

// FormatStatus renders the studio overview: one row per project, a
// per-stage count and any warnings.
func FormatStatus(resp *app.StatusResponse) string {
	var b strings.Builder

	if len(resp.Projects) == 0 {
		b.WriteString(Dim("No active projects.") + "\n")
	} else {
		headers := []string{"ID", "NAME", "STAGE", "PROGRESS", "TASKS", "RETURNS"}
		rows := make([][]string, 0, len(resp.Projects))
		for _, p := range resp.Projects {
			progressCell := RenderPercent(p.ComputedProgress, statusProgressBarWidth)
			if p.Drift {
				progressCell += StyleYellow.Render(" *")
			}
			tasks := Dim(fmt.Sprintf("%d/%d stage", p.StageTaskDone, p.StageTaskCount))
			if p.OpenTaskCount > 0 {
				tasks = fmt.Sprintf("%d open · ", p.OpenTaskCount) + tasks
			}
			returns := Dim("--")
			if p.OpenReturnCount > 0 {
				returns = fmt.Sprintf("%d open", p.OpenReturnCount)
				if p.OverdueReturns > 0 {
					returns += StyleRed.Render(fmt.Sprintf(" (%d overdue)", p.OverdueReturns))
				}
			}
			name := Bold(Truncate(p.ProjectName, nameColumnWidth))
			if p.Archived {
				name = Dim(Truncate(p.ProjectName, nameColumnWidth))
			}
			rows = append(rows, []string{
				p.ShortID,
				name,
				StagePill(p.Stage),
				progressCell,
				tasks,
				returns,
			})
		}
		b.WriteString(RenderTable(headers, rows))
	}

	s := resp.Summary
	b.WriteString("\n")
	parts := make([]string, 0, len(s.ByStage))
	for _, st := range s.ByStage {
		if st.ProjectCount == 0 {
			continue
		}
		parts = append(parts, StageStyle(st.Stage).Render(fmt.Sprintf("%d %s", st.ProjectCount, st.DisplayName)))
	}
	if len(parts) > 0 {
		b.WriteString(strings.Join(parts, ", ") + "\n")
	}
	fmt.Fprintf(&b, "%s %d project(s), average %d%%", Dim("Total"), s.CountsTotal, s.AverageProgress)
	if s.CountsDrifted > 0 {
		b.WriteString(StyleYellow.Render(fmt.Sprintf(", %d with stale progress (*)", s.CountsDrifted)))
	}
	b.WriteString("\n")

	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range resp.Warnings {
			b.WriteString(StyleYellow.Render("  WARNING: "+w) + "\n")
		}
	}

	return RenderBox("Status", b.String())
}
