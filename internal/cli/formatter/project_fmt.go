package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/atelier/internal/app"
	"github.com/alexanderramin/atelier/internal/domain"
)

const (
	listProgressBarWidth = 10
	nameColumnWidth      = 32
)

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects yet. Create one with `atelier project add`.") + "\n"
	}

	headers := []string{"ID", "NAME", "CLIENT", "STAGE", "PROGRESS"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		name := Bold(Truncate(p.Name, nameColumnWidth))
		if p.IsArchived() {
			name = Dim(Truncate(p.Name, nameColumnWidth) + " (archived)")
		}
		client := Dim("--")
		if strings.TrimSpace(p.ClientName) != "" {
			client = StyleFg.Render(Truncate(p.ClientName, nameColumnWidth))
		}
		rows = append(rows, []string{
			p.DisplayID(),
			name,
			client,
			StagePill(p.Status),
			RenderPercent(p.Progress, listProgressBarWidth),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectSaved is the one-line confirmation after a project changes.
func FormatProjectSaved(verb string, p *domain.Project) string {
	return fmt.Sprintf("%s %s %s  %s  %s\n",
		StyleGreen.Render("✔"),
		verb,
		Bold(p.DisplayID()),
		StagePill(p.Status),
		RenderPercent(p.Progress, listProgressBarWidth),
	)
}

// FormatImportResult summarizes what an import created.
func FormatImportResult(res *app.ImportResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Imported %d project(s), %d task(s), %d return(s)\n",
		StyleGreen.Render("✔"), len(res.Projects), res.TaskCount, res.ReturnCount)
	for _, p := range res.Projects {
		fmt.Fprintf(&b, "  %s  %s  %s\n", Bold(p.DisplayID()), p.Name, StagePill(p.Status))
	}
	return b.String()
}
