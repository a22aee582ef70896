package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/atelier/internal/app"
	"github.com/alexanderramin/atelier/internal/domain"
)

// FormatReturnList renders vendor returns. projectIDs maps project UUIDs to
// their display IDs; unknown projects fall back to a truncated UUID.
func FormatReturnList(returns []*domain.Return, projectIDs map[string]string, now time.Time) string {
	if len(returns) == 0 {
		return Dim("No returns.") + "\n"
	}

	headers := []string{"ID", "PROJECT", "ITEM", "VENDOR", "AMOUNT", "STATUS", "DUE", "TASK"}
	rows := make([][]string, 0, len(returns))
	for _, r := range returns {
		project, ok := projectIDs[r.ProjectID]
		if !ok {
			project = TruncID(r.ProjectID)
		}
		vendor := Dim("--")
		if r.Vendor != "" {
			vendor = r.Vendor
		}
		task := Dim("--")
		if r.TaskID != nil {
			task = TruncID(*r.TaskID)
		}
		due := r.DueDate
		rows = append(rows, []string{
			TruncID(r.ID),
			project,
			Truncate(r.Item, taskTitleWidth),
			vendor,
			FormatCents(r.AmountCents),
			ReturnStatusPill(r.Status),
			DueDateStyled(&due, now, !r.IsOpen()),
			task,
		})
	}
	return RenderBox("Returns", RenderTable(headers, rows))
}

// FormatSweepResult reports which overdue returns were, or on a dry run
// would be, promoted to chase tasks.
func FormatSweepResult(res *app.SweepResult) string {
	var b strings.Builder
	asOf := res.AsOf.Format("2006-01-02")
	switch {
	case len(res.Promoted) == 0:
		fmt.Fprintf(&b, "%s No overdue returns as of %s\n", StyleGreen.Render("✔"), asOf)
	case res.DryRun:
		fmt.Fprintf(&b, "%s %d overdue return(s) as of %s would be promoted\n",
			StyleYellow.Render("~"), len(res.Promoted), asOf)
	default:
		fmt.Fprintf(&b, "%s Promoted %d overdue return(s) as of %s\n",
			StyleGreen.Render("✔"), len(res.Promoted), asOf)
	}

	for _, p := range res.Promoted {
		item := p.Item
		if p.Vendor != "" {
			item += " (" + p.Vendor + ")"
		}
		line := fmt.Sprintf("  %s  %s  %s", PriorityBadge(p.Priority), item,
			StyleRed.Render(fmt.Sprintf("%dd overdue", p.DaysOverdue)))
		if p.TaskID != "" {
			line += "  " + Dim("task ") + TruncID(p.TaskID)
		}
		b.WriteString(line + "\n")
	}
	for _, w := range res.Warnings {
		b.WriteString(StyleYellow.Render("  WARNING: "+w) + "\n")
	}
	return b.String()
}
