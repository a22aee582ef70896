package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorAqua   = lipgloss.Color("#689d6a")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleAqua   = lipgloss.NewStyle().Foreground(ColorAqua)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StageStyle gives each pipeline stage its own color, warming toward
// completion.
func StageStyle(stage domain.PipelineStage) lipgloss.Style {
	switch stage {
	case domain.StageConsultation:
		return StyleBlue
	case domain.StageVisionBoard:
		return StylePurple
	case domain.StageOrdering:
		return StyleYellow
	case domain.StageInstallation:
		return StyleHeader
	case domain.StageStyling:
		return StyleAqua
	case domain.StageComplete:
		return StyleGreen
	default:
		return StyleDim
	}
}

// StagePill returns a colored stage label such as "● Ordering".
func StagePill(stage domain.PipelineStage) string {
	if stage == domain.StageComplete {
		return StyleGreen.Render("✔ Complete")
	}
	if !stage.Valid() {
		return StyleDim.Render("? " + string(stage))
	}
	return StageStyle(stage).Render("● " + stageLabel(stage))
}

// stageLabel turns "vision_board" into "Vision Board".
func stageLabel(stage domain.PipelineStage) string {
	words := strings.Split(string(stage), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// TaskStatusPill returns a colored indicator for a task's status.
func TaskStatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.TaskPending:
		return StyleBlue.Render("○ Pending")
	case domain.TaskInProgress:
		return StyleYellow.Render("◐ In Progress")
	case domain.TaskCompleted:
		return StyleDim.Render("✔ Done")
	default:
		return StyleDim.Render(string(status))
	}
}

// PriorityBadge renders a task priority; no priority renders as "--".
func PriorityBadge(p domain.TaskPriority) string {
	switch p {
	case domain.PriorityUrgent:
		return StyleRed.Render("▲ URGENT")
	case domain.PriorityHigh:
		return StyleHeader.Render("▲ high")
	case domain.PriorityMedium:
		return StyleYellow.Render("● medium")
	case domain.PriorityLow:
		return StyleDim.Render("▽ low")
	default:
		return StyleDim.Render("--")
	}
}

// ReturnStatusPill returns a colored indicator for a vendor return.
func ReturnStatusPill(status domain.ReturnStatus) string {
	switch status {
	case domain.ReturnOpen:
		return StyleYellow.Render("○ Open")
	case domain.ReturnShipped:
		return StyleBlue.Render("➜ Shipped")
	case domain.ReturnRefunded:
		return StyleGreen.Render("✔ Refunded")
	case domain.ReturnCancelled:
		return StyleDim.Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(status))
	}
}

// CategoryBadge returns a capitalized, purple-styled category label.
func CategoryBadge(c domain.TaskCategory) string {
	if c == "" {
		return StyleDim.Render("--")
	}
	s := string(c)
	return StylePurple.Render(strings.ToUpper(s[:1]) + s[1:])
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
