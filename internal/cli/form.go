package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/atelier/internal/cli/formatter"
	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/progress"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// atelierHuhTheme returns a huh theme built from the formatter palette.
func atelierHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func themed(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(atelierHuhTheme()).WithShowHelp(false)
}

// projectFields are the values a new-project form fills in.
type projectFields struct {
	ShortID string
	Name    string
	Client  string
	Stage   domain.PipelineStage
}

func stageOptions() []huh.Option[domain.PipelineStage] {
	stages := domain.AllStages()
	opts := make([]huh.Option[domain.PipelineStage], 0, len(stages))
	for _, s := range stages {
		opts = append(opts, huh.NewOption(progress.StageDisplayName(s), s))
	}
	return opts
}

// projectForm prompts for the fields of a new project, pre-filled with
// whatever came from flags.
func projectForm(f *projectFields) *huh.Form {
	if f.Stage == "" {
		f.Stage = domain.StageConsultation
	}
	return themed(
		huh.NewGroup(
			huh.NewInput().
				Title("Short ID").
				Description("3-6 letters and 2-4 digits, e.g. SMITH01").
				Value(&f.ShortID).
				Validate(validateShortID),
			huh.NewInput().
				Title("Project Name").
				Value(&f.Name).
				Validate(validateRequired("project name")),
			huh.NewInput().
				Title("Client").
				Placeholder("optional").
				Value(&f.Client),
			huh.NewSelect[domain.PipelineStage]().
				Title("Stage").
				Options(stageOptions()...).
				Value(&f.Stage),
		),
	)
}

// taskFields are the values a new-task form fills in.
type taskFields struct {
	Title    string
	Category domain.TaskCategory
	Due      string
}

func taskForm(f *taskFields) *huh.Form {
	if f.Category == "" {
		f.Category = domain.CategoryConsultation
	}
	opts := make([]huh.Option[domain.TaskCategory], 0, len(categoryChoices()))
	for _, c := range categoryChoices() {
		label := fmt.Sprintf("%s (%s)", c, progress.StageDisplayName(progress.StageForCategory(c)))
		opts = append(opts, huh.NewOption(label, c))
	}
	return themed(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Value(&f.Title).
				Validate(validateRequired("task title")),
			huh.NewSelect[domain.TaskCategory]().
				Title("Category").
				Options(opts...).
				Value(&f.Category),
			huh.NewInput().
				Title("Due Date (YYYY-MM-DD, blank for none)").
				Placeholder("2025-06-30").
				Value(&f.Due).
				Validate(validateOptionalDate),
		),
	)
}

func confirmForm(title string, result *bool) *huh.Form {
	return themed(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	)
}

func validateShortID(s string) error {
	p := domain.Project{ShortID: strings.ToUpper(strings.TrimSpace(s))}
	return p.ValidateShortID()
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}
