package cli

import (
	"time"

	"github.com/alexanderramin/atelier/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Tasks    service.TaskService
	Returns  service.ReturnService
	Status   service.StatusService
	Import   service.ImportService

	// SweepInterval is the default period for `return sweep --every`.
	SweepInterval time.Duration

	// IsInteractive reports whether stdin is a terminal; prompts are only
	// shown when it returns true. Nil means never.
	IsInteractive func() bool

	// Now is the clock used for relative dates. Nil means time.Now.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "atelier" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "atelier",
		Short:         "Studio manager for interior design projects",
		Long:          "Track design projects through the studio pipeline, their tasks, and the vendor returns that need chasing.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newReturnCmd(app),
		newStatusCmd(app),
		newImportCmd(app),
	)

	return root
}
