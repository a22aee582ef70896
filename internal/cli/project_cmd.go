package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/atelier/internal/agenda"
	"github.com/alexanderramin/atelier/internal/cli/formatter"
	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Manage design projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectStageCmd(app),
		newProjectAdvanceCmd(app),
		newProjectRecomputeCmd(app),
		newProjectRenameCmd(app),
		newProjectArchiveCmd(app),
		newProjectUnarchiveCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var f projectFields

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (f.ShortID == "" || f.Name == "") && app.interactive() {
				if err := projectForm(&f).Run(); err != nil {
					return err
				}
			}
			if f.ShortID == "" || f.Name == "" {
				return fmt.Errorf("--id and --name are required")
			}

			p := &domain.Project{
				ShortID:    f.ShortID,
				Name:       strings.TrimSpace(f.Name),
				ClientName: strings.TrimSpace(f.Client),
				Status:     f.Stage,
			}
			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectSaved("Created", p))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.ShortID, "id", "", "Short ID (3-6 letters + 2-4 digits, e.g. SMITH01)")
	cmd.Flags().StringVar(&f.Name, "name", "", "Project name")
	cmd.Flags().StringVar(&f.Client, "client", "", "Client name")
	cmd.Flags().Var(newStageValue(&f.Stage), "stage", "Starting stage (default consultation)")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context(), all)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")

	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show ID",
		Aliases: []string{"inspect"},
		Short:   "Show a project's stage timeline and tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			tl, err := app.Projects.Timeline(ctx, projectID)
			if err != nil {
				return err
			}
			agenda.CanonicalSort(tl.Tasks)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTimeline(tl, app.now()))
			return nil
		},
	}
}

func newProjectStageCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stage ID STAGE",
		Short: "Move a project to any pipeline stage",
		Long:  "Move a project to any pipeline stage, forwards or backwards. Stages: " + stageChoices() + ".",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stage, err := domain.ParsePipelineStage(args[1])
			if err != nil {
				return err
			}
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.SetStage(ctx, projectID, stage)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectSaved("Moved", p))
			return nil
		},
	}
}

func newProjectAdvanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "advance ID",
		Short: "Move a project to the next pipeline stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.AdvanceStage(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectSaved("Advanced", p))
			return nil
		},
	}
}

func newProjectRecomputeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute ID",
		Short: "Recompute and store a project's progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.RecomputeProgress(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectSaved("Recomputed", p))
			return nil
		},
	}
}

func newProjectRenameCmd(app *App) *cobra.Command {
	var name, client string

	cmd := &cobra.Command{
		Use:   "rename ID",
		Short: "Change a project's name or client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("client") {
				return fmt.Errorf("nothing to change (use --name or --client)")
			}
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, projectID)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				p.Name = strings.TrimSpace(name)
			}
			if cmd.Flags().Changed("client") {
				p.ClientName = strings.TrimSpace(client)
			}
			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectSaved("Updated", p))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New project name")
	cmd.Flags().StringVar(&client, "client", "", "New client name")

	return cmd
}

func newProjectArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Archive(ctx, projectID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived project %s\n", args[0])
			return nil
		},
	}
}

func newProjectUnarchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unarchive ID",
		Short: "Restore an archived project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Unarchive(ctx, projectID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unarchived project %s\n", args[0])
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a project with its tasks and returns",
		Long:  "Delete a project with its tasks and returns. The project must be archived first unless --force is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if app.interactive() {
				confirmed := false
				if err := confirmForm(fmt.Sprintf("Delete %s and everything in it?", args[0]), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Projects.Delete(ctx, projectID, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Delete even if the project is not archived")

	return cmd
}
