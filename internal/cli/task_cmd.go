package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/atelier/internal/agenda"
	"github.com/alexanderramin/atelier/internal/cli/formatter"
	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage project tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskStatusShortcutCmd(app, "start", "Mark a task in progress", "Started", domain.TaskInProgress),
		newTaskStatusShortcutCmd(app, "done", "Mark a task completed", "Completed", domain.TaskCompleted),
		newTaskReopenCmd(app),
		newTaskStatusCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		f        taskFields
		notes    string
		priority domain.TaskPriority
		due      *time.Time
	)

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add a task to a project",
		Long:  "Add a task to a project. The category decides which pipeline stage the task counts toward.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			if (f.Title == "" || f.Category == "") && app.interactive() {
				if due != nil {
					f.Due = due.Format(dateLayout)
				}
				if err := taskForm(&f).Run(); err != nil {
					return err
				}
				if f.Due != "" {
					d, err := parseDate(f.Due)
					if err != nil {
						return err
					}
					due = &d
				}
			}
			if strings.TrimSpace(f.Title) == "" {
				return fmt.Errorf("--title is required")
			}
			if f.Category == "" {
				f.Category = domain.CategoryConsultation
			}

			t := &domain.Task{
				ProjectID: projectID,
				Title:     strings.TrimSpace(f.Title),
				Notes:     notes,
				Category:  f.Category,
				Priority:  priority,
				DueDate:   due,
			}
			if err := app.Tasks.Create(ctx, t); err != nil {
				return err
			}
			return printTaskSaved(cmd, app, "Added", t)
		},
	}

	cmd.Flags().StringVar(&f.Title, "title", "", "Task title")
	cmd.Flags().Var(newCategoryValue(&f.Category), "category", "consultation, design, ordering, installation, communication or administrative")
	cmd.Flags().Var(newPriorityValue(&priority), "priority", "low, medium, high or urgent")
	cmd.Flags().Var(newDateValue(&due), "due", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var openOnly bool

	cmd := &cobra.Command{
		Use:     "list PROJECT",
		Aliases: []string{"ls"},
		Short:   "List a project's tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, projectID)
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if openOnly {
				tasks = agenda.Open(tasks)
			}
			agenda.CanonicalSort(tasks)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList(p, tasks, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&openOnly, "open", false, "Hide completed tasks")

	return cmd
}

func newTaskStatusShortcutCmd(app *App, use, short, verb string, status domain.TaskStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " TASK",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setTaskStatus(cmd, app, args[0], status, verb)
		},
	}
}

func newTaskStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status TASK STATUS",
		Short: "Set a task's status (pending, in_progress, completed)",
		Long:  "Set a task's status. Tasks move forward from pending to in_progress to completed; use reopen to move back to pending.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseTaskStatus(args[1])
			if err != nil {
				return err
			}
			if status == domain.TaskPending {
				return reopenTask(cmd, app, args[0])
			}
			return setTaskStatus(cmd, app, args[0], status, "Updated")
		},
	}
}

func newTaskReopenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen TASK",
		Short: "Move a task back to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reopenTask(cmd, app, args[0])
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove TASK",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			taskID, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.GetByID(ctx, taskID)
			if err != nil {
				return err
			}
			if err := app.Tasks.Delete(ctx, taskID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", t.Title)
			return nil
		},
	}
}

func setTaskStatus(cmd *cobra.Command, app *App, input string, status domain.TaskStatus, verb string) error {
	ctx := cmd.Context()
	taskID, err := resolveTaskID(ctx, app, input)
	if err != nil {
		return err
	}
	t, err := app.Tasks.UpdateStatus(ctx, taskID, status)
	if err != nil {
		return err
	}
	return printTaskSaved(cmd, app, verb, t)
}

func reopenTask(cmd *cobra.Command, app *App, input string) error {
	ctx := cmd.Context()
	taskID, err := resolveTaskID(ctx, app, input)
	if err != nil {
		return err
	}
	t, err := app.Tasks.Reopen(ctx, taskID)
	if err != nil {
		return err
	}
	return printTaskSaved(cmd, app, "Reopened", t)
}

// printTaskSaved confirms a task change along with the project's new progress.
func printTaskSaved(cmd *cobra.Command, app *App, verb string, t *domain.Task) error {
	p, err := app.Projects.GetByID(cmd.Context(), t.ProjectID)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskSaved(verb, t, p))
	return nil
}
