package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/atelier/internal/app"
	"github.com/alexanderramin/atelier/internal/cli/formatter"
	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/spf13/cobra"
)

func newReturnCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "return",
		Aliases: []string{"r"},
		Short:   "Track vendor returns",
	}

	cmd.AddCommand(
		newReturnAddCmd(app),
		newReturnListCmd(app),
		newReturnResolveCmd(app),
		newReturnSweepCmd(app),
	)

	return cmd
}

func newReturnAddCmd(app *App) *cobra.Command {
	var (
		item, vendor string
		amount       float64
		due          *time.Time
	)

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Record a vendor return to chase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if due == nil {
				return fmt.Errorf("--due is required")
			}
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			r := &domain.Return{
				ProjectID:   projectID,
				Item:        strings.TrimSpace(item),
				Vendor:      strings.TrimSpace(vendor),
				AmountCents: int64(math.Round(amount * 100)),
				DueDate:     *due,
			}
			if err := app.Returns.Create(ctx, r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Recorded return %s  %s  %s due %s\n",
				formatter.StyleGreen.Render("✔"), formatter.TruncID(r.ID), formatter.Bold(r.Item),
				formatter.FormatCents(r.AmountCents), r.DueDate.Format(dateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&item, "item", "", "Returned item")
	cmd.Flags().StringVar(&vendor, "vendor", "", "Vendor the item goes back to")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Refund amount in dollars")
	cmd.Flags().Var(newDateValue(&due), "due", "Date the return should be settled by (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("item")

	return cmd
}

func newReturnListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List vendor returns",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			returns, err := app.Returns.List(ctx, !all)
			if err != nil {
				return err
			}
			projects, err := app.Projects.List(ctx, true)
			if err != nil {
				return err
			}
			ids := make(map[string]string, len(projects))
			for _, p := range projects {
				ids[p.ID] = p.DisplayID()
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatReturnList(returns, ids, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include resolved returns")

	return cmd
}

func newReturnResolveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve RETURN STATUS",
		Short: "Close a return as shipped, refunded or cancelled",
		Long:  "Close a return as shipped, refunded or cancelled. A chase task created by the sweep is completed along with it.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			status, err := domain.ParseReturnStatus(args[1])
			if err != nil {
				return err
			}
			returnID, err := resolveReturnID(ctx, app, args[0])
			if err != nil {
				return err
			}
			r, err := app.Returns.Resolve(ctx, returnID, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(r.Item), formatter.ReturnStatusPill(r.Status))
			return nil
		},
	}
}

func newReturnSweepCmd(a *App) *cobra.Command {
	var (
		asOf   *time.Time
		dryRun bool
		every  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Turn overdue returns into prioritized chase tasks",
		Long: "Turn every open return past its due date into a chase task on its project. " +
			"Priority rises with days overdue. With --every the sweep repeats until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("every") {
				if asOf != nil {
					return fmt.Errorf("--as-of cannot be combined with --every")
				}
				if every <= 0 {
					every = a.SweepInterval
				}
				if every <= 0 {
					return fmt.Errorf("--every must be a positive duration")
				}
				return sweepLoop(cmd, a, every, dryRun)
			}

			req := app.SweepRequest{DryRun: dryRun}
			if asOf != nil {
				req.AsOf = *asOf
			}
			return sweepOnce(cmd, a, req)
		},
	}

	cmd.Flags().Var(newDateValue(&asOf), "as-of", "Sweep as of this date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be promoted without writing")
	cmd.Flags().DurationVar(&every, "every", 0, "Repeat the sweep at this interval until interrupted (0 uses the configured interval)")

	return cmd
}

func sweepOnce(cmd *cobra.Command, a *App, req app.SweepRequest) error {
	res, err := a.Returns.Sweep(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSweepResult(res))
	return nil
}

// sweepLoop sweeps immediately and then on every tick until the command's
// context is cancelled.
func sweepLoop(cmd *cobra.Command, a *App, every time.Duration, dryRun bool) error {
	ctx := cmd.Context()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.Dim(fmt.Sprintf("Sweeping every %s (Ctrl+C to stop)", every)))
	for {
		if err := sweepOnce(cmd, a, app.SweepRequest{DryRun: dryRun}); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			if ctx.Err() == context.Canceled {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
