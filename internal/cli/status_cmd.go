package cli

import (
	"fmt"

	"github.com/alexanderramin/atelier/internal/app"
	"github.com/alexanderramin/atelier/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *App) *cobra.Command {
	var (
		scope []string
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the studio overview",
		Long:  "Show every active project's stage and live progress, flagging stored progress that no longer matches its tasks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.NewStatusRequest()
			req.ProjectScope = scope
			req.IncludeArchived = all

			now := a.now()
			req.Now = &now

			resp, err := a.Status.GetStatus(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatus(resp))
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&scope, "project", nil, "Limit to these projects (short ID or UUID, repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")

	return cmd
}
