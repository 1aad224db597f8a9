package rollout

import (
	"context"

	"github.com/aryankumar/fleetdeck/internal/cli/app"
	"github.com/aryankumar/fleetdeck/internal/rollout"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history DEPLOYMENT",
		Short:   "List the revisions of a deployment, newest first",
		Example: `  fleetdeck rollout history web -n shop`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCoordinator(cmd, func(ctx context.Context, a *app.App, c *rollout.Coordinator) error {
				history, err := c.GetRevisionHistory(ctx, args[0], app.Namespace(cmd))
				if err != nil {
					return err
				}
				return a.Print(app.RevisionList(history))
			})
		},
	}

	return cmd
}
