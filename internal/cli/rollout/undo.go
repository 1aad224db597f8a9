package rollout

import (
	"context"
	"fmt"

	"github.com/aryankumar/fleetdeck/internal/cli/app"
	"github.com/aryankumar/fleetdeck/internal/output"
	"github.com/aryankumar/fleetdeck/internal/rollout"
	"github.com/spf13/cobra"
)

func newUndoCmd() *cobra.Command {
	var toRevision int64

	cmd := &cobra.Command{
		Use:   "undo DEPLOYMENT --to-revision N",
		Short: "Roll a deployment back to an earlier revision",
		Long: `Roll a deployment back to the pod template of revision N.

The revision must exist in 'rollout history'. Rolling back to the current
revision changes nothing. If the deployment was modified concurrently the
rollback is refused and can be retried.`,
		Example: `  fleetdeck rollout undo web -n shop --to-revision 2`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCoordinator(cmd, func(ctx context.Context, a *app.App, c *rollout.Coordinator) error {
				result, err := c.RollbackToRevision(ctx, args[0], app.Namespace(cmd), toRevision)
				if err != nil {
					return err
				}
				if a.Format != output.FormatTable {
					return a.Print(result)
				}

				if !result.Changed {
					fmt.Fprintf(cmd.OutOrStdout(), "deployment %q already at revision %d\n", result.Deployment, result.Revision)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deployment %q rolled back to revision %d\n", result.Deployment, result.Revision)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&toRevision, "to-revision", 0, "revision to roll back to")
	_ = cmd.MarkFlagRequired("to-revision")

	return cmd
}
