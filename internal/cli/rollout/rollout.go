package rollout

import (
	"context"

	"github.com/aryankumar/fleetdeck/internal/cli/app"
	"github.com/aryankumar/fleetdeck/internal/rollout"
	"github.com/spf13/cobra"
)

// NewRolloutCmd creates the rollout command with its subcommands
func NewRolloutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Manage deployment rollouts",
		Long: `Inspect and steer deployment rollouts in the current context, or in the
context given by --context.`,
	}

	cmd.PersistentFlags().StringP("namespace", "n", "", "namespace (default is the context's namespace)")

	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newUndoCmd())
	cmd.AddCommand(newActionCmd("pause", "Pause a deployment rollout", "paused", (*rollout.Coordinator).Pause))
	cmd.AddCommand(newActionCmd("resume", "Resume a paused deployment rollout", "resumed", (*rollout.Coordinator).Resume))
	cmd.AddCommand(newActionCmd("restart", "Restart every pod of a deployment", "restarted", (*rollout.Coordinator).Restart))

	return cmd
}

// withCoordinator runs fn with a coordinator bound to the target context
func withCoordinator(cmd *cobra.Command, fn func(ctx context.Context, a *app.App, c *rollout.Coordinator) error) error {
	a, err := app.New(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := app.Timeout(cmd.Context())
	defer cancel()

	return a.Run(ctx, app.TargetContext(cmd), func(ctx context.Context) error {
		return fn(ctx, a, rollout.NewCoordinator(a.Session.Facade(), a.Logger))
	})
}
