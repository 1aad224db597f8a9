package rollout

import (
	"context"
	"fmt"

	"github.com/aryankumar/fleetdeck/internal/cli/app"
	"github.com/aryankumar/fleetdeck/internal/rollout"
	"github.com/spf13/cobra"
)

type actionFunc func(c *rollout.Coordinator, ctx context.Context, name, namespace string) error

// newActionCmd builds the pause, resume and restart commands, which differ only in the coordinator call
func newActionCmd(use, short, done string, action actionFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use + " DEPLOYMENT",
		Short:   short,
		Example: fmt.Sprintf("  fleetdeck rollout %s web -n shop", use),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCoordinator(cmd, func(ctx context.Context, _ *app.App, c *rollout.Coordinator) error {
				if err := action(c, ctx, args[0], app.Namespace(cmd)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deployment %q %s\n", args[0], done)
				return nil
			})
		},
	}

	return cmd
}
