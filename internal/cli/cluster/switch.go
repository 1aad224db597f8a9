package cluster

import (
	"fmt"

	"github.com/aryankumar/fleetdeck/internal/cli/app"
	"github.com/spf13/cobra"
)

// newSwitchCmd creates the cluster switch command
func newSwitchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switch NAME",
		Short: "Make a context the current context",
		Long: `Make NAME the current context and verify it by building its clients.

If the clients cannot be built the previous current context is restored and
the kubeconfig is left unchanged.`,
		Aliases: []string{"use"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSwitch(cmd, args[0])
		},
	}

	return cmd
}

func runSwitch(cmd *cobra.Command, name string) error {
	a, err := app.New(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := app.Timeout(cmd.Context())
	defer cancel()

	if err := a.Session.SwitchContext(ctx, name); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Switched to context %q\n", name)
	return nil
}
