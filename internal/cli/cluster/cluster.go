package cluster

import (
	"github.com/spf13/cobra"
)

// NewClusterCmd creates the cluster command with its subcommands
func NewClusterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Manage kubeconfig contexts",
		Long: `Manage the kubeconfig contexts fleetdeck works against.

Contexts are read from and written to your kubeconfig file(s). Switching a
context is permanent; sweeps visit every context and always put the original
current context back when they finish.`,
		Aliases: []string{"clusters", "ctx"},
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newSwitchCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newSweepCmd())

	return cmd
}
