package cluster

import (
	"fmt"

	"github.com/aryankumar/fleetdeck/internal/cli/app"
	"github.com/spf13/cobra"
)

// newRemoveCmd creates the cluster remove command
func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a context from the kubeconfig",
		Long: `Remove a context from your kubeconfig.

The current context cannot be removed; switch away from it first. Cluster and
user entries are kept since other contexts may share them.`,
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, args[0])
		},
	}

	return cmd
}

func runRemove(cmd *cobra.Command, name string) error {
	a, err := app.New(cmd)
	if err != nil {
		return err
	}

	if err := a.Session.RemoveContext(cmd.Context(), name); err != nil {
		return err
	}

	if _, ok := a.Manager.GetClusterConfig(name); ok {
		a.Manager.RemoveClusterConfig(name)
		if err := a.Manager.Save(); err != nil {
			return fmt.Errorf("context removed but config not saved: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed context %q\n", name)
	return nil
}
