package cluster

import (
	"fmt"
	"sort"

	"github.com/aryankumar/fleetdeck/internal/cli/app"
	"github.com/aryankumar/fleetdeck/internal/config"
	"github.com/spf13/cobra"
)

// newListCmd creates the cluster list command
func newListCmd() *cobra.Command {
	var selector map[string]string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List kubeconfig contexts",
		Long: `List all contexts from your kubeconfig file(s).

The current context is listed first and marked with '*'. Aliases and labels
come from the fleetdeck config file.`,
		Example: `  # List all contexts
  fleetdeck cluster list

  # Only production contexts
  fleetdeck cluster list --selector env=production`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, selector)
		},
	}

	cmd.Flags().StringToStringVarP(&selector, "selector", "l", nil, "filter by fleetdeck config labels (key=value)")

	return cmd
}

func runList(cmd *cobra.Command, selector map[string]string) error {
	a, err := app.New(cmd)
	if err != nil {
		return err
	}

	contexts, err := a.Session.ListContexts()
	if err != nil {
		return fmt.Errorf("failed to list contexts: %w", err)
	}

	contexts = a.Manager.MergeContextInfo(contexts)
	contexts = a.Manager.FilterByLabels(contexts, selector)
	sortCurrentFirst(contexts)

	a.Logger.Debug("listed contexts", "count", len(contexts))
	return a.Print(app.ContextList(contexts))
}

// sortCurrentFirst keeps the store's name order but moves the current context to the top
func sortCurrentFirst(contexts []config.ClusterContext) {
	sort.SliceStable(contexts, func(i, j int) bool {
		return contexts[i].Current && !contexts[j].Current
	})
}
