package cluster

import (
	"fmt"

	"github.com/aryankumar/fleetdeck/internal/cli/app"
	"github.com/aryankumar/fleetdeck/internal/config"
	"github.com/spf13/cobra"
)

type addOptions struct {
	cluster   string
	server    string
	user      string
	namespace string
	alias     string
	labels    map[string]string
}

// newAddCmd creates the cluster add command
func newAddCmd() *cobra.Command {
	opts := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a context to the kubeconfig",
		Long: `Add a new context to your kubeconfig.

The context points at an existing cluster entry (--cluster) or at a new one
created from --server, and uses an existing user entry (--user). An alias and
labels are stored in the fleetdeck config file.`,
		Example: `  # Reuse an existing cluster entry
  fleetdeck cluster add staging-admin --cluster staging --user admin

  # Create the cluster entry too
  fleetdeck cluster add edge --server https://10.0.0.1:6443 --user edge-admin -l env=edge`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.cluster, "cluster", "", "kubeconfig cluster entry (default NAME)")
	cmd.Flags().StringVar(&opts.server, "server", "", "API server URL, used when the cluster entry does not exist")
	cmd.Flags().StringVar(&opts.user, "user", "", "kubeconfig user entry holding the credentials")
	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "", "default namespace")
	cmd.Flags().StringVar(&opts.alias, "alias", "", "friendly name stored in the fleetdeck config")
	cmd.Flags().StringToStringVarP(&opts.labels, "label", "l", nil, "labels stored in the fleetdeck config (key=value)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runAdd(cmd *cobra.Command, name string, opts *addOptions) error {
	a, err := app.New(cmd)
	if err != nil {
		return err
	}

	err = a.Session.AddContext(cmd.Context(), config.ClusterContext{
		Name:           name,
		Cluster:        opts.cluster,
		Server:         opts.server,
		Namespace:      opts.namespace,
		CredentialsRef: opts.user,
	})
	if err != nil {
		return err
	}

	if opts.alias != "" || len(opts.labels) > 0 {
		a.Manager.SetClusterConfig(name, config.ClusterConfig{Alias: opts.alias, Labels: opts.labels})
		if err := a.Manager.Save(); err != nil {
			return fmt.Errorf("context added but config not saved: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added context %q\n", name)
	return nil
}
