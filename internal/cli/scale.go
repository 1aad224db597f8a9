package cli

import (
	"context"
	"fmt"

	"github.com/aryankumar/fleetdeck/internal/cli/app"
	"github.com/aryankumar/fleetdeck/internal/cluster"
	"github.com/spf13/cobra"
)

// newScaleCmd creates the scale command
func newScaleCmd() *cobra.Command {
	var (
		replicas  int32
		namespace string
	)

	cmd := &cobra.Command{
		Use:     "scale KIND NAME --replicas COUNT",
		Short:   "Set the replica count of a deployment",
		Example: `  fleetdeck scale deployment web --replicas 3 -n shop`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScale(cmd, args[0], args[1], namespace, replicas)
		},
	}

	cmd.Flags().Int32Var(&replicas, "replicas", 0, "desired replica count")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "namespace (default is the context's namespace)")
	_ = cmd.MarkFlagRequired("replicas")

	return cmd
}

func runScale(cmd *cobra.Command, kindName, name, namespace string, replicas int32) error {
	if replicas < 0 {
		return fmt.Errorf("replicas must not be negative, got %d", replicas)
	}

	kind, err := cluster.ParseKind(kindName)
	if err != nil {
		return err
	}

	a, err := app.New(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := app.Timeout(cmd.Context())
	defer cancel()

	err = a.Run(ctx, app.TargetContext(cmd), func(ctx context.Context) error {
		return a.Session.Facade().Scale(ctx, kind, name, namespace, replicas)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %q scaled to %d\n", kind, name, replicas)
	return nil
}
