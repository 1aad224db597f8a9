package cli

import (
	"context"

	"github.com/aryankumar/fleetdeck/internal/cli/app"
	"github.com/aryankumar/fleetdeck/internal/output"
	"github.com/spf13/cobra"
)

// newMetricsCmd creates the metrics command
func newMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show aggregate counts and utilization of the current context",
		Long: `Show node, pod, namespace, deployment and service counts together with CPU
and memory utilization from metrics-server.

Nothing is printed unless every figure could be gathered; the error names the
parts that failed.`,
		Aliases: []string{"top"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetrics(cmd)
		},
	}

	return cmd
}

func runMetrics(cmd *cobra.Command) error {
	a, err := app.New(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := app.Timeout(cmd.Context())
	defer cancel()

	return a.Run(ctx, app.TargetContext(cmd), func(ctx context.Context) error {
		m, err := a.Session.Facade().GetAggregateMetrics(ctx)
		if err != nil {
			return err
		}
		if a.Format == output.FormatTable {
			return a.Print(app.MetricsView(m))
		}
		return a.Print(m)
	})
}
