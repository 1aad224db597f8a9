package cluster

import (
	"github.com/aryankumar/fleetdeck/internal/cli/app"
	"github.com/spf13/cobra"
)

// newSweepCmd creates the cluster sweep command
func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Probe every context and report its health",
		Long: `Visit every context in turn, count its nodes, pods and namespaces, and
report whether it is reachable.

One unreachable cluster never stops the sweep. The current context is put
back when the sweep ends, also when it is interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd)
		},
	}

	return cmd
}

func runSweep(cmd *cobra.Command) error {
	a, err := app.New(cmd)
	if err != nil {
		return err
	}

	snapshots, err := a.Session.Sweep(cmd.Context())
	if len(snapshots) > 0 {
		if printErr := a.Print(app.SnapshotList(snapshots)); printErr != nil {
			return printErr
		}
	}
	return err
}
