package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aryankumar/fleetdeck/internal/cli"
	"github.com/aryankumar/fleetdeck/internal/util"
)

func main() {
	// Cancelled on SIGINT/SIGTERM so sweeps can restore the current context
	ctx := util.SetupSignalHandler(slog.Default())

	if err := cli.Execute(ctx); err != nil {
		slog.Debug("command failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", util.FriendlyError(err))
		os.Exit(1)
	}
}
