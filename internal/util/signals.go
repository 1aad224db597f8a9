package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context cancelled on SIGINT or SIGTERM.
// Cancellation lets an in-flight sweep run its restore step before the process exits;
// a second signal exits immediately.
func SetupSignalHandler(logger *slog.Logger) context.Context {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()

		sig = <-sigCh
		logger.Warn("received second shutdown signal, forcing exit", "signal", sig.String())
		os.Exit(1)
	}()

	return ctx
}
