package serve

import (
	"context"
	"errors"
	"time"

	"github.com/aryankumar/fleetdeck/internal/cli/app"
	"github.com/aryankumar/fleetdeck/internal/httpserver"
	"github.com/aryankumar/fleetdeck/internal/scheduler"
	"github.com/aryankumar/fleetdeck/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

type serveOptions struct {
	address  string
	schedule string
}

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the panel HTTP API",
		Long: `Serve the fleetdeck HTTP API and Prometheus metrics.

When a sweep schedule is configured (--sweep-schedule or sweep.schedule in
the config file) sweeps also run periodically; a tick that finds another
switch or sweep in progress is skipped.`,
		Example: `  # Listen on :8080
  fleetdeck serve

  # Sweep every five minutes
  fleetdeck serve --address 127.0.0.1:9090 --sweep-schedule "@every 5m"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.address, "address", "", "listen address (default from config, then :8080)")
	cmd.Flags().StringVar(&opts.schedule, "sweep-schedule", "", "cron spec for periodic sweeps")

	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	a, err := app.New(cmd)
	if err != nil {
		return err
	}

	address := opts.address
	if address == "" {
		address = a.Config.Server.Address
	}
	schedule := opts.schedule
	if schedule == "" {
		schedule = a.Config.Sweep.Schedule
	}

	var sched *scheduler.Scheduler
	if schedule != "" {
		if sched, err = scheduler.New(schedule, a.Session, a.Logger); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	if err := a.Session.Init(ctx); err != nil {
		// the API stays useful for listing and switching contexts
		a.Logger.Warn("current context unavailable", "error", util.FriendlyError(err))
	}

	server := httpserver.New(a.Logger, a.Session, address)
	if err := server.Start(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	if sched != nil {
		g.Go(func() error {
			return sched.Run(ctx)
		})
	}
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
