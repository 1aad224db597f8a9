// Package app assembles the session shared by every fleetdeck command from
// the persistent flags and the fleetdeck config file.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aryankumar/fleetdeck/internal/cluster"
	"github.com/aryankumar/fleetdeck/internal/config"
	"github.com/aryankumar/fleetdeck/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ClientFactory builds clientsets for every command. Tests swap it for fakes.
var ClientFactory cluster.ClientFactory = cluster.DefaultClientFactory

// App is everything a command needs to talk to the active cluster
type App struct {
	Config  *config.FleetConfig
	Manager *config.Manager
	Store   *config.KubeconfigStore
	Session *cluster.Session
	Logger  *slog.Logger
	Format  output.Format

	out       io.Writer
	formatter output.Formatter
}

// New loads configuration and wires store, facade, orchestrator and session.
// No cluster is contacted until Run.
func New(cmd *cobra.Command) (*App, error) {
	logger := slog.Default()

	manager := config.NewManager(viper.GetString("config"))
	cfg, err := manager.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	format := viper.GetString("output")
	if format == "" {
		format = cfg.Defaults.OutputFormat
	}
	parsed, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	parallel := cfg.Defaults.Parallel
	if cmd.Flags().Changed("parallel") || parallel <= 0 {
		parallel = viper.GetInt("parallel")
	}

	store := config.NewKubeconfigStore(viper.GetString("kubeconfig"), logger)
	facade := cluster.NewFacade(store,
		cluster.WithClientFactory(ClientFactory),
		cluster.WithParallelism(parallel),
		cluster.WithLogger(logger))
	orchestrator := cluster.NewOrchestrator(store, facade, cfg.Sweep.ProbeTimeout, cfg.Sweep.ProbeRetries, logger)

	logger.Debug("session assembled",
		"kubeconfig", store.Paths(),
		"parallel", parallel,
		"probe_timeout", cfg.Sweep.ProbeTimeout)

	return &App{
		Config:    cfg,
		Manager:   manager,
		Store:     store,
		Session:   cluster.NewSession(store, facade, orchestrator, logger),
		Logger:    logger,
		Format:    parsed,
		out:       cmd.OutOrStdout(),
		formatter: output.NewFormatter(parsed, output.WithNoColor(viper.GetBool("no-color") || cfg.Defaults.NoColor)),
	}, nil
}

// Run calls fn against the current context, or against contextName when it
// is set. A named context is switched to for the duration of fn only. Either
// way fn runs holding the session gate.
func (a *App) Run(ctx context.Context, contextName string, fn func(ctx context.Context) error) error {
	run := func(ctx context.Context, h *cluster.Handles) error {
		a.Logger.Debug("connected", "context", h.Context)
		return fn(ctx)
	}

	if contextName == "" {
		return a.Session.WithCurrent(ctx, run)
	}
	return a.Session.WithContext(ctx, contextName, run)
}

// Print writes data in the selected output format
func (a *App) Print(data any) error {
	return a.formatter.Format(a.out, data)
}

// Namespace returns the -n flag; empty means the context's default namespace
func Namespace(cmd *cobra.Command) string {
	ns, _ := cmd.Flags().GetString("namespace")
	return ns
}

// TargetContext returns the --context flag
func TargetContext(cmd *cobra.Command) string {
	name, _ := cmd.Flags().GetString("context")
	return name
}

// Timeout bounds ctx with the --timeout flag when it is positive
func Timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := viper.GetDuration("timeout"); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}
