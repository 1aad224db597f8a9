package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/aryankumar/fleetdeck/internal/cli/cluster"
	"github.com/aryankumar/fleetdeck/internal/cli/delete"
	"github.com/aryankumar/fleetdeck/internal/cli/get"
	"github.com/aryankumar/fleetdeck/internal/cli/rollout"
	"github.com/aryankumar/fleetdeck/internal/cli/serve"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
)

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fleetdeck",
		Short: "Fleetdeck - work across many Kubernetes clusters from one session",
		Long: `Fleetdeck keeps one active Kubernetes context at a time and lets you switch
between contexts, sweep every cluster for health, manage resources and steer
deployment rollouts from the CLI or its HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}

	// Define persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fleetdeck.yaml)")
	rootCmd.PersistentFlags().String("kubeconfig", "", "path to kubeconfig file (default is $HOME/.kube/config)")
	rootCmd.PersistentFlags().String("context", "", "run against this context and restore the current one afterwards")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (json, yaml, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output with debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "timeout for single-cluster operations")
	rootCmd.PersistentFlags().Int("parallel", 5, "number of parallel fetches for aggregate metrics")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("kubeconfig", rootCmd.PersistentFlags().Lookup("kubeconfig"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("parallel", rootCmd.PersistentFlags().Lookup("parallel"))

	// Add subcommands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(cluster.NewClusterCmd())
	rootCmd.AddCommand(get.NewGetCmd())
	rootCmd.AddCommand(delete.NewDeleteCmd())
	rootCmd.AddCommand(newScaleCmd())
	rootCmd.AddCommand(newPatchCmd())
	rootCmd.AddCommand(newMetricsCmd())
	rootCmd.AddCommand(rollout.NewRolloutCmd())
	rootCmd.AddCommand(serve.NewServeCmd())

	registerCompletions(rootCmd)

	return rootCmd
}

// initConfig initializes configuration and logging
func initConfig(cmd *cobra.Command) error {
	// Initialize viper configuration
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".fleetdeck")
	}

	// Read environment variables
	viper.SetEnvPrefix("FLEETDECK")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Setup structured logging
	setupLogging(cmd)

	return nil
}

// setupLogging configures structured logging with slog
func setupLogging(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")

	// Set log level based on verbose flag
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if noColor {
		// Machine-readable logs for no-color mode
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	} else {
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	if verbose {
		slog.Debug("verbose logging enabled")
		if viper.ConfigFileUsed() != "" {
			slog.Debug("loaded configuration", "file", viper.ConfigFileUsed())
		}
	}
}
