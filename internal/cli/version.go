package cli

import (
	"fmt"

	"github.com/aryankumar/fleetdeck/internal/output"
	"github.com/aryankumar/fleetdeck/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display detailed version information for the fleetdeck CLI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd)
		},
	}

	return cmd
}

func runVersion(cmd *cobra.Command) error {
	info := version.Get()

	format := viper.GetString("output")
	if format == "" {
		// Default to human-readable format
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
		return nil
	}

	parsed, err := output.ParseFormat(format)
	if err != nil {
		return err
	}

	var data any = info
	if parsed == output.FormatTable {
		data = map[string]string{
			"Version":    info.Version,
			"Commit":     info.Commit,
			"Build Time": info.BuildTime,
			"Go Version": info.GoVersion,
			"Platform":   info.Platform,
		}
	}

	formatter := output.NewFormatter(parsed, output.WithNoColor(viper.GetBool("no-color")))
	return formatter.Format(cmd.OutOrStdout(), data)
}
