package delete

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aryankumar/fleetdeck/internal/cli/app"
	"github.com/aryankumar/fleetdeck/internal/cluster"
	"github.com/spf13/cobra"
)

type deleteOptions struct {
	namespace        string
	skipConfirmation bool
}

// NewDeleteCmd creates the delete command
func NewDeleteCmd() *cobra.Command {
	opts := &deleteOptions{}

	cmd := &cobra.Command{
		Use:   "delete KIND NAME",
		Short: "Delete a resource from the current context",
		Long: `Delete one pod, deployment, service, configmap or secret from the current
context, or from the context given by --context.

Requires confirmation unless --yes is given.`,
		Example: `  # Delete a pod in the default namespace
  fleetdeck delete pod web-7d9c -n shop

  # Delete a configmap in another context without prompting
  fleetdeck delete cm feature-flags -n shop --context staging --yes`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "", "namespace (default is the context's namespace)")
	cmd.Flags().BoolVarP(&opts.skipConfirmation, "yes", "y", false, "skip confirmation prompt")

	return cmd
}

func runDelete(cmd *cobra.Command, kindName, name string, opts *deleteOptions) error {
	kind, err := cluster.ParseKind(kindName)
	if err != nil {
		return err
	}

	a, err := app.New(cmd)
	if err != nil {
		return err
	}

	if !opts.skipConfirmation {
		target := app.TargetContext(cmd)
		if target == "" {
			target = "the current context"
		}
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
			fmt.Sprintf("Delete %s %q from %s? [y/N]: ", kind, name, target))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
			return nil
		}
	}

	ctx, cancel := app.Timeout(cmd.Context())
	defer cancel()

	err = a.Run(ctx, app.TargetContext(cmd), func(ctx context.Context) error {
		return a.Session.Facade().DeleteResource(ctx, kind, name, opts.namespace)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %q deleted\n", kind, name)
	return nil
}

// confirm reads a y/yes answer from in
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
