package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/aryankumar/fleetdeck/internal/cli/app"
	"github.com/aryankumar/fleetdeck/internal/cluster"
	"github.com/aryankumar/fleetdeck/internal/output"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/types"
)

var patchTypes = map[string]types.PatchType{
	"merge":     types.MergePatchType,
	"strategic": types.StrategicMergePatchType,
	"json":      types.JSONPatchType,
}

// newPatchCmd creates the patch command
func newPatchCmd() *cobra.Command {
	var (
		patch     string
		patchType string
		namespace string
	)

	cmd := &cobra.Command{
		Use:   "patch KIND NAME --patch PATCH",
		Short: "Patch a resource in the current context",
		Example: `  # Add a label with a merge patch
  fleetdeck patch deployment web -n shop -p '{"metadata":{"labels":{"tier":"frontend"}}}'

  # JSON patch
  fleetdeck patch cm flags --type json -p '[{"op":"replace","path":"/data/beta","value":"on"}]'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(cmd, args[0], args[1], namespace, patchType, patch)
		},
	}

	cmd.Flags().StringVarP(&patch, "patch", "p", "", "the patch to apply")
	cmd.Flags().StringVar(&patchType, "type", "merge", "patch type (merge, strategic, json)")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "namespace (default is the context's namespace)")
	_ = cmd.MarkFlagRequired("patch")

	return cmd
}

func runPatch(cmd *cobra.Command, kindName, name, namespace, patchType, patch string) error {
	pt, ok := patchTypes[strings.ToLower(patchType)]
	if !ok {
		return fmt.Errorf("unknown patch type %q (want merge, strategic or json)", patchType)
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

	return a.Run(ctx, app.TargetContext(cmd), func(ctx context.Context) error {
		obj, err := a.Session.Facade().Patch(ctx, kind, name, namespace, pt, []byte(patch))
		if err != nil {
			return err
		}
		if a.Format == output.FormatTable {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q patched\n", kind, name)
			return nil
		}
		return a.Print(obj)
	})
}
