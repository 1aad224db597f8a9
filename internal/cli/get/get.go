package get

import (
	"context"
	"strings"

	"github.com/aryankumar/fleetdeck/internal/cli/app"
	"github.com/aryankumar/fleetdeck/internal/cluster"
	"github.com/aryankumar/fleetdeck/internal/output"
	"github.com/spf13/cobra"
)

type getOptions struct {
	namespace     string
	allNamespaces bool
}

// NewGetCmd creates the get command
func NewGetCmd() *cobra.Command {
	opts := &getOptions{}

	cmd := &cobra.Command{
		Use:   "get KIND [NAME]",
		Short: "Display resources in the current context",
		Long: `Display resources of one kind in the current context, or in the context
given by --context.

Supported kinds: ` + kindList() + `. With NAME and -o json|yaml the
full object is printed.`,
		Example: `  # Pods in the context's default namespace
  fleetdeck get pods

  # Deployments in every namespace
  fleetdeck get deploy -A

  # One service as YAML from another context
  fleetdeck get svc api -n shop -o yaml --context prod-eu`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: kindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			return runGet(cmd, args[0], name, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "", "namespace (default is the context's namespace)")
	cmd.Flags().BoolVarP(&opts.allNamespaces, "all-namespaces", "A", false, "list across all namespaces")

	return cmd
}

func runGet(cmd *cobra.Command, kindName, name string, opts *getOptions) error {
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

	facade := a.Session.Facade()
	return a.Run(ctx, app.TargetContext(cmd), func(ctx context.Context) error {
		if name != "" && a.Format != output.FormatTable {
			obj, err := facade.Get(ctx, kind, name, opts.namespace)
			if err != nil {
				return err
			}
			return a.Print(obj)
		}

		rows, err := facade.List(ctx, kind, opts.namespace, opts.allNamespaces)
		if err != nil {
			return err
		}
		if name != "" {
			rows = filterByName(rows, name)
			if len(rows) == 0 {
				_, err := facade.Get(ctx, kind, name, opts.namespace)
				if err != nil {
					return err
				}
			}
		}

		a.Logger.Debug("listed resources", "kind", kind, "count", len(rows))
		return a.Print(app.ResourceList(rows))
	})
}

func filterByName(rows []cluster.ResourceSummary, name string) []cluster.ResourceSummary {
	filtered := make([]cluster.ResourceSummary, 0, 1)
	for _, r := range rows {
		if r.Name == name {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func kindNames() []string {
	kinds := cluster.Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}
	return names
}

func kindList() string {
	return strings.Join(kindNames(), ", ")
}
