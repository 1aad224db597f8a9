package cli

import (
	"fmt"
	"strings"

	"github.com/aryankumar/fleetdeck/internal/cluster"
	"github.com/aryankumar/fleetdeck/internal/config"
	"github.com/spf13/cobra"
)

// newCompletionCmd creates the completion command for generating shell completions
func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for fleetdeck.

Besides commands and flags the scripts complete context names for --context,
"cluster switch" and "cluster remove", read live from your kubeconfig, and
resource kinds for delete, scale and patch.

Bash:
  $ source <(fleetdeck completion bash)

  # Persist for new sessions (Linux, then macOS):
  $ fleetdeck completion bash > /etc/bash_completion.d/fleetdeck
  $ fleetdeck completion bash > $(brew --prefix)/etc/bash_completion.d/fleetdeck

Zsh:
  # compinit must be enabled; add it to ~/.zshrc if it is not:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  $ fleetdeck completion zsh > "${fpath[1]}/_fleetdeck"

Fish:
  $ fleetdeck completion fish > ~/.config/fish/completions/fleetdeck.fish

PowerShell:
  PS> fleetdeck completion powershell | Out-String | Invoke-Expression

Open a new shell afterwards.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Generating a script needs neither config nor kubeconfig
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompletion(cmd, args[0])
		},
	}

	return cmd
}

// runCompletion generates the completion script for the specified shell
func runCompletion(cmd *cobra.Command, shell string) error {
	out := cmd.OutOrStdout()
	switch shell {
	case "bash":
		return cmd.Root().GenBashCompletion(out)
	case "zsh":
		return cmd.Root().GenZshCompletion(out)
	case "fish":
		return cmd.Root().GenFishCompletion(out, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(out)
	default:
		return fmt.Errorf("unsupported shell type %q", shell)
	}
}

// registerCompletions hooks dynamic completion into the command tree
func registerCompletions(root *cobra.Command) {
	_ = root.RegisterFlagCompletionFunc("context", completeContexts)

	for _, path := range [][]string{{"cluster", "switch"}, {"cluster", "remove"}} {
		if cmd, _, err := root.Find(path); err == nil {
			cmd.ValidArgsFunction = firstArg(completeContexts)
		}
	}
	for _, name := range []string{"delete", "scale", "patch"} {
		if cmd, _, err := root.Find([]string{name}); err == nil {
			cmd.ValidArgsFunction = firstArg(completeKinds)
		}
	}
}

type completionFunc func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective)

// firstArg limits fn to the first positional argument
func firstArg(fn completionFunc) completionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return fn(cmd, args, toComplete)
	}
}

// completeContexts offers kubeconfig context names, described by server
func completeContexts(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	kubeconfig, _ := cmd.Flags().GetString("kubeconfig")

	contexts, err := config.NewKubeconfigStore(kubeconfig, nil).ListContexts()
	if err != nil {
		cobra.CompDebugln("listing contexts: "+err.Error(), true)
		return nil, cobra.ShellCompDirectiveError
	}

	names := make([]string, 0, len(contexts))
	for _, cc := range contexts {
		if strings.HasPrefix(cc.Name, toComplete) {
			names = append(names, cc.Name+"\t"+cc.Server)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeKinds offers the canonical names of the supported kinds
func completeKinds(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, k := range cluster.Kinds() {
		if strings.HasPrefix(k.String(), toComplete) {
			names = append(names, k.String())
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
