package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for globecover.

  bash:        source <(globecover completion bash)
  zsh:         globecover completion zsh > "${fpath[1]}/_globecover"
  fish:        globecover completion fish | source
  powershell:  globecover completion powershell | Out-String | Invoke-Expression

Completion scripts do not read globecover.toml, so a broken config file
never breaks tab completion.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	// Overrides the root hook that loads the config file.
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return nil }

	return cmd
}
