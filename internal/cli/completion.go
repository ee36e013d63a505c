package cli

import "github.com/spf13/cobra"

// completionCommand writes shell completion scripts to c.Out.
func (c *CLI) completionCommand() *cobra.Command {
	gen := map[string]func(*cobra.Command) error{
		"bash":       func(root *cobra.Command) error { return root.GenBashCompletionV2(c.Out, true) },
		"zsh":        func(root *cobra.Command) error { return root.GenZshCompletion(c.Out) },
		"fish":       func(root *cobra.Command) error { return root.GenFishCompletion(c.Out, true) },
		"powershell": func(root *cobra.Command) error { return root.GenPowerShellCompletionWithDesc(c.Out) },
	}

	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell.

  source <(journey completion bash)
  journey completion zsh > "${fpath[1]}/_journey"
  journey completion fish > ~/.config/fish/completions/journey.fish
  journey completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return gen[args[0]](cmd.Root())
		},
	}
}
