package cli

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// completionVersion hashes the command tree so stale completion scripts
// can be recognized.
func completionVersion(root *cobra.Command) string {
	h := sha256.New()
	h.Write([]byte(Version))

	var walkCommands func(*cobra.Command)
	walkCommands = func(cmd *cobra.Command) {
		h.Write([]byte(cmd.Use))
		cmd.Flags().VisitAll(func(flag *pflag.Flag) {
			h.Write([]byte(flag.Name))
		})
		for _, subCmd := range cmd.Commands() {
			walkCommands(subCmd)
		}
	}
	walkCommands(root)

	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate completion script",
	Long: `Generate shell completion scripts.

Bash:
  $ source <(gitgrade completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ gitgrade completion bash > /etc/bash_completion.d/gitgrade
  # macOS:
  $ gitgrade completion bash > /usr/local/etc/bash_completion.d/gitgrade

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ gitgrade completion zsh > "${fpath[1]}/_gitgrade"

Fish:
  $ gitgrade completion fish | source

  # To load completions for each session, execute once:
  $ gitgrade completion fish > ~/.config/fish/completions/gitgrade.fish

PowerShell:
  PS> gitgrade completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		root := cmd.Root()
		writeCompletionHeader(out, root)

		switch args[0] {
		case "bash":
			return root.GenBashCompletionV2(out, true)
		case "zsh":
			return root.GenZshCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, true)
		default:
			return root.GenPowerShellCompletionWithDesc(out)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// writeCompletionHeader writes version metadata as a comment in completion scripts
func writeCompletionHeader(w io.Writer, root *cobra.Command) {
	_, _ = fmt.Fprintf(w, "# gitgrade completion version: %s\n", completionVersion(root))
	_, _ = fmt.Fprintf(w, "# gitgrade version: %s\n\n", Version)
}
