package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plt-rs/plt/pkg/config"
	"github.com/plt-rs/plt/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for plt.

Besides command names, the scripts complete description files for
"plt render" (.toml, .yaml, .yml, .json), output formats for --format,
including comma-separated lists, and description formats for --input-format.

Load them for the current shell:

  $ source <(plt completion bash)
  $ source <(plt completion zsh)
  $ plt completion fish | source
  PS> plt completion powershell | Out-String | Invoke-Expression

To keep them, write the script where your shell looks for completions,
e.g. "plt completion zsh > ${fpath[1]}/_plt", and start a new shell.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// descriptionExtensions are the file extensions config.Load understands.
var descriptionExtensions = []string{"toml", "yaml", "yml", "json"}

// completeDescription completes the render argument with description files.
func completeDescription(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return descriptionExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completeOutputFormats completes the last entry of a comma-separated
// format list, skipping formats already listed.
func completeOutputFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, last = toComplete[:i+1], toComplete[i+1:]
	}
	var listed []string
	if done != "" {
		listed = parseFormats(done)
	}

	var out []string
	for _, f := range sortedKeys(pipeline.ValidFormats) {
		if strings.HasPrefix(f, last) && !slices.Contains(listed, f) {
			out = append(out, done+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeInputFormats completes --input-format.
func completeInputFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return sortedKeys(config.Formats), cobra.ShellCompDirectiveNoFileComp
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
