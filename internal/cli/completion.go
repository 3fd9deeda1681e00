package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/areamap/pkg/logic"
	"github.com/matzehuels/areamap/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for areamap.

Besides commands and flags, the scripts complete logic files (.json,
.toml), land masks (.png), output formats and, once a logic file is on the
command line, its area ids for --highlight and --choose.

Bash:
  $ source <(areamap completion bash)

Zsh:
  $ areamap completion zsh > "${fpath[1]}/_areamap"

Fish:
  $ areamap completion fish > ~/.config/fish/completions/areamap.fish

PowerShell:
  PS> areamap completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(c.Out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.Out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.Out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.Out)
			}
			return nil
		},
	}

	return cmd
}

// completeLogicFile completes the logic file taken as the first argument.
func completeLogicFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json", "toml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeImage completes png paths for masks and base maps.
func completeImage(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"png"}, cobra.ShellCompDirectiveFilterFileExt
}

func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	formats := []string{
		pipeline.FormatPNG + "\tcomposited map",
		pipeline.FormatOverlay + "\ttransparent territory layer",
		pipeline.FormatJSON + "\tper-region summary",
	}
	// Complete the last item of a comma-separated list.
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = prefix + f
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeAreaIDs offers the area ids of the logic file in args[0], with
// their starting power as the description.
func completeAreaIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	l, err := logic.Load(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	var out []string
	for _, a := range l.Areas {
		out = append(out, prefix+a.ID+"\tpower "+formatStat(a.Power))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// registerCompletions attaches fn to each named flag of cmd.
func registerCompletions(cmd *cobra.Command, fn func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective), flags ...string) {
	for _, name := range flags {
		_ = cmd.RegisterFlagCompletionFunc(name, fn)
	}
}
