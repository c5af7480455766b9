package cli

import (
	"io"

	"github.com/spf13/cobra"

	wpio "github.com/matzehuels/wallplan/pkg/io"
	"github.com/matzehuels/wallplan/pkg/wall"
)

var completionShells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(r *cobra.Command, w io.Writer) error { return r.GenBashCompletionV2(w, true) },
	"zsh":        func(r *cobra.Command, w io.Writer) error { return r.GenZshCompletion(w) },
	"fish":       func(r *cobra.Command, w io.Writer) error { return r.GenFishCompletion(w, true) },
	"powershell": func(r *cobra.Command, w io.Writer) error { return r.GenPowerShellCompletionWithDesc(w) },
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for wallplan.

Wall ids complete from the project file named on the command line.

  $ source <(wallplan completion bash)
  $ wallplan completion zsh > "${fpath[1]}/_wallplan"
  $ wallplan completion fish > ~/.config/fish/completions/wallplan.fish
  PS> wallplan completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// completeProjectFile offers project files for the first positional argument.
func completeProjectFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"toml", "yaml", "yml", "json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeWallIDs offers the wall ids of the project named by args[0].
func completeWallIDs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	p, err := wpio.Load(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ids := make([]string, 0, len(p.Walls))
	for _, e := range p.Walls {
		desc := e.Wall.Name
		if desc == "" && e.Wall.ImagRole != wall.ImagNone {
			desc = string(e.Wall.ImagRole)
		}
		if desc == "" {
			ids = append(ids, e.Wall.ID)
			continue
		}
		ids = append(ids, e.Wall.ID+"\t"+desc)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// withProjectCompletion wires project file and --wall completion into cmd.
func withProjectCompletion(cmd *cobra.Command) *cobra.Command {
	cmd.ValidArgsFunction = completeProjectFile
	if cmd.Flags().Lookup("wall") != nil {
		_ = cmd.RegisterFlagCompletionFunc("wall", completeWallIDs)
	}
	return cmd
}
