package main

import (
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/tip"
)

var rarityNames = []string{
	tip.RarityNormal, tip.RarityMagic, tip.RarityRare,
	tip.RarityUnique, tip.RarityGem, tip.RarityCurrency, "all",
}

// completionScripts maps each supported shell to its script generator.
var completionScripts = map[string]func(root *cobra.Command, out io.Writer) error{
	"bash":       func(root *cobra.Command, out io.Writer) error { return root.GenBashCompletionV2(out, true) },
	"zsh":        func(root *cobra.Command, out io.Writer) error { return root.GenZshCompletion(out) },
	"fish":       func(root *cobra.Command, out io.Writer) error { return root.GenFishCompletion(out, true) },
	"powershell": func(root *cobra.Command, out io.Writer) error { return root.GenPowerShellCompletionWithDesc(out) },
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Print a completion script for shrinetips. Besides subcommands and flags it
completes the values of --format and --rarities.

  bash:        source <(shrinetips completion bash)
  zsh:         shrinetips completion zsh > "${fpath[1]}/_shrinetips"
  fish:        shrinetips completion fish > ~/.config/fish/completions/shrinetips.fish
  powershell:  shrinetips completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return completionScripts[args[0]](cmd.Root(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completeFormats offers the output formats for --format.
func completeFormats(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	formats := make([]string, 0, len(validFormats))
	for f := range validFormats {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats, cobra.ShellCompDirectiveNoFileComp
}

// completeRarities offers rarity names for the last element of the
// comma-separated --rarities value, skipping names already listed.
func completeRarities(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	given := strings.Split(strings.ToLower(prefix), ",")

	var out []string
	for _, r := range rarityNames {
		if !slices.Contains(given, r) {
			out = append(out, prefix+r)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
