package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips"
	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/catalogue"
)

var catalogueFormat string

var catalogueCmd = &cobra.Command{
	Use:   "catalogue",
	Short: "Show the shrine effect catalogue",
	Long: `Load the knowledge base and show its version, effects, and any
patterns that could not be compiled.

A notice is printed when the knowledge base announces a newer release.

Examples:
  shrinetips catalogue
  shrinetips catalogue --catalogue shrines.yaml --format jsonl`,
	Args: cobra.NoArgs,
	RunE: runCatalogue,
}

func init() {
	catalogueCmd.Flags().StringVarP(&catalogueFormat, "format", "f", "pretty",
		"Output format: jsonl, pretty")
	_ = catalogueCmd.RegisterFlagCompletionFunc("format", completeFormats)
	rootCmd.AddCommand(catalogueCmd)
}

// catalogueSummary is the jsonl form of the catalogue command.
type catalogueSummary struct {
	Version  int             `json:"version"`
	Effects  []effectSummary `json:"effects"`
	Matchers int             `json:"matchers"`
	Skipped  []string        `json:"skipped,omitempty"`
}

type effectSummary struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Template string `json:"template"`
	Patterns int    `json:"patterns"`
}

func runCatalogue(cmd *cobra.Command, args []string) error {
	if err := checkFormat(catalogueFormat); err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, _, err := openCatalogue(cmd.Context(), cfg, logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	summary := summarize(store.Load())
	if catalogueFormat == "jsonl" {
		return OutputJSON(summary, cmd.OutOrStdout())
	}
	return outputCataloguePretty(summary, cmd.OutOrStdout())
}

func summarize(cat *catalogue.Catalogue) catalogueSummary {
	s := catalogueSummary{
		Version:  cat.Version(),
		Matchers: len(cat.Matchers()),
	}
	patterns := make(map[int]int)
	for _, m := range cat.Matchers() {
		patterns[m.Effect]++
	}
	for _, idx := range cat.Effects() {
		name, template := cat.Effect(idx)
		s.Effects = append(s.Effects, effectSummary{
			Index:    idx,
			Name:     name,
			Template: template,
			Patterns: patterns[idx],
		})
	}
	for _, pe := range cat.Skipped() {
		s.Skipped = append(s.Skipped, pe.Error())
	}
	return s
}

func outputCataloguePretty(s catalogueSummary, out io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "knowledge base version %d: %d effects, %d patterns\n", s.Version, len(s.Effects), s.Matchers)
	for _, e := range s.Effects {
		level, text, ok := shrinetips.SplitQuality(e.Template)
		tint := "    "
		if ok {
			tint = fmt.Sprintf("[q%d]", level)
		}
		fmt.Fprintf(&sb, "%4d %s %-24s %s (%d)\n", e.Index, tint, text, e.Name, e.Patterns)
	}
	if len(s.Skipped) > 0 {
		fmt.Fprintf(&sb, "skipped %d patterns:\n", len(s.Skipped))
		for _, msg := range s.Skipped {
			sb.WriteString("  " + msg + "\n")
		}
	}
	_, err := io.WriteString(out, sb.String())
	return err
}
