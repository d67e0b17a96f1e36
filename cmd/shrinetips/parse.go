package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Parse item descriptions into structured records",
	Long: `Parse item descriptions copied from the game into structured records.

The input may hold several items, each starting at a "Rarity:" line. Text
that is not an item description is skipped with a warning.

Examples:
  # Parse an item from the clipboard (Linux)
  xclip -o | shrinetips parse

  # Parse a file of saved items
  shrinetips parse items.txt --format pretty`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&format, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	_ = parseCmd.RegisterFlagCompletionFunc("format", completeFormats)
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr())

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	items := shrinetips.SplitItems(text)
	parsed := 0
	for i, item := range items {
		t, err := shrinetips.Parse(item)
		if err != nil {
			logger.Warn("skipping input", "item", i+1, "error", err)
			continue
		}
		parsed++
		if err := OutputTip(format, t, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}

	if parsed == 0 {
		return errors.New("no item descriptions found in input")
	}
	return nil
}
