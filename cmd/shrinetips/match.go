package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips"
)

var matchCmd = &cobra.Command{
	Use:   "match [file|-]",
	Short: "Group item modifiers by shrine effect",
	Long: `Parse item descriptions and group their modifier lines by the shrine
effect whose patterns they match. Lines matching no effect are listed
under "Unknown".

Only rare and magic items are classified unless --rarities says otherwise.

Examples:
  # Classify an item from the clipboard using the published catalogue
  xclip -o | shrinetips match --format pretty

  # Use a local knowledge base
  shrinetips match items.txt --catalogue shrines.yaml

  # Classify every item regardless of rarity
  shrinetips match items.txt --rarities all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&format, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	addRarityFlag(matchCmd)
	_ = matchCmd.RegisterFlagCompletionFunc("format", completeFormats)
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	store, _, err := openCatalogue(cmd.Context(), cfg, logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cat := store.Load()
	filter := rarityFilter(cmd, cfg)

	items := shrinetips.SplitItems(text)
	parsed := 0
	for i, item := range items {
		t, err := shrinetips.Parse(item)
		if err != nil {
			logger.Warn("skipping input", "item", i+1, "error", err)
			continue
		}
		parsed++
		if !filter.Allows(t.Rarity) {
			logger.Info("skipping item by rarity", "name", t.Name, "rarity", t.Rarity)
			continue
		}

		res := shrinetips.Result{
			Tip:     t,
			Groups:  shrinetips.Match(t, cat),
			Version: cat.Version(),
		}
		if err := OutputResult(format, res, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}

	if parsed == 0 {
		return errors.New("no item descriptions found in input")
	}
	return nil
}
