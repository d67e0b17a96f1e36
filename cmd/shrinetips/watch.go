package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips"
)

var (
	// watch flags
	watchFile  string
	fromStart  bool
	poll       bool
	noRefresh  bool
	includeRaw bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Classify items as they are appended to a file",
	Long: `Follow a text file and classify every item description appended to it.
Each item starts at a "Rarity:" line; the last one is emitted once the file
has been quiet for the flush delay.

The catalogue is refreshed on the configured schedule (every 30 minutes by
default), and immediately when a local --catalogue file changes.

Examples:
  # Append clipboard contents to a file with your clipboard manager, then:
  shrinetips watch --file ~/items.txt --format pretty

  # Pipe to jq
  shrinetips watch --file items.txt | jq '.groups'`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchFile, "file", "", "Item file to follow (required)")
	watchCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Output format: jsonl, pretty")
	watchCmd.Flags().BoolVar(&fromStart, "from-start", false, "Classify items already in the file")
	watchCmd.Flags().BoolVar(&poll, "poll", false, "Poll the file instead of using change notifications")
	watchCmd.Flags().BoolVar(&noRefresh, "no-refresh", false, "Disable scheduled catalogue refresh")
	watchCmd.Flags().BoolVar(&includeRaw, "raw", false, "Include the item text in output")
	addRarityFlag(watchCmd)
	_ = watchCmd.MarkFlagRequired("file")
	_ = watchCmd.RegisterFlagCompletionFunc("format", completeFormats)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, svc, err := openCatalogue(ctx, cfg, logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if !noRefresh {
		if err := svc.Start(ctx, cfg.Catalogue.Refresh); err != nil {
			return err
		}
		defer svc.Stop()
	}

	opts := []shrinetips.WatchOption{
		shrinetips.WithFile(watchFile),
		shrinetips.WithStore(store),
		shrinetips.WithFromStart(fromStart),
		shrinetips.WithPolling(poll),
		shrinetips.WithIncludeText(includeRaw),
		shrinetips.WithLogger(logger),
	}
	if f := rarityFilter(cmd, cfg); f != nil {
		opts = append(opts, shrinetips.WithRarities(f.Rarities()...))
	}

	watcher, err := shrinetips.NewWatcherWithOptions(opts...)
	if err != nil {
		return err
	}
	defer watcher.Close()

	results, errs, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}
	return outputLoop(ctx, cmd, results, errs)
}

func outputLoop(ctx context.Context, cmd *cobra.Command, results <-chan shrinetips.Result, errs <-chan error) error {
	out := cmd.OutOrStdout()
	for {
		select {
		case res, ok := <-results:
			if !ok {
				return nil
			}
			if err := OutputResult(format, res, out); err != nil {
				return fmt.Errorf("output error: %w", err)
			}

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			var werr *shrinetips.WatchError
			if errors.As(err, &werr) && werr.Op == shrinetips.WatchOpTail {
				return err
			}
			if verbose || !errors.Is(err, shrinetips.ErrNotTooltip) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}

		case <-ctx.Done():
			return nil
		}
	}
}
