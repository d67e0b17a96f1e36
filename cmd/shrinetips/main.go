// Command shrinetips classifies copied item descriptions against the shrine
// effect catalogue.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shrinetips/shrinetips-go/internal/config"
	"github.com/shrinetips/shrinetips-go/internal/fetch"
	"github.com/shrinetips/shrinetips-go/internal/refresh"
	"github.com/shrinetips/shrinetips-go/pkg/shrinetips"
	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/catalogue"
)

var (
	// global flags
	verbose       bool
	configPath    string
	catalogueFlag string
	rarities      []string
	format        string
)

var rootCmd = &cobra.Command{
	Use:   "shrinetips",
	Short: "Classify item modifiers by shrine effect",
	Long: `shrinetips reads item descriptions copied from the game and groups
their modifier lines by the shrine effect they belong to.

The effect catalogue is downloaded from the published knowledge base, or
read from a local JSON/YAML file with --catalogue.

Configuration is read from $XDG_CONFIG_HOME/shrinetips/config.yaml (or
--config) and SHRINETIPS_* environment variables.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/shrinetips/config.yaml)")
	pf.StringVarP(&catalogueFlag, "catalogue", "c", "",
		"Knowledge base URL or local file (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger returns a text logger on stderr; debug level with --verbose.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads the config file and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if catalogueFlag != "" {
		if strings.HasPrefix(catalogueFlag, "http://") || strings.HasPrefix(catalogueFlag, "https://") {
			cfg.Catalogue.URL = catalogueFlag
			cfg.Catalogue.Path = ""
		} else {
			cfg.Catalogue.Path = catalogueFlag
		}
	}
	return cfg, nil
}

// addRarityFlag registers --rarities on cmd.
func addRarityFlag(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&rarities, "rarities", "r", nil,
		`Item rarities to classify (comma-separated, "all" for every rarity; default from config: rare,magic)`)
	_ = cmd.RegisterFlagCompletionFunc("rarities", completeRarities)
}

// rarityFilter builds the rarity filter from --rarities or the config.
func rarityFilter(cmd *cobra.Command, cfg *config.Config) *shrinetips.RarityFilter {
	list := cfg.Client.Rarities
	if cmd.Flags().Changed("rarities") {
		list = rarities
	}
	for _, r := range list {
		if strings.EqualFold(r, "all") {
			return nil
		}
	}
	return shrinetips.NewRarityFilter(list...)
}

// newRefresher creates the refresh service for the configured source.
// Update notices are printed to notice.
func newRefresher(cfg *config.Config, store *catalogue.Store, logger *slog.Logger, notice io.Writer, opts ...refresh.Option) *refresh.Service {
	var src refresh.Source
	if cfg.Catalogue.Path != "" {
		src = &refresh.FileSource{Path: cfg.Catalogue.Path}
	} else {
		src = &refresh.HTTPSource{
			URL: cfg.Catalogue.URL,
			Client: fetch.New(
				fetch.WithTimeout(cfg.Catalogue.Timeout),
				fetch.WithLogger(logger),
			),
		}
	}

	opts = append([]refresh.Option{
		refresh.WithLogger(logger),
		refresh.WithClientVersion(cfg.Client.Version),
		refresh.OnUpdateAvailable(func(version int) {
			fmt.Fprintf(notice, "A new version (%d) has been released: %s\n", version, refresh.ReleasesURL)
		}),
	}, opts...)
	return refresh.New(src, store, opts...)
}

// openCatalogue loads the configured knowledge base into a new store.
func openCatalogue(ctx context.Context, cfg *config.Config, logger *slog.Logger, notice io.Writer, opts ...refresh.Option) (*catalogue.Store, *refresh.Service, error) {
	store := catalogue.NewStore(catalogue.WithLogger(logger))
	svc := newRefresher(cfg, store, logger, notice, opts...)
	if _, err := svc.Reload(ctx); err != nil {
		return nil, nil, fmt.Errorf("load catalogue: %w", err)
	}
	return store, svc, nil
}
