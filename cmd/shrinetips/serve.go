package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shrinetips/shrinetips-go/internal/refresh"
	"github.com/shrinetips/shrinetips-go/internal/server"
	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/catalogue"
)

const shutdownTimeout = 10 * time.Second

var (
	// serve flags
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the classifier over HTTP",
	Long: `Start an HTTP API for classifying item texts.

Endpoints:
  GET  /health             liveness
  GET  /metrics            Prometheus metrics
  GET  /api/v1/catalogue   loaded effects and skipped patterns
  POST /api/v1/match       {"text": "..."} -> groups
  POST /api/v1/reload      reload the knowledge base now

The catalogue is refreshed on the configured schedule. If the first load
fails the server starts with an empty catalogue and retries on schedule.

Examples:
  shrinetips serve --port 8787
  curl -s localhost:8787/api/v1/match -d '{"text": "..."}'`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (overrides config)")
	addRarityFlag(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// srv is assigned before the first reload runs.
	var srv *server.Server
	store := catalogue.NewStore(catalogue.WithLogger(logger))
	svc := newRefresher(cfg, store, logger, cmd.ErrOrStderr(),
		refresh.OnReload(func(c *catalogue.Catalogue) {
			srv.Metrics().ObserveCatalogue(c)
		}),
		refresh.OnError(func(err error) {
			srv.Metrics().ObserveReloadError(err)
		}),
	)

	srv, err = server.New(store, &server.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReloadPerMinute: cfg.Server.ReloadPerMinute,
	},
		server.WithReloader(svc),
		server.WithRarityFilter(rarityFilter(cmd, cfg)),
		server.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if _, err := svc.Reload(ctx); err != nil {
		logger.Warn("initial catalogue load failed, serving empty catalogue", "error", err)
	}
	if err := svc.Start(ctx, cfg.Catalogue.Refresh); err != nil {
		return err
	}
	defer svc.Stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "listening on %s\n", cfg.Server.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
