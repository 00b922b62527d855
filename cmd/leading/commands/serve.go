package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/use-agent/leading/api"
	"github.com/use-agent/leading/cache"
	"github.com/use-agent/leading/scraper"
	"github.com/use-agent/leading/store"
)

var serveNoBrowser *bool

func init() {
	serveNoBrowser = serveCmd.Flags().Bool("no-browser", false, "Serve snapshot directories only; do not launch Chrome.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--no-browser]",
	Short: "Runs the HTTP API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		slog.Info("leading starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
			"mode", cfg.Server.Mode,
			"maxSessions", cfg.Browser.MaxSessions,
		)

		// ── 1. Browser (optional) ───────────────────────────────────
		deps := api.Deps{
			Store: store.New(cfg.Output.ReportDir),
			Cache: cache.New(cfg.Cache.MaxEntries),
		}
		if !*serveNoBrowser {
			sc, err := scraper.NewScraper(cfg.Browser, cfg.Leading)
			if err != nil {
				slog.Warn("browser unavailable, serving snapshots only", "error", err)
			} else {
				defer sc.Close()
				deps.Browser = sc
				deps.Opener = (&lazyBrowser{sc: sc}).Open
			}
		}

		// ── 2. Router ───────────────────────────────────────────────
		router := api.NewRouter(cfg, deps, time.Now())

		// ── 3. HTTP server ──────────────────────────────────────────
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:    addr,
			Handler: router,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("HTTP server listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		// ── 4. Graceful shutdown ────────────────────────────────────
		select {
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		case <-cmd.Context().Done():
			slog.Info("shutdown signal received")
		}

		// Give in-flight requests 5 seconds to complete.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("HTTP server forced shutdown", "error", err)
		} else {
			slog.Info("HTTP server drained gracefully")
		}

		slog.Info("leading stopped")
		return nil
	},
}
