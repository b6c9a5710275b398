package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/climate-report/internal/adapter/http"
	"github.com/couchcryptid/climate-report/internal/report"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Build the dataset and serve the report over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.close()

			page, err := newPage(a)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := httpadapter.NewServer(a.cfg.HTTPAddr, a.pipeline, page, a.metrics, a.cfg.TopN, a.logger)

			// Start HTTP server first so /healthz answers while the dataset builds.
			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			if _, err := a.build(ctx); err != nil {
				a.shutdown(srv)
				return err
			}

			select {
			case <-ctx.Done():
			case err := <-errCh:
				a.logger.Error("http server error", "error", err)
				a.shutdown(srv)
				return err
			}

			a.logger.Info("shutting down")
			a.shutdown(srv)
			a.logger.Info("shutdown complete")
			return nil
		},
	}
}

func (a *app) shutdown(srv *httpadapter.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", "error", err)
	}
}

func newPage(a *app) (*report.Page, error) {
	content, err := report.DefaultContent()
	if err != nil {
		return nil, err
	}
	return report.NewPage(content, report.Options{TopN: a.cfg.TopN, WorldAtlasURL: a.cfg.WorldAtlasURL})
}
