package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"student-records/config"
	"student-records/handlers"
	"student-records/report"
	"student-records/repository"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API and the read-only mirror",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			repo := repository.New(db)
			servers := []*http.Server{
				newHTTPServer(a.cfg, a.cfg.ServerPort, handlers.NewAdminRouter(repo, report.New(db), a.cfg.ImportMaxFileSize)),
			}
			if a.cfg.MirrorEnabled {
				// The mirror gets the Reader view only.
				var reader repository.Reader = repo
				servers = append(servers, newHTTPServer(a.cfg, a.cfg.MirrorPort, handlers.NewMirrorRouter(reader)))
			}
			return run(ctx, a.cfg, servers)
		},
	}
}

func newHTTPServer(cfg *config.Config, port string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// run serves until ctx is cancelled or one server fails, then shuts every
// server down within the configured timeout.
func run(ctx context.Context, cfg *config.Config, servers []*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		g.Go(func() error {
			slog.Info("server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	err := g.Wait()
	slog.Info("servers stopped")
	return err
}
