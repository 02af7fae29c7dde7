package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/traffic-cli/internal/api"
	"github.com/sells-group/traffic-cli/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the traffic density map server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		deps, err := newSessionDeps(cfg)
		if err != nil {
			return err
		}
		mgr := session.NewManager(deps, session.SettingsFromConfig(cfg))
		defer mgr.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(mgr, deps, cfg.Server.CORSOrigins, cfg.Map.TileURL),
			ReadHeaderTimeout: 10 * time.Second,
		}

		sweep := time.Duration(cfg.Session.SweepSecs) * time.Second
		return runServer(ctx, srv, mgr, sweep)
	},
}

// buildRouter wires the API handler for the given session manager.
func buildRouter(mgr *session.Manager, deps session.Deps, corsOrigins []string, tileURL string) http.Handler {
	return api.NewHandler(mgr, deps.Areas, api.WithTileURL(tileURL)).Router(corsOrigins)
}

// runServer serves HTTP and sweeps idle sessions until ctx is done, then
// shuts the server down gracefully.
func runServer(ctx context.Context, srv *http.Server, mgr *session.Manager, sweep time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.L().Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	})

	g.Go(func() error {
		return mgr.Run(gctx, sweep)
	})

	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "server shutdown")
		}
		return nil
	})

	return g.Wait()
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
