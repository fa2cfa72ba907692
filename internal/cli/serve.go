package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-slicerform/internal/config"
	"github.com/goliatone/go-slicerform/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the preview and validation HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.logger,
				server.WithOrchestrator(a.orchestrator(true)),
			)
			httpSrv := &http.Server{
				Addr:              a.cfg.Server.Addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("server listening", "addr", httpSrv.Addr)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address")
	_ = a.v.BindPFlag(config.KeyServerAddr, cmd.Flags().Lookup("addr"))
	return cmd
}
