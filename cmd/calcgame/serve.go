package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/calcgame"
	"github.com/aretw0/calcgame/internal/cli"
	httpAdapter "github.com/aretw0/calcgame/pkg/adapters/http"
	"github.com/aretw0/calcgame/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves calculator sessions over a JSON API with live updates over
Server-Sent Events. Prometheus metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSetup(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			s.cfg.HTTP.Port, _ = cmd.Flags().GetInt("port")
		}

		metrics, err := observability.NewMetrics(prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}
		host, backend, err := s.openHost(metrics.Hooks())
		if err != nil {
			return err
		}
		defer backend.Close()

		version := strings.TrimSpace(calcgame.Version)
		handler, err := httpAdapter.NewHandler(host,
			httpAdapter.WithLogger(s.logger),
			httpAdapter.WithMetrics(promhttp.Handler()),
			httpAdapter.WithVersion(version),
		)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", s.cfg.HTTP.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		serverErrors := make(chan error, 1)
		go func() {
			s.logger.Info("starting calcgame server", "addr", srv.Addr, "store", s.cfg.Store.Kind, "version", version)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
			s.logger.Info("shutting down", "signal", ctx.Signal())
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
			return srv.Close()
		}
		s.logger.Info("calcgame server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides http.port)")
}
