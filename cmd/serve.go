package main

import (
	"context"
	"errors"
	"fmt"
	"medscan/internal/api"
	"medscan/internal/api/handler/v1handler"
	"medscan/internal/config"
	"medscan/internal/recorder"
	"medscan/pkg/logger"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the API server and the scan recorder",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			mp, err := api.NewMeterProvider()
			if err != nil {
				return fmt.Errorf("could not create meter provider: %w", err)
			}

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			v, closeVault := getVault(ctx, cfg)
			defer closeVault()

			p := getPipeline(ctx, cfg, v, mp)

			server, err := api.NewServer(ctx, api.Deps{Deps: v1handler.Deps{
				Pipeline:     p,
				Vault:        v,
				Storage:      strg,
				HistoryLimit: cfg.Pipeline.HistoryLimit,
			}}, api.NewOptions(cfg))
			if err != nil {
				return fmt.Errorf("could not create webserver: %w", err)
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info(gctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("could not start webserver: %w", err)
				}

				return nil
			})
			g.Go(func() error {
				return recorder.New(p, strg, cfg.Pipeline.HistoryRetention).Run(gctx)
			})
			g.Go(func() error {
				// wait for interrupt or a failed sibling
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
				defer cancel()

				logger.Info(ctx, "stopping webserver...")
				if err := server.Shutdown(shutdownCtx); err != nil {
					logger.Error(ctx, "could not stop webserver", zap.Error(err))
				}
				if err := mp.Shutdown(shutdownCtx); err != nil {
					logger.Warn(ctx, "could not stop meter provider", zap.Error(err))
				}

				return nil
			})

			return g.Wait() //nolint: wrapcheck
		},
	}

	return cmd
}
