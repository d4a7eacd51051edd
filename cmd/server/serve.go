package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/Wyydra/yasignal/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/yasignal/internal/adapter/driven/registry/memory"
	handler "github.com/Wyydra/yasignal/internal/adapter/driving/http"
	"github.com/Wyydra/yasignal/internal/config"
	"github.com/Wyydra/yasignal/internal/core/service"
	"github.com/Wyydra/yasignal/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	configPath string
	addr       string
	logLevel   string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the signaling server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate(serveFlags.configPath)
		if err != nil {
			return err
		}
		if serveFlags.addr != "" {
			cfg.Server.Addr = serveFlags.addr
		}
		if serveFlags.logLevel != "" {
			cfg.Log.Level = serveFlags.logLevel
		}
		if err := logging.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.configPath, "config", "c", "", "path to YAML config file")
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "listen address, overrides server.addr")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "log level, overrides log.level")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config) error {
	registry := memory.NewRegistry()
	router := service.NewRouter(registry)
	hub := ws.NewHub()
	h := handler.NewHandler(registry, router, hub, cfg.WebSocket)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h.NewRouter(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Failed to start server")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	rooms, peers := registry.Stats()
	log.Info().Int("rooms", rooms).Int("peers", peers).Msg("Server exited")
	return nil
}
