package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nulzo/hub-proxy/internal/config"
	"github.com/nulzo/hub-proxy/internal/hub"
	"github.com/nulzo/hub-proxy/internal/platform/logger"
	"github.com/nulzo/hub-proxy/internal/platform/otel"
	"github.com/nulzo/hub-proxy/internal/server"
	"github.com/nulzo/hub-proxy/internal/version"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Initialize(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	zlog := logger.Get()
	defer logger.Sync()

	zlog.Info("starting hub proxy",
		zap.String("version", version.Version),
		zap.String("upstream", cfg.Hub.BaseURL),
		zap.Duration("upstream_timeout", cfg.Hub.Timeout),
	)

	go version.CheckForUpdates(zlog)

	if cfg.Tracing.Enabled {
		shutdownTracer, err := otel.InitTracer("hub-proxy", zlog, os.Stdout)
		if err != nil {
			zlog.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			_ = shutdownTracer(context.Background())
		}()
	}

	tokens := hub.EnvTokenSource{Name: cfg.Hub.TokenEnv}
	client := hub.NewClient(cfg.Hub.BaseURL, cfg.Hub.Timeout, tokens, zlog)

	srv := server.New(cfg, zlog, client)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Hub.Timeout + 10*time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		zlog.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		zlog.Fatal("server failed", zap.Error(err))

	case sig := <-quit:
		zlog.Info("shutting down", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			zlog.Error("graceful shutdown failed", zap.Error(err))
			os.Exit(1)
		}
	}

	zlog.Info("shutdown complete")
}
