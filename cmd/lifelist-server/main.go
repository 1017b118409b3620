package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/existflow/lifelist/internal/app"
	"github.com/existflow/lifelist/internal/config"
	"github.com/existflow/lifelist/internal/logger"
	"github.com/existflow/lifelist/internal/offline"
	"github.com/existflow/lifelist/internal/session"
	"github.com/existflow/lifelist/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.ServerAddr = ":" + port
	}

	lg, err := logger.New(app.LoggerConfig(cfg))
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = lg.Close() }()

	a, err := app.Open(cfg, lg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("Error closing storage: %v", err)
		}
	}()

	monitor := session.NewMonitor(session.Config{
		Timeout:  cfg.SessionTimeout,
		OnExpire: a.Store.ClearCurrentProfile,
		IsGuest:  a.Store.IsGuest,
		Logger:   lg,
	})

	var assets *offline.Cache
	if cfg.AssetOrigin != "" {
		fetcher, err := offline.NewHTTPFetcher(cfg.AssetOrigin)
		if err != nil {
			log.Fatalf("Invalid asset origin: %v", err)
		}
		assets, err = offline.New(fetcher, offline.Options{
			Core:        cfg.CoreAssets,
			DynamicSize: cfg.DynamicCacheSize,
			Logger:      lg,
		})
		if err != nil {
			log.Fatalf("Failed to create asset cache: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := assets.Install(ctx); err != nil {
			log.Printf("Offline cache not installed, serving network-only: %v", err)
		}
		cancel()
	}

	srv, err := server.New(server.Options{Store: a.Store, Monitor: monitor, Assets: assets, Logger: lg, RateLimit: 50})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("lifelist server starting on %s", cfg.ServerAddr)
		if err := srv.Start(cfg.ServerAddr); err != nil {
			log.Printf("Server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
