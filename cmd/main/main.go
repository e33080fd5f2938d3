package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ge-tracker/src/config"
	"ge-tracker/src/data_source/wiki"
	"ge-tracker/src/dispatcher"
	"ge-tracker/src/interfaces"
	"ge-tracker/src/logger"
	"ge-tracker/src/models"
	"ge-tracker/src/registry"
	"ge-tracker/src/scheduler"
	"ge-tracker/src/server"
	"ge-tracker/src/storage"
	"ge-tracker/src/store"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Optional .env for deployment overrides
	_ = godotenv.Load()

	// Load config from YAML file
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(cfg.LogLevel, cfg.Name)

	// 1. Item metadata cache (optional warm-start backend)
	var cache interfaces.IItemCache

	switch cfg.Storage.DBType {
	case "postgres":
		cache, err = storage.NewPostgresItemCache(cfg.MConfig, appLogger)
	case "sqlite":
		cache, err = storage.NewSQLiteItemCache(cfg.MConfig, appLogger)
	}
	if err != nil {
		appLogger.Critical("Failed to init item cache: %v", err)
	}
	if cache != nil {
		if err := cache.Initialize(); err != nil {
			appLogger.Critical("Failed to migrate item cache: %v", err)
		}
		defer cache.Close()
	}

	// 2. Core components
	marketStore := store.NewStore()
	reg := registry.NewRegistry(models.DefaultFilters(cfg.Defaults), logger.NewLogger(cfg.LogLevel, "Registry"))
	disp := dispatcher.NewDispatcher(marketStore, reg, logger.NewLogger(cfg.LogLevel, "Dispatcher"))

	var fetcher interfaces.IMarketFetcher = wiki.NewSource(cfg.MConfig, logger.NewLogger(cfg.LogLevel, "WikiSource"))

	// 3. Warm-start: seed item names from the cache so projections resolve
	// names before the first successful fetch
	if cache != nil {
		cached, err := cache.LoadItems()
		if err != nil {
			appLogger.Warning("Failed to load cached item metadata: %v", err)
		} else if len(cached) > 0 {
			marketStore.Replace(cached, nil, nil)
			appLogger.Info("Seeded %d cached items", len(cached))
		}
	}

	// 4. Refresh scheduler
	interval := time.Duration(cfg.DataSource.UpdateIntervalSeconds) * time.Second
	refresher := scheduler.NewRefresher(interval, fetcher, marketStore, disp, cache,
		logger.NewLogger(cfg.LogLevel, "Refresher"))

	// 5. HTTP / WebSocket server
	srv := server.NewServer(cfg.MConfig, appLogger, marketStore, reg, disp)
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	}()

	// 6. Run until interrupted
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refresher.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := refresher.Stop(stopCtx); err != nil {
		appLogger.Warning("Refresher did not stop cleanly: %v", err)
	}
}
