package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/location-search/internal/bootstrap"
	"github.com/location-search/internal/config"
	"github.com/location-search/internal/pkg/logger"
	"github.com/location-search/internal/worker"
	"github.com/location-search/internal/worker/reindex"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Location Reindex Worker",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.String("storage", cfg.Storage.Driver),
		zap.Int("page_size", cfg.Reindex.PageSize))

	// 3. Storage, cache and queue. The queue must be shared with the API.
	stores, err := bootstrap.OpenStores(cfg, log)
	if err != nil {
		log.Fatal("Failed to open stores", zap.Error(err))
	}
	defer stores.Close()

	if !stores.SharedQueue {
		log.Fatal("Standalone worker requires Redis (REDIS_ENABLED=true)")
	}

	// 4. Use cases and workers
	uc := bootstrap.NewUseCases(cfg, stores, log)

	manager := worker.NewManager(log, 0)
	manager.Register(reindex.NewWorker(stores.Queue, uc.Reindex, cfg.Worker.ConsumerGroup, log))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 5. Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	if err := manager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
