package main

// @title Location Search API
// @version 1.0.0
// @description Поиск заведений внутри произвольного полигона по токенному индексу ячеек H3.
// @description
// @description Основные возможности:
// @description - Загрузка заведений с проверкой цены, рейтинга и категорий
// @description - Поиск по полигону и по видимой области карты с фильтрами
// @description - Пакетная переиндексация через очередь
// @description - Справочник категорий

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/location-search/docs"
	"github.com/location-search/internal/bootstrap"
	"github.com/location-search/internal/config"
	httpDelivery "github.com/location-search/internal/delivery/http"
	"github.com/location-search/internal/delivery/http/handler"
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

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Location Search API",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("storage", cfg.Storage.Driver),
	)

	// 3. Storage, cache and queue
	stores, err := bootstrap.OpenStores(cfg, log)
	if err != nil {
		log.Fatal("Failed to open stores", zap.Error(err))
	}
	defer stores.Close()

	// 4. Use cases
	uc := bootstrap.NewUseCases(cfg, stores, log)

	// 5. In-process reindex worker: without Redis nobody else can read the queue
	var workers *worker.Manager
	if cfg.Worker.Enabled && !stores.SharedQueue {
		workers = worker.NewManager(log, 0)
		workers.Register(reindex.NewWorker(stores.Queue, uc.Reindex, cfg.Worker.ConsumerGroup, log))
		if err := workers.Start(context.Background()); err != nil {
			log.Fatal("Failed to start in-process workers", zap.Error(err))
		}
		log.Info("In-process reindex worker started")
	}

	// 6. HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewLocationHandler(uc.Ingest, uc.Location, log),
		handler.NewSearchHandler(uc.Search, log),
		handler.NewViewportHandler(uc.Search, log),
		handler.NewReindexHandler(uc.Reindex, log),
		handler.NewCategoryHandler(uc.Category, log),
	)
	for name, check := range stores.HealthChecks {
		server.AddHealthCheck(name, check)
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if workers != nil {
		if err := workers.Stop(); err != nil {
			log.Error("Error stopping workers", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
