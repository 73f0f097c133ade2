package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/location-search/internal/config"
	"github.com/location-search/internal/domain/repository"
	"github.com/location-search/internal/pkg/geoindex"
	"github.com/location-search/internal/repository/cache"
	"github.com/location-search/internal/repository/memory"
	"github.com/location-search/internal/repository/postgres"
	redisqueue "github.com/location-search/internal/repository/redis"
	"github.com/location-search/internal/repository/sqlite"
	"github.com/location-search/internal/usecase"
)

// HealthCheck - проверка доступности зависимости
type HealthCheck func(ctx context.Context) error

// Stores - репозитории выбранного хранилища плюс кеш и очередь
type Stores struct {
	Locations  repository.LocationRepository
	Index      repository.LocationIndexRepository
	Categories repository.CategoryRepository
	Cache      repository.CacheRepository
	Queue      repository.ReindexQueue

	// SharedQueue - очередь видна другим процессам (Redis Streams)
	SharedQueue  bool
	HealthChecks map[string]HealthCheck

	closers []func() error
	logger  *zap.Logger
}

// OpenStores - подключение хранилища по STORAGE_DRIVER. Redis необязателен:
// без него кеш и очередь живут в памяти процесса.
func OpenStores(cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	s := &Stores{
		HealthChecks: make(map[string]HealthCheck),
		logger:       logger,
	}

	if err := s.openStorage(cfg); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.openRedis(cfg); err != nil {
		s.Close()
		return nil, err
	}

	logger.Info("Stores initialized",
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("redis", s.SharedQueue))
	return s, nil
}

func (s *Stores) openStorage(cfg *config.Config) error {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := postgres.New(&cfg.Database, s.logger)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		s.closers = append(s.closers, db.Close)
		s.HealthChecks["postgres"] = db.Health

		if cfg.Database.MigrationsDir != "" {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := db.Migrate(ctx, cfg.Database.MigrationsDir); err != nil {
				return err
			}
		}

		s.Locations = postgres.NewLocationRepository(db)
		s.Index = postgres.NewLocationIndexRepository(db)
		s.Categories = postgres.NewCategoryRepository(db)

	case "sqlite":
		db, err := sqlite.New(&cfg.SQLite, s.logger)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		s.closers = append(s.closers, db.Close)
		s.HealthChecks["sqlite"] = db.Health

		s.Locations = sqlite.NewLocationRepository(db)
		s.Index = sqlite.NewLocationIndexRepository(db)
		s.Categories = sqlite.NewCategoryRepository(db)

	case "memory":
		s.logger.Warn("Using in-memory storage, data is lost on restart")
		s.Locations = memory.NewLocationRepository()
		s.Index = memory.NewLocationIndexRepository()
		s.Categories = memory.NewCategoryRepository()

	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	return nil
}

func (s *Stores) openRedis(cfg *config.Config) error {
	if !cfg.Redis.Enabled {
		s.Cache = memory.NewCacheRepository()
		s.Queue = memory.NewReindexQueue()
		return nil
	}

	client, err := cache.NewRedis(&cfg.Redis, s.logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	s.closers = append(s.closers, client.Close)
	s.HealthChecks["redis"] = client.Health

	s.Cache = cache.NewCacheRepository(client)
	s.Queue = redisqueue.NewReindexQueue(client.Client(), "", s.logger)
	s.SharedQueue = true
	return nil
}

// Close закрывает соединения в обратном порядке открытия
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Error("Failed to close store", zap.Error(err))
		}
	}
	s.closers = nil
}

// UseCases - use case-ы поверх хранилищ
type UseCases struct {
	Grid     geoindex.Grid
	Ingest   *usecase.IngestUseCase
	Search   *usecase.SearchUseCase
	Reindex  *usecase.ReindexUseCase
	Category *usecase.CategoryUseCase
	Location *usecase.LocationUseCase
}

// NewUseCases - сборка use case-ов по конфигурации
func NewUseCases(cfg *config.Config, s *Stores, logger *zap.Logger) *UseCases {
	grid := geoindex.NewH3Grid()
	fields := geoindex.NewFieldBuilder(grid, cfg.Index.IncludeLeafToken)

	return &UseCases{
		Grid:   grid,
		Ingest: usecase.NewIngestUseCase(s.Locations, s.Index, s.Categories, s.Cache, fields, logger),
		Search: usecase.NewSearchUseCase(grid, s.Index, s.Locations, s.Cache, usecase.SearchOptions{
			DefaultMaxRows: cfg.Search.DefaultMaxRows,
			MaxRowsLimit:   cfg.Search.MaxRowsLimit,
			ScanLimit:      cfg.Search.ScanLimit,
			MaxCells:       cfg.Search.MaxCells,
			CellOverflow:   geoindex.ParseOverflowPolicy(cfg.Search.CellOverflow),
			CacheTTL:       cfg.Cache.SearchCacheTTL,
		}, logger),
		Reindex: usecase.NewReindexUseCase(
			s.Locations, s.Index, s.Queue, s.Cache, fields,
			cfg.Reindex.PageSize, cfg.Reindex.LockTTL, logger,
		),
		Category: usecase.NewCategoryUseCase(s.Categories, logger),
		Location: usecase.NewLocationUseCase(s.Locations, logger),
	}
}
