package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/location-search/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу; nil без ошибки при промахе
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX сохраняет значение только если ключа нет
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// SearchGeneration - текущее поколение кеша поиска (0, если ещё не было записей в индекс)
	SearchGeneration(ctx context.Context) (int64, error)

	// BumpSearchGeneration делает устаревшими все закешированные результаты поиска
	BumpSearchGeneration(ctx context.Context) error

	// GetSearchResult получает закешированный результат поиска
	GetSearchResult(ctx context.Context, key string) (*domain.SearchResult, error)

	// SetSearchResult сохраняет результат поиска
	SetSearchResult(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration) error

	// GetReindexProgress получает прогресс переиндексации
	GetReindexProgress(ctx context.Context, jobID uuid.UUID) (*domain.ReindexProgress, error)

	// SetReindexProgress сохраняет прогресс переиндексации
	SetReindexProgress(ctx context.Context, progress *domain.ReindexProgress, ttl time.Duration) error
}
