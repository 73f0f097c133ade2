package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return newCacheRepository(redis.Client(), redis.logger)
}

func newCacheRepository(client *redis.Client, logger *zap.Logger) *cacheRepository {
	return &cacheRepository{
		client: client,
		logger: logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		r.logger.Error("Failed to setnx cache", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache setnx error: %w", err)
	}
	return ok, nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// SearchGeneration читает счётчик поколений кеша поиска
func (r *cacheRepository) SearchGeneration(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, domain.SearchGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		r.logger.Error("Failed to read search cache generation", zap.Error(err))
		return 0, fmt.Errorf("cache generation error: %w", err)
	}
	return gen, nil
}

// BumpSearchGeneration - INCR счётчика; старые ключи поиска доживают свой TTL
func (r *cacheRepository) BumpSearchGeneration(ctx context.Context) error {
	if err := r.client.Incr(ctx, domain.SearchGenerationKey).Err(); err != nil {
		r.logger.Error("Failed to bump search cache generation", zap.Error(err))
		return fmt.Errorf("cache generation error: %w", err)
	}
	return nil
}

// GetSearchResult получает результат поиска из кеша
func (r *cacheRepository) GetSearchResult(ctx context.Context, key string) (*domain.SearchResult, error) {
	data, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var result domain.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		r.logger.Error("Failed to unmarshal search result from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal search result: %w", err)
	}

	return &result, nil
}

// SetSearchResult сохраняет результат поиска в кеше
func (r *cacheRepository) SetSearchResult(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		r.logger.Error("Failed to marshal search result", zap.Error(err))
		return fmt.Errorf("marshal search result: %w", err)
	}

	return r.Set(ctx, key, data, ttl)
}

// GetReindexProgress получает прогресс переиндексации
func (r *cacheRepository) GetReindexProgress(ctx context.Context, jobID uuid.UUID) (*domain.ReindexProgress, error) {
	data, err := r.Get(ctx, domain.ReindexProgressKey(jobID))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var progress domain.ReindexProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		r.logger.Error("Failed to unmarshal reindex progress", zap.Error(err))
		return nil, fmt.Errorf("unmarshal reindex progress: %w", err)
	}

	return &progress, nil
}

// SetReindexProgress сохраняет прогресс переиндексации
func (r *cacheRepository) SetReindexProgress(ctx context.Context, progress *domain.ReindexProgress, ttl time.Duration) error {
	data, err := json.Marshal(progress)
	if err != nil {
		r.logger.Error("Failed to marshal reindex progress", zap.Error(err))
		return fmt.Errorf("marshal reindex progress: %w", err)
	}

	return r.Set(ctx, domain.ReindexProgressKey(progress.JobID), data, ttl)
}
