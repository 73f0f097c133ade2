package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e cacheEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// CacheRepository - кеш в памяти с TTL, для одного процесса
type CacheRepository struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

var _ repository.CacheRepository = (*CacheRepository)(nil)

func NewCacheRepository() *CacheRepository {
	return &CacheRepository{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (r *CacheRepository) entry(ttl time.Duration, value []byte) cacheEntry {
	e := cacheEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = r.now().Add(ttl)
	}
	return e
}

func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return nil, nil
	}
	if e.expired(r.now()) {
		delete(r.entries, key)
		return nil, nil
	}
	return append([]byte(nil), e.value...), nil
}

func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key] = r.entry(ttl, value)
	return nil
}

func (r *CacheRepository) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok && !e.expired(r.now()) {
		return false, nil
	}
	r.entries[key] = r.entry(ttl, value)
	return true, nil
}

func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key)
	return nil
}

func (r *CacheRepository) SearchGeneration(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.generation(), nil
}

func (r *CacheRepository) BumpSearchGeneration(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.generation() + 1
	r.entries[domain.SearchGenerationKey] = cacheEntry{value: []byte(strconv.FormatInt(next, 10))}
	return nil
}

// generation - вызывается под r.mu
func (r *CacheRepository) generation() int64 {
	e, ok := r.entries[domain.SearchGenerationKey]
	if !ok {
		return 0
	}
	n, _ := strconv.ParseInt(string(e.value), 10, 64)
	return n
}

func (r *CacheRepository) GetSearchResult(ctx context.Context, key string) (*domain.SearchResult, error) {
	data, err := r.Get(ctx, key)
	if err != nil || data == nil {
		return nil, err
	}
	var result domain.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal search result: %w", err)
	}
	return &result, nil
}

func (r *CacheRepository) SetSearchResult(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal search result: %w", err)
	}
	return r.Set(ctx, key, data, ttl)
}

func (r *CacheRepository) GetReindexProgress(ctx context.Context, jobID uuid.UUID) (*domain.ReindexProgress, error) {
	data, err := r.Get(ctx, domain.ReindexProgressKey(jobID))
	if err != nil || data == nil {
		return nil, err
	}
	var progress domain.ReindexProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("unmarshal reindex progress: %w", err)
	}
	return &progress, nil
}

func (r *CacheRepository) SetReindexProgress(ctx context.Context, progress *domain.ReindexProgress, ttl time.Duration) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal reindex progress: %w", err)
	}
	return r.Set(ctx, domain.ReindexProgressKey(progress.JobID), data, ttl)
}
