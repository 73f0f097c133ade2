package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
)

type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]domain.CategoryCount
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{
		categories: make(map[string]domain.CategoryCount),
	}
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.CategoryCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CategoryCount, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Alias < out[j].Alias
	})
	return out, nil
}

func (r *CategoryRepository) GetByAliases(ctx context.Context, aliases []string) (map[string]domain.CategoryCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]domain.CategoryCount, len(aliases))
	for _, alias := range aliases {
		if c, ok := r.categories[alias]; ok {
			out[alias] = c
		}
	}
	return out, nil
}

func (r *CategoryRepository) Upsert(ctx context.Context, categories []domain.CategoryCount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range categories {
		r.categories[c.Alias] = c
	}
	return nil
}
