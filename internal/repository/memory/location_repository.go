package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
)

// LocationRepository хранит локации в памяти. Порядок вставки сохраняется
// отдельным слайсом: курсор пагинации - позиция в нём.
type LocationRepository struct {
	mu        sync.RWMutex
	locations map[uuid.UUID]*domain.Location
	order     []uuid.UUID
}

var _ repository.LocationRepository = (*LocationRepository)(nil)

func NewLocationRepository() *LocationRepository {
	return &LocationRepository{
		locations: make(map[uuid.UUID]*domain.Location),
	}
}

func (r *LocationRepository) Create(ctx context.Context, loc *domain.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.locations[loc.ID]; exists {
		return fmt.Errorf("location %s already exists", loc.ID)
	}
	stored := *loc
	r.locations[loc.ID] = &stored
	r.order = append(r.order, loc.ID)
	return nil
}

func (r *LocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, exists := r.locations[id]
	if !exists {
		return nil, nil
	}
	out := *loc
	return &out, nil
}

func (r *LocationRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[uuid.UUID]*domain.Location, len(ids))
	for _, id := range ids {
		if loc, ok := r.locations[id]; ok {
			out := *loc
			result[id] = &out
		}
	}
	return result, nil
}

func (r *LocationRepository) Paginate(ctx context.Context, cursor string, pageSize int) (*domain.LocationPage, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	start := 0
	if cursor != "" {
		pos, err := strconv.Atoi(cursor)
		if err != nil || pos < 0 {
			return nil, fmt.Errorf("invalid cursor %q", cursor)
		}
		start = pos
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if start > len(r.order) {
		start = len(r.order)
	}
	end := start + pageSize
	if end > len(r.order) {
		end = len(r.order)
	}

	items := make([]*domain.Location, 0, end-start)
	for _, id := range r.order[start:end] {
		out := *r.locations[id]
		items = append(items, &out)
	}

	return &domain.LocationPage{
		Items:          items,
		IsDone:         end >= len(r.order),
		ContinueCursor: strconv.Itoa(end),
	}, nil
}

func (r *LocationRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order), nil
}
