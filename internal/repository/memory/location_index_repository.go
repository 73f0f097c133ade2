package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
)

// LocationIndexRepository - индекс в памяти: строки в порядке вставки
// плюс обратный индекс токен -> позиции строк
type LocationIndexRepository struct {
	mu      sync.RWMutex
	rows    []*domain.LocationIndexRow
	byToken map[domain.CellToken][]int
}

var _ repository.LocationIndexRepository = (*LocationIndexRepository)(nil)

func NewLocationIndexRepository() *LocationIndexRepository {
	return &LocationIndexRepository{
		byToken: make(map[domain.CellToken][]int),
	}
}

func (r *LocationIndexRepository) Insert(ctx context.Context, row *domain.LocationIndexRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *row
	pos := len(r.rows)
	r.rows = append(r.rows, &stored)
	for _, token := range stored.Geospatial.Tokens() {
		r.byToken[token] = append(r.byToken[token], pos)
	}
	return nil
}

func (r *LocationIndexRepository) Search(ctx context.Context, query *domain.SearchQuery) ([]*domain.LocationIndexRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Кандидаты по токенам, затем проверка фильтров в порядке вставки
	candidates := make(map[int]struct{})
	for _, token := range query.Tokens {
		for _, pos := range r.byToken[token] {
			candidates[pos] = struct{}{}
		}
	}

	var result []*domain.LocationIndexRow
	for pos, row := range r.rows {
		if query.Limit > 0 && len(result) >= query.Limit {
			break
		}
		if _, ok := candidates[pos]; !ok {
			continue
		}
		if !query.Matches(row) {
			continue
		}
		out := *row
		result = append(result, &out)
	}
	return result, nil
}

// CountByLocation - число строк индекса локации; используется тестами переиндексации
func (r *LocationIndexRepository) CountByLocation(ctx context.Context, locationID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, row := range r.rows {
		if row.LocationID == locationID {
			count++
		}
	}
	return count, nil
}
