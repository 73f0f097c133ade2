package repository

import (
	"context"

	"github.com/location-search/internal/domain"
)

// LocationIndexRepository определяет методы для работы с поисковым индексом
type LocationIndexRepository interface {
	// Insert добавляет строку индекса (без удаления предыдущих)
	Insert(ctx context.Context, row *domain.LocationIndexRow) error

	// Search возвращает строки индекса с пересечением токенов и точными фильтрами,
	// не больше query.Limit, в порядке вставки
	Search(ctx context.Context, query *domain.SearchQuery) ([]*domain.LocationIndexRow, error)
}
