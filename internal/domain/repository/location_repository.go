package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/location-search/internal/domain"
)

// LocationRepository определяет методы для работы с заведениями
type LocationRepository interface {
	// Create сохраняет новую локацию
	Create(ctx context.Context, loc *domain.Location) error

	// GetByID возвращает локацию по ID; nil без ошибки, если не найдена
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error)

	// GetByIDs возвращает локации пачкой, ключ - ID
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Location, error)

	// Paginate возвращает страницу локаций по непрозрачному курсору (только вперёд)
	Paginate(ctx context.Context, cursor string, pageSize int) (*domain.LocationPage, error)

	// Count возвращает общее количество локаций
	Count(ctx context.Context) (int, error)
}
