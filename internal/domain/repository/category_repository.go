package repository

import (
	"context"

	"github.com/location-search/internal/domain"
)

// CategoryRepository - справочник известных категорий с популярностью
type CategoryRepository interface {
	// List возвращает справочник по убыванию популярности
	List(ctx context.Context) ([]domain.CategoryCount, error)

	// GetByAliases возвращает известные категории по alias
	GetByAliases(ctx context.Context, aliases []string) (map[string]domain.CategoryCount, error)

	// Upsert обновляет справочник (популярность перезаписывается)
	Upsert(ctx context.Context, categories []domain.CategoryCount) error
}
