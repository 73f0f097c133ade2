package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
	"github.com/location-search/internal/usecase/dto"
)

// CategoryUseCase - справочник известных категорий
type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryUseCase - создание нового CategoryUseCase
func NewCategoryUseCase(categoryRepo repository.CategoryRepository, logger *zap.Logger) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo, logger: logger}
}

// List - справочник по убыванию популярности
func (uc *CategoryUseCase) List(ctx context.Context) (*dto.CategoriesResponse, error) {
	categories, err := uc.categoryRepo.List(ctx)
	if err != nil {
		uc.logger.Error("Failed to list categories", zap.Error(err))
		return nil, err
	}
	if categories == nil {
		categories = []domain.CategoryCount{}
	}
	return &dto.CategoriesResponse{Categories: categories, Total: len(categories)}, nil
}

// Upsert - обновление справочника
func (uc *CategoryUseCase) Upsert(ctx context.Context, req dto.UpsertCategoriesRequest) error {
	categories := make([]domain.CategoryCount, len(req.Categories))
	for i, c := range req.Categories {
		categories[i] = domain.CategoryCount{Alias: c.Alias, Title: c.Title, Count: c.Count}
	}
	if err := uc.categoryRepo.Upsert(ctx, categories); err != nil {
		uc.logger.Error("Failed to upsert categories", zap.Int("count", len(categories)), zap.Error(err))
		return err
	}
	uc.logger.Info("Categories upserted", zap.Int("count", len(categories)))
	return nil
}

// CountCategories - популярность категорий по набору строк: сколько строк
// упоминает каждый alias. Заголовок берётся из первого упоминания.
func CountCategories(rows []dto.RawLocationRow) []domain.CategoryCount {
	index := make(map[string]int)
	var out []domain.CategoryCount
	for _, row := range rows {
		for _, c := range row.Categories {
			if i, ok := index[c.Alias]; ok {
				out[i].Count++
				continue
			}
			index[c.Alias] = len(out)
			out = append(out, domain.CategoryCount{Alias: c.Alias, Title: c.Title, Count: 1})
		}
	}
	return out
}
