package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
	"github.com/location-search/internal/pkg/errors"
)

// LocationUseCase - чтение загруженных локаций
type LocationUseCase struct {
	locationRepo repository.LocationRepository
	logger       *zap.Logger
}

// NewLocationUseCase - создание нового LocationUseCase
func NewLocationUseCase(locationRepo repository.LocationRepository, logger *zap.Logger) *LocationUseCase {
	return &LocationUseCase{locationRepo: locationRepo, logger: logger}
}

// GetByID - локация по ID или ErrLocationNotFound
func (uc *LocationUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	loc, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Error("Failed to get location", zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}
	if loc == nil {
		return nil, errors.ErrLocationNotFound.WithDetails(map[string]interface{}{"id": id.String()})
	}
	return loc, nil
}

// Count - число загруженных локаций
func (uc *LocationUseCase) Count(ctx context.Context) (int, error) {
	return uc.locationRepo.Count(ctx)
}
