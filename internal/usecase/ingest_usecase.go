package usecase

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
	"github.com/location-search/internal/pkg/errors"
	"github.com/location-search/internal/pkg/geoindex"
	"github.com/location-search/internal/pkg/metrics"
	"github.com/location-search/internal/pkg/utils"
	"github.com/location-search/internal/usecase/dto"
)

// IngestUseCase - загрузка сырых строк: проверка, конвертация, запись
// локации и её строки индекса
type IngestUseCase struct {
	locationRepo repository.LocationRepository
	indexRepo    repository.LocationIndexRepository
	categoryRepo repository.CategoryRepository
	cacheRepo    repository.CacheRepository
	fields       *geoindex.FieldBuilder
	logger       *zap.Logger
	now          func() time.Time
}

// NewIngestUseCase - создание нового IngestUseCase; cacheRepo может быть nil
func NewIngestUseCase(
	locationRepo repository.LocationRepository,
	indexRepo repository.LocationIndexRepository,
	categoryRepo repository.CategoryRepository,
	cacheRepo repository.CacheRepository,
	fields *geoindex.FieldBuilder,
	logger *zap.Logger,
) *IngestUseCase {
	return &IngestUseCase{
		locationRepo: locationRepo,
		indexRepo:    indexRepo,
		categoryRepo: categoryRepo,
		cacheRepo:    cacheRepo,
		fields:       fields,
		logger:       logger,
		now:          time.Now,
	}
}

// IngestRow - загрузка одной строки. Пространственное поле вычисляется до
// любой записи: ошибка геометрии не оставляет локацию без строки индекса.
func (uc *IngestUseCase) IngestRow(ctx context.Context, row *dto.RawLocationRow) (uuid.UUID, error) {
	return uc.ingest(ctx, row, true)
}

// StoreRow - та же проверка и запись локации, но без строки индекса.
// Для массовой загрузки, после которой индекс строит переиндексация.
func (uc *IngestUseCase) StoreRow(ctx context.Context, row *dto.RawLocationRow) (uuid.UUID, error) {
	return uc.ingest(ctx, row, false)
}

func (uc *IngestUseCase) ingest(ctx context.Context, row *dto.RawLocationRow, withIndex bool) (uuid.UUID, error) {
	loc, err := uc.ToLocation(ctx, row)
	if err != nil {
		rejected(err)
		return uuid.Nil, err
	}

	field, err := uc.fields.Build(loc.Coordinates)
	if err != nil {
		rejected(err)
		return uuid.Nil, err
	}

	if err := uc.locationRepo.Create(ctx, loc); err != nil {
		uc.logger.Error("Failed to persist location", zap.String("name", loc.Name), zap.Error(err))
		return uuid.Nil, err
	}

	if withIndex {
		if err := uc.indexRepo.Insert(ctx, domain.NewLocationIndexRow(loc, field)); err != nil {
			// Локация уже записана; строку индекса восстановит переиндексация
			uc.logger.Error("Failed to persist index row",
				zap.String("location_id", loc.ID.String()),
				zap.Error(err))
			return uuid.Nil, err
		}
		invalidateSearchCache(ctx, uc.cacheRepo, uc.logger)
	}

	metrics.IngestedTotal.Inc()
	uc.logger.Debug("Location ingested",
		zap.String("id", loc.ID.String()),
		zap.String("name", loc.Name))
	return loc.ID, nil
}

// IngestMany - последовательная загрузка; первая ошибка прерывает пакет,
// индекс строки возвращается в деталях
func (uc *IngestUseCase) IngestMany(ctx context.Context, rows []dto.RawLocationRow) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		id, err := uc.IngestRow(ctx, &rows[i])
		if err != nil {
			if appErr, ok := errors.As(err); ok {
				details := map[string]interface{}{"row_index": i, "ingested": len(ids)}
				for k, v := range appErr.Details {
					details[k] = v
				}
				return ids, appErr.WithDetails(details)
			}
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ToLocation - проверка и явная конвертация сырой строки
func (uc *IngestUseCase) ToLocation(ctx context.Context, row *dto.RawLocationRow) (*domain.Location, error) {
	var price *domain.Price
	if row.Price != nil {
		p := domain.Price(*row.Price)
		if !p.Valid() {
			return nil, errors.ErrInvalidPrice.WithDetails(map[string]interface{}{"price": *row.Price})
		}
		price = &p
	}

	if row.Rating == nil || math.IsNaN(*row.Rating) ||
		*row.Rating < domain.MinRating || *row.Rating > domain.MaxRating {
		details := map[string]interface{}{"min": domain.MinRating, "max": domain.MaxRating}
		if row.Rating != nil && !math.IsNaN(*row.Rating) && !math.IsInf(*row.Rating, 0) {
			details["rating"] = *row.Rating
		}
		return nil, errors.ErrInvalidRating.WithDetails(details)
	}

	category, err := uc.selectCategory(ctx, row.Categories)
	if err != nil {
		return nil, err
	}

	if row.Coordinates == nil || row.Coordinates.Latitude == nil || row.Coordinates.Longitude == nil {
		return nil, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{"reason": "missing coordinates"})
	}
	point := domain.GeoPoint{Latitude: *row.Coordinates.Latitude, Longitude: *row.Coordinates.Longitude}
	if !utils.ValidateCoordinates(point.Latitude, point.Longitude) {
		return nil, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
			"latitude":  point.Latitude,
			"longitude": point.Longitude,
		})
	}

	var address []string
	if row.Location != nil {
		address = row.Location.DisplayAddress
	}

	return &domain.Location{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(row.Name),
		Alias:          row.Alias,
		ImageURL:       row.ImageURL,
		Neighborhood:   row.Neighborhood,
		Category:       category,
		Price:          price,
		Rating:         *row.Rating,
		ReviewCount:    row.ReviewCount,
		URL:            row.URL,
		Coordinates:    point,
		DisplayPhone:   row.DisplayPhone,
		DisplayAddress: address,
		IsClosed:       row.IsClosed,
		CreatedAt:      uc.now().UTC(),
	}, nil
}

// selectCategory - самая популярная из категорий строки; каждая категория
// должна быть в справочнике. Без категорий - nil.
func (uc *IngestUseCase) selectCategory(ctx context.Context, raw []dto.RawCategory) (*domain.Category, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	aliases := make([]string, len(raw))
	for i, c := range raw {
		aliases[i] = c.Alias
	}
	known, err := uc.categoryRepo.GetByAliases(ctx, aliases)
	if err != nil {
		return nil, err
	}
	for _, alias := range aliases {
		if _, ok := known[alias]; !ok {
			return nil, errors.ErrInvalidCategory.WithDetails(map[string]interface{}{"alias": alias})
		}
	}

	return SelectCategory(raw, known), nil
}

// SelectCategory - категория с наибольшей популярностью; при равенстве
// сохраняется порядок строки
func SelectCategory(raw []dto.RawCategory, counts map[string]domain.CategoryCount) *domain.Category {
	if len(raw) == 0 {
		return nil
	}
	sorted := make([]dto.RawCategory, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool {
		return counts[sorted[i].Alias].Count > counts[sorted[j].Alias].Count
	})

	best := sorted[0]
	title := best.Title
	if title == "" {
		title = counts[best.Alias].Title
	}
	return &domain.Category{Alias: best.Alias, Title: title}
}

func rejected(err error) {
	code := errors.ErrInternalServer.Code
	if appErr, ok := errors.As(err); ok {
		code = appErr.Code
	}
	metrics.IngestRejectedTotal.WithLabelValues(code).Inc()
}

// invalidateSearchCache - после записи в индекс закешированные результаты
// поиска устаревают. Ошибка кеша не отменяет уже сделанную запись.
func invalidateSearchCache(ctx context.Context, cacheRepo repository.CacheRepository, logger *zap.Logger) {
	if cacheRepo == nil {
		return
	}
	if err := cacheRepo.BumpSearchGeneration(ctx); err != nil {
		logger.Warn("Failed to invalidate search cache", zap.Error(err))
	}
}
