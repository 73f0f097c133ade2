package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
	"github.com/location-search/internal/pkg/errors"
	"github.com/location-search/internal/pkg/geoindex"
	"github.com/location-search/internal/pkg/metrics"
	"github.com/location-search/internal/pkg/utils"
)

const (
	// DefaultMaxRows - число результатов по умолчанию
	DefaultMaxRows = 100
	// hydrateBatchSize - сколько локаций подгружать одним запросом
	hydrateBatchSize = 100
)

// SearchOptions - ограничения поиска
type SearchOptions struct {
	DefaultMaxRows int
	MaxRowsLimit   int
	ScanLimit      int
	MaxCells       int
	CellOverflow   geoindex.OverflowPolicy
	CacheTTL       time.Duration
}

// SearchUseCase - поиск заведений внутри полигона
type SearchUseCase struct {
	grid         geoindex.Grid
	indexRepo    repository.LocationIndexRepository
	locationRepo repository.LocationRepository
	cacheRepo    repository.CacheRepository
	opts         SearchOptions
	logger       *zap.Logger
}

// NewSearchUseCase - создание нового SearchUseCase; cacheRepo может быть nil
func NewSearchUseCase(
	grid geoindex.Grid,
	indexRepo repository.LocationIndexRepository,
	locationRepo repository.LocationRepository,
	cacheRepo repository.CacheRepository,
	opts SearchOptions,
	logger *zap.Logger,
) *SearchUseCase {
	if opts.DefaultMaxRows <= 0 {
		opts.DefaultMaxRows = DefaultMaxRows
	}
	if opts.MaxRowsLimit < opts.DefaultMaxRows {
		opts.MaxRowsLimit = opts.DefaultMaxRows
	}
	if opts.ScanLimit <= 0 {
		opts.ScanLimit = DefaultScanLimit
	}
	if opts.MaxCells <= 0 {
		opts.MaxCells = geoindex.DefaultMaxCells
	}
	if opts.CellOverflow == "" {
		opts.CellOverflow = geoindex.OverflowTruncate
	}
	return &SearchUseCase{
		grid:         grid,
		indexRepo:    indexRepo,
		locationRepo: locationRepo,
		cacheRepo:    cacheRepo,
		opts:         opts,
		logger:       logger,
	}
}

// Grid - сетка, используемая поиском (для геометрии ячеек в ответе)
func (uc *SearchUseCase) Grid() geoindex.Grid {
	return uc.grid
}

// SearchPolygon - поиск: разрешение -> кандидатные ячейки -> токены ->
// запрос к индексу -> гидратация -> точная проверка попадания в полигон
func (uc *SearchUseCase) SearchPolygon(
	ctx context.Context,
	polygon domain.QueryPolygon,
	filters domain.SearchFilters,
	maxRows int,
) (*domain.SearchResult, error) {
	start := time.Now()
	metrics.SearchRequestsTotal.Inc()

	if err := validatePolygon(polygon); err != nil {
		return nil, err
	}
	switch {
	case maxRows == 0:
		maxRows = uc.opts.DefaultMaxRows
	case maxRows < 0 || maxRows > uc.opts.MaxRowsLimit:
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"max_rows": maxRows,
			"limit":    uc.opts.MaxRowsLimit,
		})
	}

	// Фильтры проверяются до обращения к сетке и кешу
	if _, err := PlanSearch(nil, filters, uc.opts.ScanLimit); err != nil {
		return nil, err
	}

	cacheKey := uc.cacheKey(ctx, polygon, filters, maxRows)
	if cached := uc.getCached(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	resolution := geoindex.SelectResolution(uc.grid, polygon)
	metrics.SearchResolution.Observe(float64(resolution))

	cells, err := geoindex.EnumerateCells(uc.grid, polygon, resolution, geoindex.EnumerateOptions{
		MaxCells: uc.opts.MaxCells,
		Policy:   uc.opts.CellOverflow,
	})
	if err != nil {
		uc.logger.Warn("Failed to enumerate candidate cells",
			zap.Int("resolution", resolution),
			zap.Error(err))
		return nil, err
	}
	if cells.Truncated {
		metrics.CellSetTruncatedTotal.Inc()
		uc.logger.Warn("Too many candidate cells, truncating",
			zap.Int("total", cells.Total),
			zap.Int("kept", len(cells.Cells)),
			zap.Int("resolution", resolution))
	}

	query, err := PlanSearch(geoindex.EncodeCells(cells.Cells), filters, uc.opts.ScanLimit)
	if err != nil {
		return nil, err
	}

	candidates, err := uc.indexRepo.Search(ctx, query)
	if err != nil {
		uc.logger.Error("Failed to search token index", zap.Error(err))
		return nil, err
	}
	metrics.CandidateRowsScanned.Add(float64(len(candidates)))

	rows, skipped, err := uc.postFilter(ctx, polygon, candidates, maxRows)
	if err != nil {
		return nil, err
	}
	metrics.PostFilterSkippedTotal.Add(float64(skipped))

	result := &domain.SearchResult{
		MatchedCells: cells.Cells,
		Rows:         rows,
		Resolution:   resolution,
		Scanned:      len(candidates),
		Skipped:      skipped,
		Truncated:    cells.Truncated,
	}

	elapsed := time.Since(start)
	metrics.SearchDurationMs.Observe(float64(elapsed.Milliseconds()))
	uc.logger.Debug("Polygon search finished",
		zap.Int("resolution", resolution),
		zap.Int("cells", len(cells.Cells)),
		zap.Int("scanned", len(candidates)),
		zap.Int("returned", len(rows)),
		zap.Int("skipped", skipped),
		zap.Duration("duration", elapsed))

	uc.setCached(ctx, cacheKey, result)
	return result, nil
}

// postFilter - гидратация кандидатов по порядку и проверка попадания в полигон.
// Останавливается, как только принято maxRows строк.
func (uc *SearchUseCase) postFilter(
	ctx context.Context,
	polygon domain.QueryPolygon,
	candidates []*domain.LocationIndexRow,
	maxRows int,
) ([]*domain.Location, int, error) {
	container := geoindex.NewContainer(polygon)
	rows := make([]*domain.Location, 0, min(maxRows, len(candidates)))
	evaluated := make(map[uuid.UUID]struct{}, len(candidates))
	skipped := 0

	for offset := 0; offset < len(candidates) && len(rows) < maxRows; offset += hydrateBatchSize {
		batch := candidates[offset:min(offset+hydrateBatchSize, len(candidates))]

		ids := make([]uuid.UUID, len(batch))
		for i, c := range batch {
			ids[i] = c.LocationID
		}
		locations, err := uc.locationRepo.GetByIDs(ctx, ids)
		if err != nil {
			uc.logger.Error("Failed to hydrate candidates", zap.Int("count", len(ids)), zap.Error(err))
			return nil, 0, err
		}

		for _, candidate := range batch {
			if len(rows) >= maxRows {
				break
			}
			loc, ok := locations[candidate.LocationID]
			if !ok {
				uc.logger.Error("Index row references a missing location",
					zap.String("index_row_id", candidate.ID.String()),
					zap.String("location_id", candidate.LocationID.String()))
				return nil, 0, errors.ErrDanglingReference.WithDetails(map[string]interface{}{
					"index_row_id": candidate.ID.String(),
					"location_id":  candidate.LocationID.String(),
				})
			}
			// Повторная переиндексация может оставить вторую строку индекса;
			// каждая локация проверяется и учитывается один раз
			if _, dup := evaluated[loc.ID]; dup {
				continue
			}
			evaluated[loc.ID] = struct{}{}
			if !container.Contains(loc.Coordinates) {
				skipped++
				continue
			}
			rows = append(rows, loc)
		}
	}

	return rows, skipped, nil
}

// cacheKey - ключ с текущим поколением кеша; пустой, если кеш не используется
func (uc *SearchUseCase) cacheKey(
	ctx context.Context,
	polygon domain.QueryPolygon,
	filters domain.SearchFilters,
	maxRows int,
) string {
	if uc.cacheRepo == nil || uc.opts.CacheTTL <= 0 {
		return ""
	}
	gen, err := uc.cacheRepo.SearchGeneration(ctx)
	if err != nil {
		uc.logger.Warn("Failed to read search cache generation, bypassing cache", zap.Error(err))
		return ""
	}
	return searchCacheKey(polygon, filters, maxRows, gen)
}

func (uc *SearchUseCase) getCached(ctx context.Context, key string) *domain.SearchResult {
	if key == "" {
		return nil
	}
	cached, err := uc.cacheRepo.GetSearchResult(ctx, key)
	if err != nil {
		uc.logger.Warn("Failed to read search cache", zap.Error(err))
		return nil
	}
	if cached == nil {
		metrics.SearchCacheMissesTotal.Inc()
		return nil
	}
	metrics.SearchCacheHitsTotal.Inc()
	return cached
}

func (uc *SearchUseCase) setCached(ctx context.Context, key string, result *domain.SearchResult) {
	if key == "" {
		return
	}
	if err := uc.cacheRepo.SetSearchResult(ctx, key, result, uc.opts.CacheTTL); err != nil {
		uc.logger.Warn("Failed to write search cache", zap.Error(err))
	}
}

func validatePolygon(polygon domain.QueryPolygon) error {
	if len(polygon) < 2 {
		return errors.ErrInvalidPolygon.WithDetails(map[string]interface{}{
			"vertices": len(polygon),
		})
	}
	for i, p := range polygon {
		if !utils.ValidateCoordinates(p.Latitude, p.Longitude) {
			return errors.ErrInvalidPolygon.WithDetails(map[string]interface{}{
				"vertex_index": i,
			})
		}
	}
	return nil
}

// searchCacheKey - ключ кеша: sha256 от канонического JSON запроса и поколения.
// Каждая запись в индекс увеличивает поколение, и прежние ключи больше не читаются.
func searchCacheKey(polygon domain.QueryPolygon, filters domain.SearchFilters, maxRows int, generation int64) string {
	payload, _ := json.Marshal(struct {
		Generation    int64               `json:"g"`
		Polygon       domain.QueryPolygon `json:"p"`
		IsClosed      *bool               `json:"c,omitempty"`
		Price         *domain.Price       `json:"pr,omitempty"`
		MinimumRating *float64            `json:"r,omitempty"`
		MaxRows       int                 `json:"m"`
	}{generation, polygon, filters.IsClosed, filters.Price, filters.MinimumRating, maxRows})
	sum := sha256.Sum256(payload)
	return domain.SearchCacheKeyPrefix + hex.EncodeToString(sum[:])
}
