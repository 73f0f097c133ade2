package usecase

import (
	"math"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/pkg/errors"
)

// DefaultScanLimit - потолок строк индекса, читаемых до пост-фильтра
const DefaultScanLimit = 1023

// PlanSearch - построение запроса к токенному индексу: OR по токенам
// ячеек плюс точные фильтры, объединённые через AND
func PlanSearch(tokens []domain.CellToken, filters domain.SearchFilters, scanLimit int) (*domain.SearchQuery, error) {
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}

	query := &domain.SearchQuery{
		Tokens:   tokens,
		IsClosed: filters.IsClosed,
		Limit:    scanLimit,
	}

	if filters.Price != nil {
		if !filters.Price.Valid() {
			return nil, errors.ErrInvalidPrice.WithDetails(map[string]interface{}{
				"price": string(*filters.Price),
			})
		}
		price := *filters.Price
		query.Price = &price
	}

	if filters.MinimumRating != nil {
		bucket, err := domain.RatingBucketFor(*filters.MinimumRating)
		if err != nil {
			details := map[string]interface{}{"allowed": []float64{2.0, 2.5, 3.0, 3.5, 4.0, 4.5}}
			if v := *filters.MinimumRating; !math.IsNaN(v) && !math.IsInf(v, 0) {
				details["minimum_rating"] = v
			}
			return nil, errors.ErrInvalidRating.WithDetails(details)
		}
		query.RatingBucket = &bucket
	}

	return query, nil
}
