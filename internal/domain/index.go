package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// RatingBucket - имя предвычисленного булева поля "рейтинг строго больше порога"
type RatingBucket string

const (
	GreaterThan20 RatingBucket = "greater_than_20"
	GreaterThan25 RatingBucket = "greater_than_25"
	GreaterThan30 RatingBucket = "greater_than_30"
	GreaterThan35 RatingBucket = "greater_than_35"
	GreaterThan40 RatingBucket = "greater_than_40"
	GreaterThan45 RatingBucket = "greater_than_45"
)

var ratingBuckets = []struct {
	threshold float64
	bucket    RatingBucket
}{
	{2.0, GreaterThan20},
	{2.5, GreaterThan25},
	{3.0, GreaterThan30},
	{3.5, GreaterThan35},
	{4.0, GreaterThan40},
	{4.5, GreaterThan45},
}

// RatingBucketFor возвращает поле для минимального рейтинга запроса.
// Допустимы только 2.0, 2.5, 3.0, 3.5, 4.0 и 4.5.
func RatingBucketFor(minimumRating float64) (RatingBucket, error) {
	for _, rb := range ratingBuckets {
		if rb.threshold == minimumRating {
			return rb.bucket, nil
		}
	}
	return "", fmt.Errorf("invalid minimum rating: %v", minimumRating)
}

// RatingBuckets - все поля в порядке возрастания порога
func RatingBuckets() []RatingBucket {
	out := make([]RatingBucket, len(ratingBuckets))
	for i, rb := range ratingBuckets {
		out[i] = rb.bucket
	}
	return out
}

// LocationIndexRow - строка поискового индекса, 1:1 с Location по ссылке.
// Сравнения с порогами строгие: рейтинг ровно 4.5 не попадает в GreaterThan45.
type LocationIndexRow struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	LocationID    uuid.UUID    `json:"location_id" db:"location_id"`
	Geospatial    SpatialField `json:"geospatial" db:"geospatial"`
	IsClosed      bool         `json:"is_closed" db:"is_closed"`
	Price         *Price       `json:"price,omitempty" db:"price"`
	GreaterThan20 bool         `json:"greater_than_20" db:"greater_than_20"`
	GreaterThan25 bool         `json:"greater_than_25" db:"greater_than_25"`
	GreaterThan30 bool         `json:"greater_than_30" db:"greater_than_30"`
	GreaterThan35 bool         `json:"greater_than_35" db:"greater_than_35"`
	GreaterThan40 bool         `json:"greater_than_40" db:"greater_than_40"`
	GreaterThan45 bool         `json:"greater_than_45" db:"greater_than_45"`
	Category      *string      `json:"category,omitempty" db:"category"`
}

// NewLocationIndexRow строит строку индекса по локации и её пространственному полю
func NewLocationIndexRow(loc *Location, field SpatialField) *LocationIndexRow {
	row := &LocationIndexRow{
		ID:            uuid.New(),
		LocationID:    loc.ID,
		Geospatial:    field,
		IsClosed:      loc.IsClosed,
		Price:         loc.Price,
		GreaterThan20: loc.Rating > 2.0,
		GreaterThan25: loc.Rating > 2.5,
		GreaterThan30: loc.Rating > 3.0,
		GreaterThan35: loc.Rating > 3.5,
		GreaterThan40: loc.Rating > 4.0,
		GreaterThan45: loc.Rating > 4.5,
	}
	if loc.Category != nil {
		alias := loc.Category.Alias
		row.Category = &alias
	}
	return row
}

// Bucket возвращает значение поля порога
func (r *LocationIndexRow) Bucket(b RatingBucket) bool {
	switch b {
	case GreaterThan20:
		return r.GreaterThan20
	case GreaterThan25:
		return r.GreaterThan25
	case GreaterThan30:
		return r.GreaterThan30
	case GreaterThan35:
		return r.GreaterThan35
	case GreaterThan40:
		return r.GreaterThan40
	case GreaterThan45:
		return r.GreaterThan45
	}
	return false
}
