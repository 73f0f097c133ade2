package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingBucketFor(t *testing.T) {
	tests := []struct {
		rating  float64
		want    RatingBucket
		wantErr bool
	}{
		{2.0, GreaterThan20, false},
		{2.5, GreaterThan25, false},
		{3.0, GreaterThan30, false},
		{3.5, GreaterThan35, false},
		{4.0, GreaterThan40, false},
		{4.5, GreaterThan45, false},
		{1.5, "", true},
		{4.25, "", true},
		{5.0, "", true},
	}

	for _, tt := range tests {
		got, err := RatingBucketFor(tt.rating)
		if tt.wantErr {
			assert.Error(t, err, "rating %v", tt.rating)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewLocationIndexRow_StrictThresholds(t *testing.T) {
	price := PriceModerate
	loc := &Location{
		ID:       uuid.New(),
		Rating:   4.5,
		Price:    &price,
		IsClosed: true,
		Category: &Category{Alias: "pizza", Title: "Pizza"},
	}

	row := NewLocationIndexRow(loc, "a b c")

	assert.Equal(t, loc.ID, row.LocationID)
	assert.True(t, row.IsClosed)
	assert.Equal(t, PriceModerate, *row.Price)
	assert.Equal(t, "pizza", *row.Category)
	assert.True(t, row.GreaterThan20)
	assert.True(t, row.GreaterThan40)
	// 4.5 > 4.5 ложно
	assert.False(t, row.GreaterThan45)
	assert.False(t, row.Bucket(GreaterThan45))
	assert.True(t, row.Bucket(GreaterThan35))
}

func TestNewLocationIndexRow_NoCategory(t *testing.T) {
	row := NewLocationIndexRow(&Location{ID: uuid.New(), Rating: 0}, "x")
	assert.Nil(t, row.Category)
	assert.Nil(t, row.Price)
	for _, b := range RatingBuckets() {
		assert.False(t, row.Bucket(b))
	}
}

func TestSearchQuery_Matches(t *testing.T) {
	price := PriceLow
	other := PriceHigh
	closed := false
	bucket := GreaterThan30
	row := &LocationIndexRow{
		Geospatial:    "tokA tokB tokC",
		Price:         &price,
		GreaterThan30: true,
	}

	assert.True(t, (&SearchQuery{Tokens: []CellToken{"zzz", "tokB"}}).Matches(row))
	assert.False(t, (&SearchQuery{Tokens: []CellToken{"zzz"}}).Matches(row))
	assert.True(t, (&SearchQuery{Tokens: []CellToken{"tokA"}, IsClosed: &closed, Price: &price, RatingBucket: &bucket}).Matches(row))
	assert.False(t, (&SearchQuery{Tokens: []CellToken{"tokA"}, Price: &other}).Matches(row))
}

func TestPrice_Valid(t *testing.T) {
	assert.True(t, Price("$$").Valid())
	assert.False(t, Price("$$$$$").Valid())
	assert.False(t, Price("").Valid())
}

func TestSpatialField_Tokens(t *testing.T) {
	f := JoinTokens([]CellToken{"a", "b"})
	assert.Equal(t, SpatialField("a b"), f)
	assert.Equal(t, []CellToken{"a", "b"}, f.Tokens())
}
