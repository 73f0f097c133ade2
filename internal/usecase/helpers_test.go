package usecase_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/pkg/geoindex"
	"github.com/location-search/internal/repository/memory"
	"github.com/location-search/internal/usecase"
	"github.com/location-search/internal/usecase/dto"
)

var empireState = domain.GeoPoint{Latitude: 40.7484, Longitude: -73.9857}

// testEnv wires all use cases to in-memory repositories
type testEnv struct {
	locations  *memory.LocationRepository
	index      *memory.LocationIndexRepository
	categories *memory.CategoryRepository
	cache      *memory.CacheRepository
	queue      *memory.ReindexQueue
	grid       geoindex.Grid
	ingest     *usecase.IngestUseCase
	search     *usecase.SearchUseCase
	reindex    *usecase.ReindexUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	env := &testEnv{
		locations:  memory.NewLocationRepository(),
		index:      memory.NewLocationIndexRepository(),
		categories: memory.NewCategoryRepository(),
		cache:      memory.NewCacheRepository(),
		queue:      memory.NewReindexQueue(),
		grid:       geoindex.NewH3Grid(),
	}
	fields := geoindex.NewFieldBuilder(env.grid, false)

	env.ingest = usecase.NewIngestUseCase(env.locations, env.index, env.categories, env.cache, fields, logger)
	env.search = usecase.NewSearchUseCase(env.grid, env.index, env.locations, nil, usecase.SearchOptions{}, logger)
	env.reindex = usecase.NewReindexUseCase(env.locations, env.index, env.queue, env.cache, fields, 100, time.Hour, logger)

	require.NoError(t, env.categories.Upsert(context.Background(), []domain.CategoryCount{
		{Alias: "pizza", Title: "Pizza", Count: 50},
		{Alias: "bars", Title: "Bars", Count: 120},
		{Alias: "diners", Title: "Diners", Count: 50},
	}))
	return env
}

// box returns a square polygon [SW, NW, NE, SE] of the given side around center
func box(center domain.GeoPoint, sizeMeters float64) domain.QueryPolygon {
	half := sizeMeters / 2
	dLat := half / 111320.0
	dLng := half / (111320.0 * math.Cos(center.Latitude*math.Pi/180))
	return domain.QueryPolygon{
		{Latitude: center.Latitude - dLat, Longitude: center.Longitude - dLng},
		{Latitude: center.Latitude + dLat, Longitude: center.Longitude - dLng},
		{Latitude: center.Latitude + dLat, Longitude: center.Longitude + dLng},
		{Latitude: center.Latitude - dLat, Longitude: center.Longitude + dLng},
	}
}

// offset moves a point east by the given number of meters
func offsetEast(p domain.GeoPoint, meters float64) domain.GeoPoint {
	return domain.GeoPoint{
		Latitude:  p.Latitude,
		Longitude: p.Longitude + meters/(111320.0*math.Cos(p.Latitude*math.Pi/180)),
	}
}

func rawRow(name string, point domain.GeoPoint, rating float64) dto.RawLocationRow {
	lat, lng := point.Latitude, point.Longitude
	return dto.RawLocationRow{
		Alias:       name,
		Name:        name,
		URL:         "https://example.com/" + name,
		ReviewCount: 10,
		Rating:      &rating,
		Coordinates: &dto.RawCoordinates{Latitude: &lat, Longitude: &lng},
		Location:    &dto.RawAddress{DisplayAddress: []string{"350 5th Ave", "New York, NY 10118"}},
	}
}

func ptrString(s string) *string            { return &s }
func ptrFloat64(f float64) *float64         { return &f }
func ptrBool(b bool) *bool                  { return &b }
func ptrPrice(p domain.Price) *domain.Price { return &p }

// MockLocationIndexRepository is a mock of LocationIndexRepository
type MockLocationIndexRepository struct {
	mock.Mock
}

func (m *MockLocationIndexRepository) Insert(ctx context.Context, row *domain.LocationIndexRow) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockLocationIndexRepository) Search(ctx context.Context, query *domain.SearchQuery) ([]*domain.LocationIndexRow, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LocationIndexRow), args.Error(1)
}
