package bootstrap_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/location-search/internal/bootstrap"
	"github.com/location-search/internal/config"
	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/usecase/dto"
)

func testConfig(driver string) *config.Config {
	cfg := &config.Config{}
	cfg.Storage.Driver = driver
	cfg.Search.DefaultMaxRows = 100
	cfg.Search.MaxRowsLimit = 1000
	cfg.Search.ScanLimit = 1023
	cfg.Search.MaxCells = 16
	cfg.Search.CellOverflow = "truncate"
	cfg.Reindex.PageSize = 100
	cfg.Reindex.LockTTL = time.Hour
	return cfg
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	_, err := bootstrap.OpenStores(testConfig("mongo"), zap.NewNop())
	assert.Error(t, err)
}

func TestOpenStores_IngestAndSearch(t *testing.T) {
	for _, driver := range []string{"memory", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig(driver)
			cfg.SQLite.Path = filepath.Join(t.TempDir(), "locations.db")

			stores, err := bootstrap.OpenStores(cfg, zap.NewNop())
			require.NoError(t, err)
			defer stores.Close()
			assert.False(t, stores.SharedQueue)

			uc := bootstrap.NewUseCases(cfg, stores, zap.NewNop())
			ctx := context.Background()

			lat, lng, rating := 40.7484, -73.9857, 4.5
			id, err := uc.Ingest.IngestRow(ctx, &dto.RawLocationRow{
				Name:        "Empire Diner",
				Rating:      &rating,
				Coordinates: &dto.RawCoordinates{Latitude: &lat, Longitude: &lng},
			})
			require.NoError(t, err)

			result, err := uc.Search.SearchPolygon(ctx, domain.QueryPolygon{
				{Latitude: 40.7462, Longitude: -73.9887},
				{Latitude: 40.7506, Longitude: -73.9887},
				{Latitude: 40.7506, Longitude: -73.9827},
				{Latitude: 40.7462, Longitude: -73.9827},
			}, domain.SearchFilters{}, 0)
			require.NoError(t, err)
			require.Len(t, result.Rows, 1)
			assert.Equal(t, id, result.Rows[0].ID)

			for name, check := range stores.HealthChecks {
				assert.NoError(t, check(ctx), name)
			}
		})
	}
}
