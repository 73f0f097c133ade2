package testhelpers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
)

// EmpireStateBuilding is the coordinate used by the search fixtures
var EmpireStateBuilding = domain.GeoPoint{Latitude: 40.7484, Longitude: -73.9857}

// NewLocation builds a valid location near the given point
func NewLocation(name string, point domain.GeoPoint, rating float64) *domain.Location {
	return &domain.Location{
		ID:             uuid.New(),
		Name:           name,
		Alias:          name,
		Rating:         rating,
		ReviewCount:    10,
		Coordinates:    point,
		DisplayAddress: []string{"350 5th Ave", "New York, NY 10118"},
	}
}

// SeedLocations inserts n locations through the repository
func SeedLocations(ctx context.Context, repo repository.LocationRepository, n int) ([]*domain.Location, error) {
	out := make([]*domain.Location, 0, n)
	for i := 0; i < n; i++ {
		loc := NewLocation(fmt.Sprintf("seed-%03d", i), EmpireStateBuilding, 3.0)
		if err := repo.Create(ctx, loc); err != nil {
			return nil, fmt.Errorf("seed location %d: %w", i, err)
		}
		out = append(out, loc)
	}
	return out, nil
}
