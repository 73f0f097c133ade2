package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"github.com/location-search/internal/domain/repository"
	"github.com/location-search/internal/repository/postgres"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.Wrap(db, logger)
}

// NewLocationRepositoryForTest creates a location repository with test database and logger
func NewLocationRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.LocationRepository {
	return postgres.NewLocationRepository(NewDBForTest(db, logger))
}

// NewLocationIndexRepositoryForTest creates an index repository with test database and logger
func NewLocationIndexRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.LocationIndexRepository {
	return postgres.NewLocationIndexRepository(NewDBForTest(db, logger))
}

// NewCategoryRepositoryForTest creates a category repository with test database and logger
func NewCategoryRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.CategoryRepository {
	return postgres.NewCategoryRepository(NewDBForTest(db, logger))
}
