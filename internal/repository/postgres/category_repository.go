package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
	"github.com/location-search/internal/pkg/errors"
	"go.uber.org/zap"
)

type categoryRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewCategoryRepository(db *DB) repository.CategoryRepository {
	return &categoryRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.CategoryCount, error) {
	var categories []domain.CategoryCount
	query := `SELECT alias, title, popularity FROM categories ORDER BY popularity DESC, alias`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		r.logger.Error("Failed to list categories", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return categories, nil
}

func (r *categoryRepository) GetByAliases(ctx context.Context, aliases []string) (map[string]domain.CategoryCount, error) {
	result := make(map[string]domain.CategoryCount, len(aliases))
	if len(aliases) == 0 {
		return result, nil
	}

	var categories []domain.CategoryCount
	query := `SELECT alias, title, popularity FROM categories WHERE alias = ANY($1)`
	if err := r.db.SelectContext(ctx, &categories, query, pq.Array(aliases)); err != nil {
		r.logger.Error("Failed to get categories", zap.Strings("aliases", aliases), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	for _, c := range categories {
		result[c.Alias] = c
	}
	return result, nil
}

func (r *categoryRepository) Upsert(ctx context.Context, categories []domain.CategoryCount) error {
	if len(categories) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO categories (alias, title, popularity) VALUES (:alias, :title, :popularity)
		ON CONFLICT (alias) DO UPDATE SET title = EXCLUDED.title, popularity = EXCLUDED.popularity
	`
	for _, c := range categories {
		if _, err := tx.NamedExecContext(ctx, query, c); err != nil {
			r.logger.Error("Failed to upsert category", zap.String("alias", c.Alias), zap.Error(err))
			return errors.ErrDatabaseError
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit categories", zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}
