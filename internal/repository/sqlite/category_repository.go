package sqlite

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
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
	return &categoryRepository{db: db.DB, logger: db.logger}
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.CategoryCount, error) {
	var categories []domain.CategoryCount
	if err := r.db.SelectContext(ctx, &categories,
		`SELECT alias, title, popularity FROM categories ORDER BY popularity DESC, alias`); err != nil {
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

	args := make([]interface{}, len(aliases))
	for i, a := range aliases {
		args[i] = a
	}
	query := `SELECT alias, title, popularity FROM categories WHERE alias IN (?` +
		strings.Repeat(",?", len(aliases)-1) + `)`

	var categories []domain.CategoryCount
	if err := r.db.SelectContext(ctx, &categories, query, args...); err != nil {
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

	for _, c := range categories {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO categories (alias, title, popularity) VALUES (:alias, :title, :popularity)
			ON CONFLICT (alias) DO UPDATE SET title = excluded.title, popularity = excluded.popularity`, c); err != nil {
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
