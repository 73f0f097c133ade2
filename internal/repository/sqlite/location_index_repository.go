package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
	"github.com/location-search/internal/pkg/errors"
	"go.uber.org/zap"
)

type locationIndexRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewLocationIndexRepository(db *DB) repository.LocationIndexRepository {
	return &locationIndexRepository{db: db.DB, logger: db.logger}
}

type indexRow struct {
	ID            string         `db:"id"`
	LocationID    string         `db:"location_id"`
	Geospatial    string         `db:"geospatial"`
	IsClosed      bool           `db:"is_closed"`
	Price         sql.NullString `db:"price"`
	GreaterThan20 bool           `db:"greater_than_20"`
	GreaterThan25 bool           `db:"greater_than_25"`
	GreaterThan30 bool           `db:"greater_than_30"`
	GreaterThan35 bool           `db:"greater_than_35"`
	GreaterThan40 bool           `db:"greater_than_40"`
	GreaterThan45 bool           `db:"greater_than_45"`
	Category      sql.NullString `db:"category"`
}

func (r *indexRow) toDomain() (*domain.LocationIndexRow, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("parse index row id: %w", err)
	}
	locationID, err := uuid.Parse(r.LocationID)
	if err != nil {
		return nil, fmt.Errorf("parse location id: %w", err)
	}
	row := &domain.LocationIndexRow{
		ID:            id,
		LocationID:    locationID,
		Geospatial:    domain.SpatialField(r.Geospatial),
		IsClosed:      r.IsClosed,
		GreaterThan20: r.GreaterThan20,
		GreaterThan25: r.GreaterThan25,
		GreaterThan30: r.GreaterThan30,
		GreaterThan35: r.GreaterThan35,
		GreaterThan40: r.GreaterThan40,
		GreaterThan45: r.GreaterThan45,
	}
	if r.Price.Valid {
		p := domain.Price(r.Price.String)
		row.Price = &p
	}
	if r.Category.Valid {
		c := r.Category.String
		row.Category = &c
	}
	return row, nil
}

// Insert пишет строку индекса и её FTS-документ в одной транзакции
func (r *locationIndexRepository) Insert(ctx context.Context, row *domain.LocationIndexRow) error {
	var price, category sql.NullString
	if row.Price != nil {
		price = sql.NullString{String: string(*row.Price), Valid: true}
	}
	if row.Category != nil {
		category = sql.NullString{String: *row.Category, Valid: true}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO location_index (id, location_id, geospatial, is_closed, price,
			greater_than_20, greater_than_25, greater_than_30,
			greater_than_35, greater_than_40, greater_than_45, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID.String(), row.LocationID.String(), string(row.Geospatial), row.IsClosed, price,
		row.GreaterThan20, row.GreaterThan25, row.GreaterThan30,
		row.GreaterThan35, row.GreaterThan40, row.GreaterThan45, category,
	)
	if err != nil {
		r.logger.Error("Failed to insert index row", zap.String("location_id", row.LocationID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return errors.ErrDatabaseError
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO location_index_fts (rowid, geospatial) VALUES (?, ?)`, seq, string(row.Geospatial)); err != nil {
		r.logger.Error("Failed to insert fts document", zap.Int64("seq", seq), zap.Error(err))
		return errors.ErrDatabaseError
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit index row", zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

// Search - FTS5 MATCH "t1" OR "t2" ..., фильтры через AND
func (r *locationIndexRepository) Search(ctx context.Context, q *domain.SearchQuery) ([]*domain.LocationIndexRow, error) {
	if len(q.Tokens) == 0 {
		return nil, nil
	}

	conditions := []string{
		"seq IN (SELECT rowid FROM location_index_fts WHERE location_index_fts MATCH ?)",
	}
	args := []interface{}{MatchExpression(q.Tokens)}

	if q.IsClosed != nil {
		conditions = append(conditions, "is_closed = ?")
		args = append(args, *q.IsClosed)
	}
	if q.Price != nil {
		conditions = append(conditions, "price = ?")
		args = append(args, string(*q.Price))
	}
	if q.RatingBucket != nil {
		column, err := bucketColumn(*q.RatingBucket)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, column+" = 1")
	}

	query := `
		SELECT id, location_id, geospatial, is_closed, price,
			greater_than_20, greater_than_25, greater_than_30,
			greater_than_35, greater_than_40, greater_than_45, category
		FROM location_index
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY seq`
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	var rows []indexRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to search index", zap.Int("tokens", len(q.Tokens)), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	result := make([]*domain.LocationIndexRow, 0, len(rows))
	for i := range rows {
		row, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, nil
}

// MatchExpression строит FTS5-запрос: каждый токен в кавычках, через OR
func MatchExpression(tokens []domain.CellToken) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = `"` + strings.ReplaceAll(string(t), `"`, `""`) + `"`
	}
	return strings.Join(parts, " OR ")
}

func bucketColumn(b domain.RatingBucket) (string, error) {
	for _, known := range domain.RatingBuckets() {
		if b == known {
			return string(known), nil
		}
	}
	return "", errors.ErrInvalidRating.WithDetails(map[string]interface{}{"bucket": string(b)})
}
