package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
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
	return &locationIndexRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

type indexRow struct {
	ID            uuid.UUID      `db:"id"`
	LocationID    uuid.UUID      `db:"location_id"`
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

func (r *indexRow) toDomain() *domain.LocationIndexRow {
	row := &domain.LocationIndexRow{
		ID:            r.ID,
		LocationID:    r.LocationID,
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
	return row
}

func (r *locationIndexRepository) Insert(ctx context.Context, row *domain.LocationIndexRow) error {
	query := `
		INSERT INTO location_index (
			id, location_id, geospatial, tokens, is_closed, price,
			greater_than_20, greater_than_25, greater_than_30,
			greater_than_35, greater_than_40, greater_than_45, category
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	var price sql.NullString
	if row.Price != nil {
		price = sql.NullString{String: string(*row.Price), Valid: true}
	}
	var category sql.NullString
	if row.Category != nil {
		category = sql.NullString{String: *row.Category, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		row.ID, row.LocationID, string(row.Geospatial), pq.Array(tokenStrings(row.Geospatial.Tokens())),
		row.IsClosed, price,
		row.GreaterThan20, row.GreaterThan25, row.GreaterThan30,
		row.GreaterThan35, row.GreaterThan40, row.GreaterThan45, category,
	)
	if err != nil {
		r.logger.Error("Failed to insert index row",
			zap.String("location_id", row.LocationID.String()),
			zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

// Search - OR по токенам через пересечение массивов (&&), фильтры через AND
func (r *locationIndexRepository) Search(ctx context.Context, q *domain.SearchQuery) ([]*domain.LocationIndexRow, error) {
	if len(q.Tokens) == 0 {
		return nil, nil
	}

	conditions := []string{"tokens && $1::text[]"}
	args := []interface{}{pq.Array(tokenStrings(q.Tokens))}
	argIdx := 2

	if q.IsClosed != nil {
		conditions = append(conditions, fmt.Sprintf("is_closed = $%d", argIdx))
		args = append(args, *q.IsClosed)
		argIdx++
	}
	if q.Price != nil {
		conditions = append(conditions, fmt.Sprintf("price = $%d", argIdx))
		args = append(args, string(*q.Price))
		argIdx++
	}
	if q.RatingBucket != nil {
		column, err := bucketColumn(*q.RatingBucket)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, column+" = TRUE")
	}

	query := `
		SELECT id, location_id, geospatial, is_closed, price,
			greater_than_20, greater_than_25, greater_than_30,
			greater_than_35, greater_than_40, greater_than_45, category
		FROM location_index
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY seq`
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, q.Limit)
	}

	var rows []indexRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to search index", zap.Int("tokens", len(q.Tokens)), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	result := make([]*domain.LocationIndexRow, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toDomain())
	}
	return result, nil
}

// bucketColumn - имя колонки порога; только из известного списка
func bucketColumn(b domain.RatingBucket) (string, error) {
	for _, known := range domain.RatingBuckets() {
		if b == known {
			return string(known), nil
		}
	}
	return "", errors.ErrInvalidRating.WithDetails(map[string]interface{}{"bucket": string(b)})
}

func tokenStrings(tokens []domain.CellToken) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = string(t)
	}
	return out
}
