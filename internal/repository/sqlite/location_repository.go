package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
	"github.com/location-search/internal/pkg/errors"
	"go.uber.org/zap"
)

type locationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewLocationRepository(db *DB) repository.LocationRepository {
	return &locationRepository{db: db.DB, logger: db.logger}
}

type locationRow struct {
	Seq            int64          `db:"seq"`
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	Alias          string         `db:"alias"`
	ImageURL       string         `db:"image_url"`
	Neighborhood   string         `db:"neighborhood"`
	CategoryAlias  sql.NullString `db:"category_alias"`
	CategoryTitle  sql.NullString `db:"category_title"`
	Price          sql.NullString `db:"price"`
	Rating         float64        `db:"rating"`
	ReviewCount    int            `db:"review_count"`
	URL            string         `db:"url"`
	Latitude       float64        `db:"latitude"`
	Longitude      float64        `db:"longitude"`
	DisplayPhone   string         `db:"display_phone"`
	DisplayAddress string         `db:"display_address"`
	IsClosed       bool           `db:"is_closed"`
	CreatedAt      string         `db:"created_at"`
}

func (r *locationRow) toDomain() (*domain.Location, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("parse location id %q: %w", r.ID, err)
	}
	loc := &domain.Location{
		ID:           id,
		Name:         r.Name,
		Alias:        r.Alias,
		ImageURL:     r.ImageURL,
		Neighborhood: r.Neighborhood,
		Rating:       r.Rating,
		ReviewCount:  r.ReviewCount,
		URL:          r.URL,
		Coordinates:  domain.GeoPoint{Latitude: r.Latitude, Longitude: r.Longitude},
		DisplayPhone: r.DisplayPhone,
		IsClosed:     r.IsClosed,
	}
	if err := json.Unmarshal([]byte(r.DisplayAddress), &loc.DisplayAddress); err != nil {
		return nil, fmt.Errorf("parse display address: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
		loc.CreatedAt = t
	}
	if r.CategoryAlias.Valid {
		loc.Category = &domain.Category{Alias: r.CategoryAlias.String, Title: r.CategoryTitle.String}
	}
	if r.Price.Valid {
		p := domain.Price(r.Price.String)
		loc.Price = &p
	}
	return loc, nil
}

const locationColumns = `seq, id, name, alias, image_url, neighborhood, category_alias, category_title,
	price, rating, review_count, url, latitude, longitude, display_phone, display_address,
	is_closed, created_at`

func (r *locationRepository) Create(ctx context.Context, loc *domain.Location) error {
	var categoryAlias, categoryTitle, price sql.NullString
	if loc.Category != nil {
		categoryAlias = sql.NullString{String: loc.Category.Alias, Valid: true}
		categoryTitle = sql.NullString{String: loc.Category.Title, Valid: true}
	}
	if loc.Price != nil {
		price = sql.NullString{String: string(*loc.Price), Valid: true}
	}
	address := loc.DisplayAddress
	if address == nil {
		address = []string{}
	}
	addressJSON, err := json.Marshal(address)
	if err != nil {
		return fmt.Errorf("marshal display address: %w", err)
	}
	createdAt := loc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO locations (id, name, alias, image_url, neighborhood, category_alias, category_title,
			price, rating, review_count, url, latitude, longitude, display_phone, display_address,
			is_closed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		loc.ID.String(), loc.Name, loc.Alias, loc.ImageURL, loc.Neighborhood, categoryAlias, categoryTitle,
		price, loc.Rating, loc.ReviewCount, loc.URL, loc.Coordinates.Latitude, loc.Coordinates.Longitude,
		loc.DisplayPhone, string(addressJSON), loc.IsClosed, createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		r.logger.Error("Failed to create location", zap.String("id", loc.ID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *locationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	var row locationRow
	err := r.db.GetContext(ctx, &row, `SELECT `+locationColumns+` FROM locations WHERE id = ?`, id.String())
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get location by ID", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return row.toDomain()
}

func (r *locationRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Location, error) {
	result := make(map[uuid.UUID]*domain.Location, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	args := make([]interface{}, len(ids))
	placeholders := make([]string, len(ids))
	for i, id := range ids {
		args[i] = id.String()
		placeholders[i] = "?"
	}

	var rows []locationRow
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to get locations by IDs", zap.Int("count", len(ids)), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	for i := range rows {
		loc, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		result[loc.ID] = loc
	}
	return result, nil
}

func (r *locationRepository) Paginate(ctx context.Context, cursor string, pageSize int) (*domain.LocationPage, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	var after int64
	if cursor != "" {
		v, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor %q: %w", cursor, err)
		}
		after = v
	}

	var rows []locationRow
	query := `SELECT ` + locationColumns + ` FROM locations WHERE seq > ? ORDER BY seq LIMIT ?`
	if err := r.db.SelectContext(ctx, &rows, query, after, pageSize+1); err != nil {
		r.logger.Error("Failed to paginate locations", zap.String("cursor", cursor), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	page := &domain.LocationPage{IsDone: len(rows) <= pageSize, ContinueCursor: cursor}
	if len(rows) > pageSize {
		rows = rows[:pageSize]
	}
	page.Items = make([]*domain.Location, 0, len(rows))
	for i := range rows {
		loc, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, loc)
	}
	if len(rows) > 0 {
		page.ContinueCursor = strconv.FormatInt(rows[len(rows)-1].Seq, 10)
	}
	return page, nil
}

func (r *locationRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM locations`); err != nil {
		r.logger.Error("Failed to count locations", zap.Error(err))
		return 0, errors.ErrDatabaseError
	}
	return count, nil
}
