package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
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
	return &locationRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// locationRow - плоское представление строки таблицы locations
type locationRow struct {
	ID             uuid.UUID      `db:"id"`
	Seq            int64          `db:"seq"`
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
	DisplayAddress pq.StringArray `db:"display_address"`
	IsClosed       bool           `db:"is_closed"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (r *locationRow) toDomain() *domain.Location {
	loc := &domain.Location{
		ID:             r.ID,
		Name:           r.Name,
		Alias:          r.Alias,
		ImageURL:       r.ImageURL,
		Neighborhood:   r.Neighborhood,
		Rating:         r.Rating,
		ReviewCount:    r.ReviewCount,
		URL:            r.URL,
		Coordinates:    domain.GeoPoint{Latitude: r.Latitude, Longitude: r.Longitude},
		DisplayPhone:   r.DisplayPhone,
		DisplayAddress: []string(r.DisplayAddress),
		IsClosed:       r.IsClosed,
		CreatedAt:      r.CreatedAt,
	}
	if r.CategoryAlias.Valid {
		loc.Category = &domain.Category{Alias: r.CategoryAlias.String, Title: r.CategoryTitle.String}
	}
	if r.Price.Valid {
		p := domain.Price(r.Price.String)
		loc.Price = &p
	}
	return loc
}

const locationColumns = `
	id, seq, name, alias, image_url, neighborhood, category_alias, category_title,
	price, rating, review_count, url, latitude, longitude, display_phone,
	display_address, is_closed, created_at`

func (r *locationRepository) Create(ctx context.Context, loc *domain.Location) error {
	query := `
		INSERT INTO locations (
			id, name, alias, image_url, neighborhood, category_alias, category_title,
			price, rating, review_count, url, latitude, longitude, display_phone,
			display_address, is_closed, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	var categoryAlias, categoryTitle, price sql.NullString
	if loc.Category != nil {
		categoryAlias = sql.NullString{String: loc.Category.Alias, Valid: true}
		categoryTitle = sql.NullString{String: loc.Category.Title, Valid: true}
	}
	if loc.Price != nil {
		price = sql.NullString{String: string(*loc.Price), Valid: true}
	}
	createdAt := loc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	address := loc.DisplayAddress
	if address == nil {
		address = []string{}
	}

	_, err := r.db.ExecContext(ctx, query,
		loc.ID, loc.Name, loc.Alias, loc.ImageURL, loc.Neighborhood, categoryAlias, categoryTitle,
		price, loc.Rating, loc.ReviewCount, loc.URL, loc.Coordinates.Latitude, loc.Coordinates.Longitude,
		loc.DisplayPhone, pq.Array(address), loc.IsClosed, createdAt,
	)
	if err != nil {
		r.logger.Error("Failed to create location", zap.String("id", loc.ID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

func (r *locationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`

	var row locationRow
	err := r.db.GetContext(ctx, &row, query, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get location by ID", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return row.toDomain(), nil
}

func (r *locationRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Location, error) {
	result := make(map[uuid.UUID]*domain.Location, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = ANY($1::uuid[])`

	var rows []locationRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(keys)); err != nil {
		r.logger.Error("Failed to get locations by IDs", zap.Int("count", len(ids)), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	for i := range rows {
		result[rows[i].ID] = rows[i].toDomain()
	}
	return result, nil
}

// Paginate - keyset-пагинация по seq; курсор - последний seq страницы
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

	query := `SELECT ` + locationColumns + ` FROM locations WHERE seq > $1 ORDER BY seq LIMIT $2`

	var rows []locationRow
	// Берём на одну строку больше, чтобы понять, последняя ли это страница
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
		page.Items = append(page.Items, rows[i].toDomain())
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
