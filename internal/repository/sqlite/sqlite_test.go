package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/location-search/internal/config"
	"github.com/location-search/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(&config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testLocation(name string, rating float64) *domain.Location {
	return &domain.Location{
		ID:             uuid.New(),
		Name:           name,
		Rating:         rating,
		Coordinates:    domain.GeoPoint{Latitude: 40.7484, Longitude: -73.9857},
		DisplayAddress: []string{"350 5th Ave"},
	}
}

func TestMatchExpression(t *testing.T) {
	expr := MatchExpression([]domain.CellToken{"ab-c", "d_e"})
	assert.Equal(t, `"ab-c" OR "d_e"`, expr)
}

func TestLocationRepository_CreateGetPaginate(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewLocationRepository(db)

	price := domain.PriceHigh
	first := testLocation("first", 4.2)
	first.Price = &price
	first.Category = &domain.Category{Alias: "pizza", Title: "Pizza"}
	require.NoError(t, repo.Create(ctx, first))
	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Create(ctx, testLocation("other", 3.0)))
	}

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.Name)
	assert.Equal(t, []string{"350 5th Ave"}, got.DisplayAddress)
	require.NotNil(t, got.Price)
	assert.Equal(t, domain.PriceHigh, *got.Price)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Pizza", got.Category.Title)

	missing, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	page, err := repo.Paginate(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.False(t, page.IsDone)
	assert.Equal(t, first.ID, page.Items[0].ID)

	page, err = repo.Paginate(ctx, page.ContinueCursor, 2)
	require.NoError(t, err)
	assert.False(t, page.IsDone)

	page, err = repo.Paginate(ctx, page.ContinueCursor, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.True(t, page.IsDone)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestLocationIndexRepository_FTSMatch(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	locations := NewLocationRepository(db)
	index := NewLocationIndexRepository(db)

	a := testLocation("a", 4.5)
	b := testLocation("b", 4.6)
	b.IsClosed = true
	require.NoError(t, locations.Create(ctx, a))
	require.NoError(t, locations.Create(ctx, b))
	require.NoError(t, index.Insert(ctx, domain.NewLocationIndexRow(a, "tok-one shared_tok")))
	require.NoError(t, index.Insert(ctx, domain.NewLocationIndexRow(b, "tok_two shared_tok")))

	// A token with '-' is one term, not two
	rows, err := index.Search(ctx, &domain.SearchQuery{Tokens: []domain.CellToken{"tok-one"}, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, a.ID, rows[0].LocationID)

	rows, err = index.Search(ctx, &domain.SearchQuery{Tokens: []domain.CellToken{"tok"}, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = index.Search(ctx, &domain.SearchQuery{Tokens: []domain.CellToken{"tok-one", "tok_two"}, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	isClosed := true
	rows, err = index.Search(ctx, &domain.SearchQuery{Tokens: []domain.CellToken{"shared_tok"}, IsClosed: &isClosed, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, b.ID, rows[0].LocationID)

	bucket := domain.GreaterThan45
	rows, err = index.Search(ctx, &domain.SearchQuery{Tokens: []domain.CellToken{"shared_tok"}, RatingBucket: &bucket, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, b.ID, rows[0].LocationID)

	rows, err = index.Search(ctx, &domain.SearchQuery{Tokens: []domain.CellToken{"shared_tok"}, Limit: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, a.ID, rows[0].LocationID)

	var count int
	require.NoError(t, db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM location_index WHERE location_id = ?`, a.ID.String()))
	assert.Equal(t, 1, count)
}

func TestCategoryRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(openTestDB(t))

	require.NoError(t, repo.Upsert(ctx, []domain.CategoryCount{
		{Alias: "pizza", Title: "Pizza", Count: 3},
		{Alias: "bars", Title: "Bars", Count: 10},
	}))
	require.NoError(t, repo.Upsert(ctx, []domain.CategoryCount{{Alias: "pizza", Title: "Pizza", Count: 11}}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "pizza", list[0].Alias)

	found, err := repo.GetByAliases(ctx, []string{"bars", "nope"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, 10, found["bars"].Count)
}
