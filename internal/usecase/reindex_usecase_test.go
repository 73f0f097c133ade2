package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/pkg/errors"
)

func seedLocations(t *testing.T, env *testEnv, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, n)
	for i := 0; i < n; i++ {
		loc := &domain.Location{
			ID:          uuid.New(),
			Name:        fmt.Sprintf("location-%03d", i),
			Rating:      float64(i%6) * 0.9,
			Coordinates: offsetEast(empireState, float64(i)*10),
			CreatedAt:   time.Now().UTC(),
		}
		require.NoError(t, env.locations.Create(context.Background(), loc))
		ids[i] = loc.ID
	}
	return ids
}

// runQueue processes queued steps until the queue is empty
func runQueue(t *testing.T, env *testEnv) error {
	t.Helper()
	for {
		msgs := env.queue.Drain()
		if len(msgs) == 0 {
			return nil
		}
		for _, msg := range msgs {
			var step domain.ReindexStep
			require.NoError(t, json.Unmarshal([]byte(msg.Data), &step))
			if _, err := env.reindex.IndexPage(context.Background(), &step); err != nil {
				return err
			}
		}
	}
}

func TestReindexAll_Backfill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ids := seedLocations(t, env, 250)

	progress, err := env.reindex.ReindexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ReindexRunning, progress.Status)

	require.NoError(t, runQueue(t, env))

	published := env.queue.Published()
	require.Len(t, published, 3)
	assert.Equal(t, "", published[0].Cursor)
	assert.Equal(t, 0, published[0].Completed)
	assert.Equal(t, 100, published[1].Completed)
	assert.Equal(t, 200, published[2].Completed)

	for _, id := range ids {
		count, err := env.index.CountByLocation(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	}

	final, err := env.reindex.Progress(ctx, progress.JobID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReindexDone, final.Status)
	assert.Equal(t, 250, final.Completed)
	assert.Equal(t, 3, final.Pages)

	lock, err := env.cache.Get(ctx, domain.ReindexLockKey)
	require.NoError(t, err)
	assert.Nil(t, lock)

	// Переиндексированные строки находятся поиском
	result, err := env.search.SearchPolygon(ctx, box(empireState, 100), domain.SearchFilters{}, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Rows)
}

func TestReindexAll_EmptyStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	progress, err := env.reindex.ReindexAll(ctx)
	require.NoError(t, err)
	require.NoError(t, runQueue(t, env))

	assert.Len(t, env.queue.Published(), 1)
	final, err := env.reindex.Progress(ctx, progress.JobID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReindexDone, final.Status)
	assert.Zero(t, final.Completed)
}

func TestReindexAll_SingleJob(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedLocations(t, env, 10)

	_, err := env.reindex.ReindexAll(ctx)
	require.NoError(t, err)

	_, err = env.reindex.ReindexAll(ctx)
	assert.True(t, errors.Is(err, errors.ErrReindexInProgress))

	require.NoError(t, runQueue(t, env))

	_, err = env.reindex.ReindexAll(ctx)
	assert.NoError(t, err)
}

func TestIndexPage_FailureHaltsJob(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedLocations(t, env, 5)

	broken := &domain.Location{
		ID:          uuid.New(),
		Name:        "broken",
		Coordinates: domain.GeoPoint{Latitude: 100, Longitude: 0},
	}
	require.NoError(t, env.locations.Create(ctx, broken))

	progress, err := env.reindex.ReindexAll(ctx)
	require.NoError(t, err)

	err = runQueue(t, env)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidCoordinates))

	final, err := env.reindex.Progress(ctx, progress.JobID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReindexFailed, final.Status)
	assert.NotEmpty(t, final.Error)

	lock, err := env.cache.Get(ctx, domain.ReindexLockKey)
	require.NoError(t, err)
	assert.Nil(t, lock)

	// Шаги остановленной задачи пропускаются
	next, err := env.reindex.IndexPage(ctx, &domain.ReindexStep{JobID: progress.JobID})
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestReindexProgress_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.reindex.Progress(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, errors.ErrReindexJobNotFound))
}
