package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/location-search/internal/pkg/errors"
	"github.com/location-search/internal/usecase"
)

func TestLocationUseCase_GetByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uc := usecase.NewLocationUseCase(env.locations, zap.NewNop())

	row := rawRow("lookup", empireState, 4)
	id, err := env.ingest.IngestRow(ctx, &row)
	require.NoError(t, err)

	loc, err := uc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "lookup", loc.Name)

	count, err := uc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = uc.GetByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, errors.ErrLocationNotFound))
}
