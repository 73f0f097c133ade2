package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/location-search/internal/pkg/errors"
)

func TestWithDetails_DoesNotMutateSentinel(t *testing.T) {
	withDetails := errors.ErrInvalidRating.WithDetails(map[string]interface{}{"rating": 7.5})

	assert.Nil(t, errors.ErrInvalidRating.Details)
	assert.Equal(t, 7.5, withDetails.Details["rating"])
	assert.True(t, errors.Is(withDetails, errors.ErrInvalidRating))
}

func TestAs_UnwrapsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("ingest row 3: %w", errors.ErrInvalidPrice)

	appErr, ok := errors.As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "INVALID_PRICE", appErr.Code)
	assert.True(t, errors.Is(wrapped, errors.ErrInvalidPrice))
	assert.False(t, errors.Is(wrapped, errors.ErrInvalidRating))
}

func TestAs_PlainError(t *testing.T) {
	_, ok := errors.As(fmt.Errorf("boom"))
	assert.False(t, ok)
}
