package utils_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/location-search/internal/pkg/utils"
)

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lon  float64
		want bool
	}{
		{"empire state", 40.7484, -73.9857, true},
		{"poles and antimeridian", 90, 180, true},
		{"south pole", -90, -180, true},
		{"lat too large", 90.0001, 0, false},
		{"lon too small", 0, -180.0001, false},
		{"nan", math.NaN(), 0, false},
		{"inf", 0, math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.ValidateCoordinates(tt.lat, tt.lon))
		})
	}
}
