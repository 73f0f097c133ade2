package geoindex_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/pkg/errors"
	"github.com/location-search/internal/pkg/geoindex"
)

var empireState = domain.GeoPoint{Latitude: 40.7484, Longitude: -73.9857}

// box возвращает квадрат со стороной sizeMeters вокруг центра: [SW, NW, NE, SE]
func box(center domain.GeoPoint, sizeMeters float64) domain.QueryPolygon {
	half := sizeMeters / 2
	dLat := half / 111320.0
	dLng := half / (111320.0 * math.Cos(center.Latitude*math.Pi/180))
	return domain.QueryPolygon{
		{Latitude: center.Latitude - dLat, Longitude: center.Longitude - dLng},
		{Latitude: center.Latitude + dLat, Longitude: center.Longitude - dLng},
		{Latitude: center.Latitude + dLat, Longitude: center.Longitude + dLng},
		{Latitude: center.Latitude - dLat, Longitude: center.Longitude + dLng},
	}
}

func TestEncodeCell_FixedLengthAndDeterministic(t *testing.T) {
	grid := geoindex.NewH3Grid()
	cell, err := grid.PointToCell(empireState, 9)
	require.NoError(t, err)

	a := geoindex.EncodeCell(cell)
	b := geoindex.EncodeCell(cell)

	assert.Equal(t, a, b)
	assert.Len(t, string(a), geoindex.MaxTokenLength)
	assert.NotContains(t, string(a), " ")
	assert.NotContains(t, string(a), "+")
	assert.NotContains(t, string(a), "/")
}

func TestEncodeCell_NoCollisions(t *testing.T) {
	grid := geoindex.NewH3Grid()
	origin, err := grid.PointToCell(empireState, 9)
	require.NoError(t, err)

	cells, err := grid.NeighborRing(origin, 20)
	require.NoError(t, err)
	require.Greater(t, len(cells), 1000)

	seen := make(map[domain.CellToken]domain.CellID, len(cells))
	for _, c := range cells {
		tok := geoindex.EncodeCell(c)
		if prev, ok := seen[tok]; ok {
			t.Fatalf("token collision between %s and %s", prev, c)
		}
		seen[tok] = c
	}
}

func TestFieldBuilder_Build(t *testing.T) {
	builder := geoindex.NewFieldBuilder(geoindex.NewH3Grid(), false)

	field, err := builder.Build(empireState)
	require.NoError(t, err)

	tokens := strings.Split(string(field), " ")
	assert.Len(t, tokens, 15)
	assert.Equal(t, 15, builder.TokenCount())
	for _, tok := range tokens {
		assert.LessOrEqual(t, len(tok), geoindex.MaxTokenLength)
		assert.NotEmpty(t, tok)
	}

	again, err := builder.Build(empireState)
	require.NoError(t, err)
	assert.Equal(t, field, again)
}

func TestFieldBuilder_IncludesAncestorTokens(t *testing.T) {
	grid := geoindex.NewH3Grid()
	builder := geoindex.NewFieldBuilder(grid, false)

	field, err := builder.Build(empireState)
	require.NoError(t, err)

	for _, res := range []int{0, 7, 9, 14} {
		cell, err := grid.PointToCell(empireState, res)
		require.NoError(t, err)
		assert.Contains(t, field.Tokens(), geoindex.EncodeCell(cell), "resolution %d", res)
	}

	leaf, err := grid.PointToCell(empireState, geoindex.LeafResolution)
	require.NoError(t, err)
	assert.NotContains(t, field.Tokens(), geoindex.EncodeCell(leaf))
}

func TestFieldBuilder_WithLeafToken(t *testing.T) {
	grid := geoindex.NewH3Grid()
	builder := geoindex.NewFieldBuilder(grid, true)

	field, err := builder.Build(empireState)
	require.NoError(t, err)

	tokens := field.Tokens()
	assert.Len(t, tokens, 16)

	leaf, err := grid.PointToCell(empireState, geoindex.LeafResolution)
	require.NoError(t, err)
	assert.Equal(t, geoindex.EncodeCell(leaf), tokens[0])
}

func TestFieldBuilder_InvalidCoordinates(t *testing.T) {
	builder := geoindex.NewFieldBuilder(geoindex.NewH3Grid(), false)

	for _, p := range []domain.GeoPoint{
		{Latitude: 91, Longitude: 0},
		{Latitude: 0, Longitude: -181},
		{Latitude: math.NaN(), Longitude: 0},
	} {
		_, err := builder.Build(p)
		assert.True(t, errors.Is(err, errors.ErrInvalidCoordinates), "point %+v", p)
	}
}

func TestSelectResolution_ViewportBox(t *testing.T) {
	grid := geoindex.NewH3Grid()

	// ширина 500 м: ребро res 9 (~200 м) даёт 0.4, res 10 (~76 м) уже 0.15
	assert.Equal(t, 9, geoindex.SelectResolution(grid, box(empireState, 500)))
}

func TestSelectResolution_Monotonic(t *testing.T) {
	grid := geoindex.NewH3Grid()

	prev := geoindex.MaxIndexResolution
	for width := 1.0; width < 2e7; width *= 1.5 {
		res := geoindex.ResolutionForWidth(grid, width)
		assert.LessOrEqual(t, res, prev, "width %.0f", width)
		assert.GreaterOrEqual(t, res, 0)
		prev = res
	}
	assert.Equal(t, 0, prev)
}

func TestSelectResolution_DegeneratePolygon(t *testing.T) {
	grid := geoindex.NewH3Grid()

	polygon := domain.QueryPolygon{empireState, empireState, {Latitude: 40.75, Longitude: -73.98}}
	assert.Equal(t, geoindex.MaxIndexResolution, geoindex.SelectResolution(grid, polygon))
}

func TestEnumerateCells_ContainsCovering(t *testing.T) {
	grid := geoindex.NewH3Grid()
	polygon := box(empireState, 2000)
	res := 9

	covering, err := grid.PolygonToCells(polygon, res)
	require.NoError(t, err)
	require.NotEmpty(t, covering)

	set, err := geoindex.EnumerateCells(grid, polygon, res, geoindex.EnumerateOptions{MaxCells: 10000})
	require.NoError(t, err)
	assert.False(t, set.Truncated)

	seen := make(map[domain.CellID]bool, len(set.Cells))
	for _, c := range set.Cells {
		assert.False(t, seen[c], "duplicate cell %s", c)
		seen[c] = true
	}
	for _, c := range covering {
		assert.True(t, seen[c], "covering cell %s missing", c)
	}
	assert.Greater(t, len(set.Cells), len(covering))
}

func TestEnumerateCells_TruncatePolicy(t *testing.T) {
	grid := geoindex.NewH3Grid()
	polygon := box(empireState, 2000)

	set, err := geoindex.EnumerateCells(grid, polygon, 9, geoindex.EnumerateOptions{Policy: geoindex.OverflowTruncate})
	require.NoError(t, err)
	assert.True(t, set.Truncated)
	assert.Len(t, set.Cells, geoindex.DefaultMaxCells)
	assert.Greater(t, set.Total, geoindex.DefaultMaxCells)

	full, err := geoindex.EnumerateCells(grid, polygon, 9, geoindex.EnumerateOptions{MaxCells: 10000})
	require.NoError(t, err)
	assert.Equal(t, full.Cells[:geoindex.DefaultMaxCells], set.Cells)
}

func TestEnumerateCells_FailPolicy(t *testing.T) {
	grid := geoindex.NewH3Grid()

	_, err := geoindex.EnumerateCells(grid, box(empireState, 2000), 9, geoindex.EnumerateOptions{Policy: geoindex.OverflowFail})
	assert.True(t, errors.Is(err, errors.ErrTooManyCells))
}

func TestEnumerateCells_PointCellIsCandidate(t *testing.T) {
	grid := geoindex.NewH3Grid()
	polygon := box(empireState, 500)
	res := geoindex.SelectResolution(grid, polygon)

	set, err := geoindex.EnumerateCells(grid, polygon, res, geoindex.EnumerateOptions{})
	require.NoError(t, err)

	cell, err := grid.PointToCell(empireState, res)
	require.NoError(t, err)
	assert.Contains(t, set.Cells, cell)
}

func TestParseOverflowPolicy(t *testing.T) {
	assert.Equal(t, geoindex.OverflowFail, geoindex.ParseOverflowPolicy("fail"))
	assert.Equal(t, geoindex.OverflowTruncate, geoindex.ParseOverflowPolicy("truncate"))
	assert.Equal(t, geoindex.OverflowTruncate, geoindex.ParseOverflowPolicy(""))
}

func TestPolygonContains(t *testing.T) {
	polygon := box(empireState, 500)

	assert.True(t, geoindex.PolygonContains(polygon, empireState))
	assert.False(t, geoindex.PolygonContains(polygon, domain.GeoPoint{Latitude: 40.7584, Longitude: -73.9857}))
	assert.False(t, geoindex.PolygonContains(polygon[:2], empireState))

	c := geoindex.NewContainer(polygon)
	assert.True(t, c.Contains(empireState))
	assert.False(t, c.Contains(domain.GeoPoint{Latitude: 40.7484, Longitude: -73.9757}))
}

func TestPolygonContains_Triangle(t *testing.T) {
	triangle := domain.QueryPolygon{
		{Latitude: 0, Longitude: 0},
		{Latitude: 10, Longitude: 0},
		{Latitude: 0, Longitude: 10},
	}

	assert.True(t, geoindex.PolygonContains(triangle, domain.GeoPoint{Latitude: 2, Longitude: 2}))
	// по ту сторону гипотенузы, но внутри ограничивающего прямоугольника
	assert.False(t, geoindex.PolygonContains(triangle, domain.GeoPoint{Latitude: 8, Longitude: 8}))
}

func TestPolygonContains_AgreesWithContainer(t *testing.T) {
	polygons := []domain.QueryPolygon{
		box(empireState, 500),
		box(empireState, 500)[:2],
		{{Latitude: 0, Longitude: 0}, {Latitude: 10, Longitude: 0}, {Latitude: 0, Longitude: 10}},
	}
	points := []domain.GeoPoint{
		empireState,
		{Latitude: 40.7584, Longitude: -73.9857},
		{Latitude: 2, Longitude: 2},
		{Latitude: 8, Longitude: 8},
	}
	for _, polygon := range polygons {
		c := geoindex.NewContainer(polygon)
		for _, p := range points {
			assert.Equal(t, c.Contains(p), geoindex.PolygonContains(polygon, p), "polygon %v point %v", polygon, p)
		}
	}
}

func TestCellsFeatureCollection(t *testing.T) {
	grid := geoindex.NewH3Grid()
	cell, err := grid.PointToCell(empireState, 9)
	require.NoError(t, err)

	fc := geoindex.CellsFeatureCollection(grid, []domain.CellID{cell, "not-a-cell"})
	require.Len(t, fc.Features, 1)
	assert.Equal(t, string(cell), fc.Features[0].Properties["cell"])
}

func TestEnumerateCells_PolygonSmallerThanCell(t *testing.T) {
	grid := geoindex.NewH3Grid()
	polygon := box(empireState, 20)

	// Resolution 5 cells are kilometres wide; no center falls inside a 20 m box
	covering, err := grid.PolygonToCells(polygon, 5)
	require.NoError(t, err)
	require.Empty(t, covering)

	set, err := geoindex.EnumerateCells(grid, polygon, 5, geoindex.EnumerateOptions{})
	require.NoError(t, err)

	cell, err := grid.PointToCell(empireState, 5)
	require.NoError(t, err)
	assert.Contains(t, set.Cells, cell)
	assert.Len(t, set.Cells, 7)
}
