package geoindex

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/location-search/internal/domain"
)

// CellsFeatureCollection - полигоны ячеек для отрисовки на карте.
// Ячейки, для которых не удалось получить границу, пропускаются.
func CellsFeatureCollection(grid Grid, cells []domain.CellID) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, cell := range cells {
		boundary, err := grid.CellBoundary(cell)
		if err != nil || len(boundary) == 0 {
			continue
		}
		ring := make(orb.Ring, 0, len(boundary)+1)
		for _, p := range boundary {
			ring = append(ring, orb.Point{p.Longitude, p.Latitude})
		}
		ring = append(ring, ring[0])

		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["cell"] = string(cell)
		fc.Append(f)
	}
	return fc
}
