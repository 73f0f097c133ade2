// Package geoindex строит иерархический токенный индекс точек и кандидатные
// наборы ячеек для поиска по полигону поверх сетки H3.
package geoindex

import (
	"fmt"

	"github.com/uber/h3-go/v4"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/pkg/errors"
	"github.com/location-search/internal/pkg/utils"
)

const (
	// LeafResolution - самое мелкое разрешение сетки
	LeafResolution = 15
	// MaxIndexResolution - самое мелкое разрешение, используемое при поиске
	MaxIndexResolution = 14
)

// Grid - адаптер внешней библиотеки иерархической сетки
type Grid interface {
	PointToCell(point domain.GeoPoint, resolution int) (domain.CellID, error)
	CellToParent(cell domain.CellID, resolution int) (domain.CellID, error)
	PolygonToCells(polygon domain.QueryPolygon, resolution int) ([]domain.CellID, error)
	NeighborRing(cell domain.CellID, k int) ([]domain.CellID, error)
	AverageHexagonEdgeLength(resolution int) (float64, error)
	GreatCircleDistance(a, b domain.GeoPoint) float64
	CellBoundary(cell domain.CellID) ([]domain.GeoPoint, error)
}

// H3Grid - реализация Grid на github.com/uber/h3-go
type H3Grid struct{}

// NewH3Grid - создание адаптера H3
func NewH3Grid() *H3Grid {
	return &H3Grid{}
}

func toLatLng(p domain.GeoPoint) h3.LatLng {
	return h3.NewLatLng(p.Latitude, p.Longitude)
}

func parseCell(id domain.CellID) (h3.Cell, error) {
	c := h3.Cell(h3.IndexFromString(string(id)))
	if !c.IsValid() {
		return 0, fmt.Errorf("invalid cell %q", id)
	}
	return c, nil
}

func (g *H3Grid) PointToCell(point domain.GeoPoint, resolution int) (domain.CellID, error) {
	if !utils.ValidateCoordinates(point.Latitude, point.Longitude) {
		return "", errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
			"latitude":  point.Latitude,
			"longitude": point.Longitude,
		})
	}
	cell, err := h3.LatLngToCell(toLatLng(point), resolution)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidCoordinates, err)
	}
	return domain.CellID(cell.String()), nil
}

func (g *H3Grid) CellToParent(cell domain.CellID, resolution int) (domain.CellID, error) {
	c, err := parseCell(cell)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidResolution, err)
	}
	parent, err := c.Parent(resolution)
	if err != nil {
		return "", fmt.Errorf("%w: cell %s resolution %d: %v", errors.ErrInvalidResolution, cell, resolution, err)
	}
	return domain.CellID(parent.String()), nil
}

func (g *H3Grid) PolygonToCells(polygon domain.QueryPolygon, resolution int) ([]domain.CellID, error) {
	loop := make(h3.GeoLoop, len(polygon))
	for i, p := range polygon {
		loop[i] = toLatLng(p)
	}
	cells, err := h3.PolygonToCells(h3.GeoPolygon{GeoLoop: loop}, resolution)
	if err != nil {
		return nil, fmt.Errorf("polygon to cells at resolution %d: %w", resolution, err)
	}
	return toCellIDs(cells), nil
}

func (g *H3Grid) NeighborRing(cell domain.CellID, k int) ([]domain.CellID, error) {
	c, err := parseCell(cell)
	if err != nil {
		return nil, err
	}
	disk, err := h3.GridDisk(c, k)
	if err != nil {
		return nil, fmt.Errorf("grid disk %s: %w", cell, err)
	}
	return toCellIDs(disk), nil
}

func (g *H3Grid) AverageHexagonEdgeLength(resolution int) (float64, error) {
	return h3.HexagonEdgeLengthAvgM(resolution)
}

func (g *H3Grid) GreatCircleDistance(a, b domain.GeoPoint) float64 {
	return h3.GreatCircleDistanceM(toLatLng(a), toLatLng(b))
}

func (g *H3Grid) CellBoundary(cell domain.CellID) ([]domain.GeoPoint, error) {
	c, err := parseCell(cell)
	if err != nil {
		return nil, err
	}
	boundary, err := c.Boundary()
	if err != nil {
		return nil, fmt.Errorf("cell boundary %s: %w", cell, err)
	}
	points := make([]domain.GeoPoint, len(boundary))
	for i, ll := range boundary {
		points[i] = domain.GeoPoint{Latitude: ll.Lat, Longitude: ll.Lng}
	}
	return points, nil
}

func toCellIDs(cells []h3.Cell) []domain.CellID {
	ids := make([]domain.CellID, 0, len(cells))
	for _, c := range cells {
		if c == 0 {
			continue
		}
		ids = append(ids, domain.CellID(c.String()))
	}
	return ids
}
