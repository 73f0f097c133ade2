package geoindex

import (
	"fmt"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/pkg/errors"
)

// DefaultMaxCells - потолок размера кандидатного набора ячеек
const DefaultMaxCells = 16

// OverflowPolicy - поведение при превышении потолка ячеек
type OverflowPolicy string

const (
	// OverflowTruncate - оставить первые MaxCells в порядке обхода
	OverflowTruncate OverflowPolicy = "truncate"
	// OverflowFail - вернуть ErrTooManyCells
	OverflowFail OverflowPolicy = "fail"
)

// ParseOverflowPolicy - разбор политики из конфигурации; неизвестное значение - truncate
func ParseOverflowPolicy(s string) OverflowPolicy {
	if OverflowPolicy(s) == OverflowFail {
		return OverflowFail
	}
	return OverflowTruncate
}

// EnumerateOptions - параметры перечисления ячеек
type EnumerateOptions struct {
	MaxCells int
	Policy   OverflowPolicy
}

// CellSet - кандидатные ячейки в порядке добавления
type CellSet struct {
	Cells     []domain.CellID
	Total     int
	Truncated bool
}

// EnumerateCells - покрытие полигона на разрешении плюс кольцо соседей
// каждой ячейки, без дубликатов, с ограничением размера.
func EnumerateCells(grid Grid, polygon domain.QueryPolygon, resolution int, opts EnumerateOptions) (*CellSet, error) {
	if opts.MaxCells <= 0 {
		opts.MaxCells = DefaultMaxCells
	}

	covering, err := grid.PolygonToCells(polygon, resolution)
	if err != nil {
		return nil, err
	}
	// Полигон меньше ячейки может не накрыть ни одного центра:
	// тогда берём ячейку среднего арифметического вершин
	if len(covering) == 0 && len(polygon) > 0 {
		cell, err := grid.PointToCell(vertexMean(polygon), resolution)
		if err != nil {
			return nil, err
		}
		covering = []domain.CellID{cell}
	}

	seen := make(map[domain.CellID]struct{}, len(covering)*7)
	ordered := make([]domain.CellID, 0, len(covering)*7)
	add := func(c domain.CellID) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		ordered = append(ordered, c)
	}

	for _, cell := range covering {
		add(cell)
		ring, err := grid.NeighborRing(cell, 1)
		if err != nil {
			return nil, fmt.Errorf("neighbors of %s: %w", cell, err)
		}
		for _, n := range ring {
			add(n)
		}
	}

	set := &CellSet{Cells: ordered, Total: len(ordered)}
	if len(ordered) > opts.MaxCells {
		if opts.Policy == OverflowFail {
			return nil, errors.ErrTooManyCells.WithDetails(map[string]interface{}{
				"cells":      len(ordered),
				"max_cells":  opts.MaxCells,
				"resolution": resolution,
			})
		}
		set.Cells = ordered[:opts.MaxCells]
		set.Truncated = true
	}

	return set, nil
}

func vertexMean(polygon domain.QueryPolygon) domain.GeoPoint {
	var lat, lng float64
	for _, p := range polygon {
		lat += p.Latitude
		lng += p.Longitude
	}
	n := float64(len(polygon))
	return domain.GeoPoint{Latitude: lat / n, Longitude: lng / n}
}
