package geoindex

import (
	"github.com/location-search/internal/domain"
)

// MinCellToWidthRatio - минимальное отношение ребра гексагона к ширине полигона
const MinCellToWidthRatio = 0.25

// PolygonWidth - расстояние между первыми двумя вершинами в метрах;
// используется как оценка масштаба области (ожидается прямоугольник вьюпорта).
func PolygonWidth(grid Grid, polygon domain.QueryPolygon) float64 {
	if len(polygon) < 2 {
		return 0
	}
	return grid.GreatCircleDistance(polygon[0], polygon[1])
}

// SelectResolution - самое мелкое разрешение из [0,14], у которого среднее
// ребро гексагона больше четверти ширины полигона. Если ни одно не подходит - 0.
func SelectResolution(grid Grid, polygon domain.QueryPolygon) int {
	return ResolutionForWidth(grid, PolygonWidth(grid, polygon))
}

// ResolutionForWidth - выбор разрешения по ширине области в метрах
func ResolutionForWidth(grid Grid, width float64) int {
	for resolution := MaxIndexResolution; resolution >= 0; resolution-- {
		edge, err := grid.AverageHexagonEdgeLength(resolution)
		if err != nil {
			continue
		}
		// width == 0 даёт +Inf и выбирает самое мелкое разрешение
		if edge/width > MinCellToWidthRatio {
			return resolution
		}
	}
	return 0
}
