package domain

import (
	"strings"
)

// GeoPoint - точка WGS84 в градусах
type GeoPoint struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// QueryPolygon - вершины полигона запроса; неявно замкнут (последняя вершина
// соединяется с первой). На выпуклость и самопересечения не проверяется.
type QueryPolygon []GeoPoint

// CellID - каноничная hex-строка ячейки иерархической сетки
type CellID string

// CellToken - непрозрачный токен ячейки для полнотекстового индекса (<= 32 символов)
type CellToken string

// SpatialField - токены всех разрешений точки через пробел, от мелкого к крупному
type SpatialField string

// Tokens - разбиение поля на токены
func (f SpatialField) Tokens() []CellToken {
	parts := strings.Fields(string(f))
	tokens := make([]CellToken, len(parts))
	for i, p := range parts {
		tokens[i] = CellToken(p)
	}
	return tokens
}

// JoinTokens - склейка токенов в SpatialField через одиночный пробел
func JoinTokens(tokens []CellToken) SpatialField {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = string(t)
	}
	return SpatialField(strings.Join(parts, " "))
}
