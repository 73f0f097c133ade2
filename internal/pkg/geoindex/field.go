package geoindex

import (
	"github.com/location-search/internal/domain"
)

// FieldBuilder строит SpatialField точки: токены родительских ячеек
// с разрешения 14 до 0 (и опционально листовой ячейки 15).
type FieldBuilder struct {
	grid             Grid
	includeLeafToken bool
}

// NewFieldBuilder - создание FieldBuilder. includeLeafToken добавляет токен
// листовой ячейки (16 токенов вместо 15); при поиске разрешение 15 не
// выбирается, поэтому по умолчанию он не нужен.
func NewFieldBuilder(grid Grid, includeLeafToken bool) *FieldBuilder {
	return &FieldBuilder{
		grid:             grid,
		includeLeafToken: includeLeafToken,
	}
}

// TokenCount - число токенов в поле
func (b *FieldBuilder) TokenCount() int {
	if b.includeLeafToken {
		return MaxIndexResolution + 2
	}
	return MaxIndexResolution + 1
}

// Build - поле для точки. Ошибки: ErrInvalidCoordinates, ErrInvalidResolution.
func (b *FieldBuilder) Build(point domain.GeoPoint) (domain.SpatialField, error) {
	leaf, err := b.grid.PointToCell(point, LeafResolution)
	if err != nil {
		return "", err
	}

	tokens := make([]domain.CellToken, 0, b.TokenCount())
	if b.includeLeafToken {
		tokens = append(tokens, EncodeCell(leaf))
	}
	for resolution := MaxIndexResolution; resolution >= 0; resolution-- {
		parent, err := b.grid.CellToParent(leaf, resolution)
		if err != nil {
			return "", err
		}
		tokens = append(tokens, EncodeCell(parent))
	}

	return domain.JoinTokens(tokens), nil
}
