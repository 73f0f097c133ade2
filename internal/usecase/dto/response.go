package dto

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"github.com/location-search/internal/domain"
)

// IngestResponse - ответ на загрузку одной строки
type IngestResponse struct {
	ID uuid.UUID `json:"id"`
}

// IngestBatchResponse - ответ на пакетную загрузку
type IngestBatchResponse struct {
	IDs   []uuid.UUID `json:"ids"`
	Count int         `json:"count"`
}

// SearchPolygonResponse - результат поиска по полигону.
// MatchedCells и CellsGeometry нужны только для отрисовки на клиенте.
type SearchPolygonResponse struct {
	MatchedCells   []domain.CellID            `json:"matched_cells"`
	Rows           []*domain.Location         `json:"rows"`
	Resolution     int                        `json:"resolution"`
	CellsTruncated bool                       `json:"cells_truncated"`
	CellsGeometry  *geojson.FeatureCollection `json:"cells_geometry,omitempty" swaggertype:"object"`
}

// ReindexResponse - запущенная задача переиндексации
type ReindexResponse struct {
	JobID  uuid.UUID            `json:"job_id"`
	Status domain.ReindexStatus `json:"status"`
}

// CategoriesResponse - справочник категорий
type CategoriesResponse struct {
	Categories []domain.CategoryCount `json:"categories"`
	Total      int                    `json:"total"`
}

// NewSearchPolygonResponse - конвертация результата поиска в ответ API
func NewSearchPolygonResponse(r *domain.SearchResult) *SearchPolygonResponse {
	rows := r.Rows
	if rows == nil {
		rows = []*domain.Location{}
	}
	return &SearchPolygonResponse{
		MatchedCells:   r.MatchedCells,
		Rows:           rows,
		Resolution:     r.Resolution,
		CellsTruncated: r.Truncated,
	}
}
