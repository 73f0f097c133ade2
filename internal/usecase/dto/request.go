package dto

// RawCategory - категория во входной строке
type RawCategory struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

// RawCoordinates - координаты во входной строке; любое поле может отсутствовать
type RawCoordinates struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// RawAddress - блок адреса во входной строке
type RawAddress struct {
	DisplayAddress []string `json:"display_address"`
}

// RawLocationRow - сырая строка выгрузки заведений (формат Yelp Fusion).
// Проверяется и явно конвертируется в domain.Location при загрузке.
type RawLocationRow struct {
	ID           string          `json:"id,omitempty"`
	Alias        string          `json:"alias"`
	Name         string          `json:"name" validate:"required"`
	ImageURL     string          `json:"image_url"`
	Neighborhood string          `json:"neighborhood"`
	IsClosed     bool            `json:"is_closed"`
	URL          string          `json:"url"`
	ReviewCount  int             `json:"review_count" validate:"min=0"`
	Categories   []RawCategory   `json:"categories"`
	Rating       *float64        `json:"rating"`
	Coordinates  *RawCoordinates `json:"coordinates"`
	Price        *string         `json:"price,omitempty"`
	Location     *RawAddress     `json:"location,omitempty"`
	DisplayPhone string          `json:"display_phone"`
}

// IngestBatchRequest - пакетная загрузка строк
type IngestBatchRequest struct {
	Rows []RawLocationRow `json:"rows" validate:"required,min=1,max=1000,dive"`
}

// SearchPolygonRequest - поиск заведений внутри полигона.
// Вершины - пары [lat, lng], полигон неявно замкнут.
type SearchPolygonRequest struct {
	Polygon              [][]float64 `json:"polygon" validate:"required,min=2,max=1000,dive,len=2"`
	IsClosed             *bool       `json:"is_closed,omitempty"`
	Price                *string     `json:"price,omitempty" validate:"omitempty,price"`
	MinimumRating        *float64    `json:"minimum_rating,omitempty" validate:"omitempty,minrating"`
	MaxRows              int         `json:"max_rows,omitempty" validate:"omitempty,min=1,max=1000"`
	IncludeCellsGeometry bool        `json:"include_cells_geometry,omitempty"`
}

// ViewportRequest - поиск по видимой области карты (bbox)
type ViewportRequest struct {
	SwLat         float64  `validate:"min=-90,max=90"`
	SwLon         float64  `validate:"min=-180,max=180"`
	NeLat         float64  `validate:"min=-90,max=90"`
	NeLon         float64  `validate:"min=-180,max=180"`
	IsClosed      *bool    `validate:"-"`
	Price         *string  `validate:"omitempty,price"`
	MinimumRating *float64 `validate:"omitempty,minrating"`
	MaxRows       int      `validate:"omitempty,min=1,max=1000"`
}

// UpsertCategoriesRequest - обновление справочника категорий
type UpsertCategoriesRequest struct {
	Categories []CategoryItem `json:"categories" validate:"required,min=1,dive"`
}

// CategoryItem - категория с популярностью
type CategoryItem struct {
	Alias string `json:"alias" validate:"required"`
	Title string `json:"title" validate:"required"`
	Count int    `json:"count" validate:"min=0"`
}
