package domain

// SearchFilters - категориальные фильтры запроса
type SearchFilters struct {
	IsClosed      *bool
	Price         *Price
	MinimumRating *float64
}

// SearchQuery - план запроса к токенному индексу: OR по токенам,
// точные фильтры объединяются через AND
type SearchQuery struct {
	Tokens       []CellToken
	IsClosed     *bool
	Price        *Price
	RatingBucket *RatingBucket
	Limit        int
}

// Matches проверяет точные фильтры и пересечение токенов для строки индекса
func (q *SearchQuery) Matches(row *LocationIndexRow) bool {
	if q.IsClosed != nil && row.IsClosed != *q.IsClosed {
		return false
	}
	if q.Price != nil && (row.Price == nil || *row.Price != *q.Price) {
		return false
	}
	if q.RatingBucket != nil && !row.Bucket(*q.RatingBucket) {
		return false
	}
	want := make(map[CellToken]struct{}, len(q.Tokens))
	for _, t := range q.Tokens {
		want[t] = struct{}{}
	}
	for _, t := range row.Geospatial.Tokens() {
		if _, ok := want[t]; ok {
			return true
		}
	}
	return false
}

// SearchResult - результат поиска по полигону. MatchedCells нужны
// только для визуализации на клиенте.
type SearchResult struct {
	MatchedCells []CellID    `json:"matched_cells"`
	Rows         []*Location `json:"rows"`
	Resolution   int         `json:"resolution"`
	Scanned      int         `json:"scanned"`
	Skipped      int         `json:"skipped"`
	Truncated    bool        `json:"truncated"`
}
