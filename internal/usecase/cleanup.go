package usecase

import (
	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/usecase/dto"
)

// CleanupStats - что сделала подготовка выгрузки
type CleanupStats struct {
	Kept               int `json:"kept"`
	SkippedNoLocation  int `json:"skipped_no_coordinates"`
	DroppedPriceValues int `json:"dropped_price_values"`
}

// CleanRows - подготовка сырой выгрузки к загрузке: строки без координат
// (отсутствующие или нулевые) пропускаются, нераспознанная цена удаляется.
// Популярность категорий считается по всей выгрузке до отбрасывания строк.
func CleanRows(rows []dto.RawLocationRow) ([]dto.RawLocationRow, []domain.CategoryCount, CleanupStats) {
	counts := CountCategories(rows)

	var stats CleanupStats
	kept := make([]dto.RawLocationRow, 0, len(rows))
	for _, row := range rows {
		if !hasCoordinates(row.Coordinates) {
			stats.SkippedNoLocation++
			continue
		}
		if row.Price != nil && !domain.Price(*row.Price).Valid() {
			row.Price = nil
			stats.DroppedPriceValues++
		}
		kept = append(kept, row)
	}
	stats.Kept = len(kept)
	return kept, counts, stats
}

func hasCoordinates(c *dto.RawCoordinates) bool {
	return c != nil &&
		c.Latitude != nil && *c.Latitude != 0 &&
		c.Longitude != nil && *c.Longitude != 0
}
