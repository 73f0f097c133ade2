package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/pkg/errors"
	"github.com/location-search/internal/pkg/geoindex"
	"github.com/location-search/internal/pkg/utils"
	"github.com/location-search/internal/pkg/validator"
	"github.com/location-search/internal/usecase"
	"github.com/location-search/internal/usecase/dto"
)

// SearchHandler - обработчик поиска по полигону
type SearchHandler struct {
	searchUC *usecase.SearchUseCase
	logger   *zap.Logger
}

// NewSearchHandler - создание нового SearchHandler
func NewSearchHandler(searchUC *usecase.SearchUseCase, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchUC: searchUC,
		logger:   logger,
	}
}

// SearchPolygon godoc
// @Summary Поиск заведений внутри полигона
// @Description Возвращает заведения, попадающие в полигон (вершины [lat, lng], неявно замкнут), с фильтрами по статусу, цене и минимальному рейтингу. Минимальный рейтинг - одно из 2, 2.5, 3, 3.5, 4, 4.5, сравнение строгое.
// @Tags Search
// @Accept json
// @Produce json
// @Param request body dto.SearchPolygonRequest true "Полигон и фильтры"
// @Success 200 {object} utils.SuccessResponse{data=dto.SearchPolygonResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/search/polygon [post]
func (h *SearchHandler) SearchPolygon(c *fiber.Ctx) error {
	start := time.Now()

	var req dto.SearchPolygonRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	polygon := make(domain.QueryPolygon, len(req.Polygon))
	for i, v := range req.Polygon {
		polygon[i] = domain.GeoPoint{Latitude: v[0], Longitude: v[1]}
	}

	filters := buildFilters(req.IsClosed, req.Price, req.MinimumRating)
	result, err := h.searchUC.SearchPolygon(c.Context(), polygon, filters, req.MaxRows)
	if err != nil {
		return utils.SendError(c, err)
	}

	resp := dto.NewSearchPolygonResponse(result)
	if req.IncludeCellsGeometry {
		resp.CellsGeometry = geoindex.CellsFeatureCollection(h.searchUC.Grid(), result.MatchedCells)
	}

	return utils.SendSuccess(c, resp, searchMeta(result, start))
}

func buildFilters(isClosed *bool, price *string, minimumRating *float64) domain.SearchFilters {
	filters := domain.SearchFilters{
		IsClosed:      isClosed,
		MinimumRating: minimumRating,
	}
	if price != nil {
		p := domain.Price(*price)
		filters.Price = &p
	}
	return filters
}

func searchMeta(result *domain.SearchResult, start time.Time) *utils.Meta {
	return &utils.Meta{
		Total:    len(result.Rows),
		Scanned:  result.Scanned,
		Skipped:  result.Skipped,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	}
}
