package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/pkg/errors"
	"github.com/location-search/internal/pkg/utils"
	"github.com/location-search/internal/pkg/validator"
	"github.com/location-search/internal/usecase"
	"github.com/location-search/internal/usecase/dto"
)

// ViewportHandler - поиск заведений в видимой области карты (bbox).
// Область превращается в полигон [SW, NW, NE, SE] и ищется тем же поиском.
type ViewportHandler struct {
	searchUC *usecase.SearchUseCase
	logger   *zap.Logger
}

// NewViewportHandler создаёт новый ViewportHandler
func NewViewportHandler(searchUC *usecase.SearchUseCase, logger *zap.Logger) *ViewportHandler {
	return &ViewportHandler{
		searchUC: searchUC,
		logger:   logger,
	}
}

// GetLocationsInViewport godoc
// @Summary Заведения в видимой области карты
// @Description Поиск по прямоугольнику sw/ne с теми же фильтрами, что и поиск по полигону
// @Tags Search
// @Produce json
// @Param sw_lat query number true "Широта юго-западного угла"
// @Param sw_lon query number true "Долгота юго-западного угла"
// @Param ne_lat query number true "Широта северо-восточного угла"
// @Param ne_lon query number true "Долгота северо-восточного угла"
// @Param is_closed query bool false "Статус заведения"
// @Param price query string false "Ценовой уровень ($..$$$$)"
// @Param minimum_rating query number false "Минимальный рейтинг (строго больше)"
// @Param max_rows query int false "Максимум результатов" default(100)
// @Success 200 {object} utils.SuccessResponse{data=dto.SearchPolygonResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/viewport/locations [get]
func (h *ViewportHandler) GetLocationsInViewport(c *fiber.Ctx) error {
	start := time.Now()

	req, err := parseViewportRequest(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if err := validator.Validate(req); err != nil {
		return utils.SendError(c, err)
	}

	polygon := domain.QueryPolygon{
		{Latitude: req.SwLat, Longitude: req.SwLon},
		{Latitude: req.NeLat, Longitude: req.SwLon},
		{Latitude: req.NeLat, Longitude: req.NeLon},
		{Latitude: req.SwLat, Longitude: req.NeLon},
	}

	filters := buildFilters(req.IsClosed, req.Price, req.MinimumRating)
	result, err := h.searchUC.SearchPolygon(c.Context(), polygon, filters, req.MaxRows)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.NewSearchPolygonResponse(result), searchMeta(result, start))
}

func parseViewportRequest(c *fiber.Ctx) (*dto.ViewportRequest, error) {
	var req dto.ViewportRequest
	corners := []struct {
		name string
		dst  *float64
	}{
		{"sw_lat", &req.SwLat},
		{"sw_lon", &req.SwLon},
		{"ne_lat", &req.NeLat},
		{"ne_lon", &req.NeLon},
	}
	for _, corner := range corners {
		v, err := strconv.ParseFloat(c.Query(corner.name), 64)
		if err != nil {
			return nil, invalidParam(corner.name)
		}
		*corner.dst = v
	}

	if s := c.Query("is_closed"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, invalidParam("is_closed")
		}
		req.IsClosed = &v
	}
	if s := c.Query("price"); s != "" {
		req.Price = &s
	}
	if s := c.Query("minimum_rating"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, invalidParam("minimum_rating")
		}
		req.MinimumRating = &v
	}
	if s := c.Query("max_rows"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, invalidParam("max_rows")
		}
		req.MaxRows = v
	}
	return &req, nil
}

func invalidParam(name string) error {
	return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"param": name})
}
