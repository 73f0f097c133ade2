package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/location-search/internal/pkg/errors"
	"github.com/location-search/internal/pkg/utils"
	"github.com/location-search/internal/pkg/validator"
	"github.com/location-search/internal/usecase"
	"github.com/location-search/internal/usecase/dto"
)

// LocationHandler - загрузка и чтение локаций
type LocationHandler struct {
	ingestUC   *usecase.IngestUseCase
	locationUC *usecase.LocationUseCase
	logger     *zap.Logger
}

// NewLocationHandler - создание нового LocationHandler
func NewLocationHandler(ingestUC *usecase.IngestUseCase, locationUC *usecase.LocationUseCase, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		ingestUC:   ingestUC,
		locationUC: locationUC,
		logger:     logger,
	}
}

// Ingest godoc
// @Summary Загрузка одного заведения
// @Description Проверяет сырую строку (цена, рейтинг 0..5, категории из справочника, координаты), сохраняет локацию и строку поискового индекса
// @Tags Locations
// @Accept json
// @Produce json
// @Param request body dto.RawLocationRow true "Сырая строка"
// @Success 201 {object} utils.SuccessResponse{data=dto.IngestResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/locations [post]
func (h *LocationHandler) Ingest(c *fiber.Ctx) error {
	var req dto.RawLocationRow
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	id, err := h.ingestUC.IngestRow(c.Context(), &req)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, dto.IngestResponse{ID: id}, nil)
}

// IngestBatch godoc
// @Summary Пакетная загрузка заведений
// @Description Строки загружаются по порядку; первая ошибка прерывает пакет, в деталях ошибки - row_index и число уже загруженных строк
// @Tags Locations
// @Accept json
// @Produce json
// @Param request body dto.IngestBatchRequest true "Строки (до 1000)"
// @Success 201 {object} utils.SuccessResponse{data=dto.IngestBatchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/locations/batch [post]
func (h *LocationHandler) IngestBatch(c *fiber.Ctx) error {
	var req dto.IngestBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	ids, err := h.ingestUC.IngestMany(c.Context(), req.Rows)
	if err != nil {
		h.logger.Warn("Batch ingest aborted", zap.Int("ingested", len(ids)), zap.Error(err))
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, dto.IngestBatchResponse{IDs: ids, Count: len(ids)}, nil)
}

// GetByID godoc
// @Summary Получение заведения по ID
// @Tags Locations
// @Produce json
// @Param id path string true "UUID заведения"
// @Success 200 {object} utils.SuccessResponse{data=domain.Location}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/locations/{id} [get]
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, invalidParam("id"))
	}

	loc, err := h.locationUC.GetByID(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, loc, nil)
}
