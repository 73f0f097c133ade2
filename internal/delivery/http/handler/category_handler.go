package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/location-search/internal/pkg/errors"
	"github.com/location-search/internal/pkg/utils"
	"github.com/location-search/internal/pkg/validator"
	"github.com/location-search/internal/usecase"
	"github.com/location-search/internal/usecase/dto"
)

// CategoryHandler - справочник категорий
type CategoryHandler struct {
	categoryUC *usecase.CategoryUseCase
	logger     *zap.Logger
}

// NewCategoryHandler - создание нового CategoryHandler
func NewCategoryHandler(categoryUC *usecase.CategoryUseCase, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categoryUC: categoryUC, logger: logger}
}

// List godoc
// @Summary Справочник категорий
// @Description Известные категории по убыванию популярности
// @Tags Categories
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.CategoriesResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	resp, err := h.categoryUC.List(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp, &utils.Meta{Total: resp.Total})
}

// Upsert godoc
// @Summary Обновление справочника категорий
// @Description Добавляет категории или обновляет название и популярность существующих
// @Tags Categories
// @Accept json
// @Produce json
// @Param request body dto.UpsertCategoriesRequest true "Категории"
// @Success 200 {object} utils.SuccessResponse{data=dto.CategoriesResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/categories [put]
func (h *CategoryHandler) Upsert(c *fiber.Ctx) error {
	var req dto.UpsertCategoriesRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	if err := h.categoryUC.Upsert(c.Context(), req); err != nil {
		return utils.SendError(c, err)
	}
	return h.List(c)
}
